package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sjsage522/gowhere/internal/mall"
	"sjsage522/gowhere/internal/scraper"
	"sjsage522/gowhere/logger"
	apperrors "sjsage522/gowhere/pkg/errors"

	"gopkg.in/yaml.v3"
)

// Format is a dataset file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
	FormatYAML Format = "yaml"
)

// Formats lists the supported encodings
var Formats = []Format{FormatJSON, FormatCSV, FormatText, FormatYAML}

// ErrUnknownFormat is returned for file names or format names we cannot map
var ErrUnknownFormat = errors.New("unknown dataset format")

// ParseFormat maps a format name ("json", "yml", ...) to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "txt", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatForPath picks the format from the file extension
func FormatForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Encode writes ds to w. Regions come out in catalog order where the format keeps order.
func Encode(w io.Writer, ds mall.Dataset, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(ds)
	case FormatCSV:
		return encodeCSV(w, ds)
	case FormatText:
		return encodeText(w, ds)
	case FormatYAML:
		return encodeYAML(w, ds)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Decode reads a dataset from r
func Decode(r io.Reader, format Format) (mall.Dataset, error) {
	switch format {
	case FormatJSON:
		var ds mall.Dataset
		if err := json.NewDecoder(r).Decode(&ds); err != nil {
			return nil, err
		}
		return ds, nil
	case FormatCSV:
		return decodeCSV(r)
	case FormatText:
		return decodeText(r)
	case FormatYAML:
		var ds mall.Dataset
		if err := yaml.NewDecoder(r).Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if ds == nil {
			ds = mall.Dataset{}
		}
		return ds, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// encodeCSV writes one row per region: the region then its malls
func encodeCSV(w io.Writer, ds mall.Dataset) error {
	cw := csv.NewWriter(w)
	for _, region := range ds.Regions(mall.Regions) {
		if err := cw.Write(append([]string{region}, ds[region]...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decodeCSV(r io.Reader) (mall.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	ds := mall.Dataset{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return ds, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		ds[row[0]] = append([]string{}, row[1:]...)
	}
}

// encodeText writes one `Region: ["a","b"]` record per line
func encodeText(w io.Writer, ds mall.Dataset) error {
	bw := bufio.NewWriter(w)
	for _, region := range ds.Regions(mall.Regions) {
		malls := ds[region]
		if malls == nil {
			malls = []string{}
		}
		list, err := json.Marshal(malls)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%s: %s\n", region, list); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func decodeText(r io.Reader) (mall.Dataset, error) {
	ds := mall.Dataset{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		region, list, ok := strings.Cut(text, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: missing ':' separator", line)
		}
		var malls []string
		if err := json.Unmarshal([]byte(strings.TrimSpace(list)), &malls); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if malls == nil {
			malls = []string{}
		}
		ds[strings.TrimSpace(region)] = malls
	}
	return ds, sc.Err()
}

// encodeYAML builds the mapping node by hand so regions keep catalog order
func encodeYAML(w io.Writer, ds mall.Dataset) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, region := range ds.Regions(mall.Regions) {
		list := &yaml.Node{Kind: yaml.SequenceNode}
		for _, m := range ds[region] {
			list.Content = append(list.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: region},
			list,
		)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}

// Import reads the dataset file at path, format chosen by extension
func Import(path string) (mall.Dataset, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, apperrors.NewStorage(path, "cannot import", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorage(path, "cannot open dataset", err)
	}
	defer f.Close()

	ds, err := Decode(f, format)
	if err != nil {
		return nil, apperrors.NewStorage(path, "cannot decode dataset", err)
	}
	logger.ForStore().Debug().Str("path", path).Int("malls", ds.Total()).Msg("Imported dataset")
	return ds, nil
}

// Export writes ds to path, format chosen by extension. The file is
// replaced atomically so readers never see a half-written dataset.
func Export(ds mall.Dataset, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return apperrors.NewStorage(path, "cannot export", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, ds, format); err != nil {
		return apperrors.NewStorage(path, "cannot encode dataset", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorage(path, "cannot create directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".dataset-*")
	if err != nil {
		return apperrors.NewStorage(path, "cannot create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return apperrors.NewStorage(path, "cannot write dataset", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorage(path, "cannot write dataset", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.NewStorage(path, "cannot replace dataset", err)
	}

	logger.ForStore().Debug().Str("path", path).Str("format", string(format)).Msg("Exported dataset")
	return nil
}

// Load imports path and falls back to scraping when the file is missing
// or its format is unknown. A scraped dataset is not written back here.
func Load(ctx context.Context, path string, s scraper.Scraper) (mall.Dataset, error) {
	ds, err := Import(path)
	if err == nil {
		return ds, nil
	}
	if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, ErrUnknownFormat) {
		return nil, err
	}
	if s == nil {
		return nil, err
	}

	logger.ForStore().Info().
		Str("path", path).
		Err(err).
		Msg("Dataset file unusable, getting data from the web")
	return s.Scrape(ctx)
}
