package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sjsage522/gowhere/internal/mall"

	"github.com/jedib0t/go-pretty/v6/table"
)

type outputMode int

const (
	modePlain outputMode = iota
	modePretty
	modeHuman
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// printAll writes the whole dataset in catalog order
func printAll(w io.Writer, ds mall.Dataset, mode outputMode) error {
	switch mode {
	case modePretty:
		t := newTable(w)
		t.AppendHeader(table.Row{"Region", "Malls", "Names"})
		for _, region := range ds.Regions(mall.Regions) {
			t.AppendRow(table.Row{region, len(ds[region]), strings.Join(ds[region], "\n")})
			t.AppendSeparator()
		}
		t.AppendFooter(table.Row{"Total", ds.Total(), ""})
		t.Render()
		return nil
	case modeHuman:
		_, err := fmt.Fprint(w, ds.HumanReadable(mall.Regions))
		return err
	default:
		out, err := ds.Describe(mall.Regions)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, out)
		return err
	}
}

// printPick writes a single sampled result
func printPick(w io.Writer, p mall.Pick, mode outputMode) error {
	switch mode {
	case modeHuman:
		_, err := fmt.Fprint(w, p.HumanReadable())
		return err
	case modePretty:
		data, err := json.MarshalIndent(p, "", "    ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}
