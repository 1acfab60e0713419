package mall

import (
	"fmt"
	"sort"
	"strings"

	apperrors "sjsage522/gowhere/pkg/errors"
)

// Dataset maps a region name to the malls found in it
type Dataset map[string][]string

// Clone returns a deep copy of the dataset
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	for region, malls := range d {
		out[region] = append([]string(nil), malls...)
	}
	return out
}

// Regions lists the dataset's regions, catalog entries first in catalog
// order, then any extra keys sorted by name.
func (d Dataset) Regions(catalog []string) []string {
	out := make([]string, 0, len(d))
	seen := make(map[string]bool, len(d))
	for _, r := range catalog {
		if _, ok := d[r]; ok {
			out = append(out, r)
			seen[r] = true
		}
	}
	var extra []string
	for r := range d {
		if !seen[r] {
			extra = append(extra, r)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Distinct returns the region's malls without duplicates, first occurrence wins
func (d Dataset) Distinct(region string) []string {
	malls := d[region]
	seen := make(map[string]bool, len(malls))
	out := make([]string, 0, len(malls))
	for _, m := range malls {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// Capacity is the number of distinct malls available in region
func (d Dataset) Capacity(region string) int {
	return len(d.Distinct(region))
}

// Total counts every mall entry across regions
func (d Dataset) Total() int {
	n := 0
	for _, malls := range d {
		n += len(malls)
	}
	return n
}

// Validate checks that every key belongs to the catalog
func (d Dataset) Validate(catalog []string) error {
	for region := range d {
		if !IsRegion(catalog, region) {
			return apperrors.NewValidation(region, "region is not in the catalog")
		}
	}
	return nil
}

// Describe renders one "Region: [a b c]" line per region. An empty dataset
// is reported as an error.
func (d Dataset) Describe(catalog []string) (string, error) {
	if len(d) == 0 {
		return "", apperrors.NewValidation("", "No data found")
	}
	var b strings.Builder
	for _, region := range d.Regions(catalog) {
		fmt.Fprintf(&b, "%s: %q\n", region, d[region])
	}
	return b.String(), nil
}

// HumanReadable renders each region on its own line followed by one
// tab-indented line per mall.
func (d Dataset) HumanReadable(catalog []string) string {
	var b strings.Builder
	for _, region := range d.Regions(catalog) {
		writeRegion(&b, region, d[region])
	}
	return b.String()
}

func writeRegion(b *strings.Builder, region string, malls []string) {
	b.WriteString(region)
	b.WriteByte('\n')
	for _, m := range malls {
		b.WriteByte('\t')
		b.WriteString(m)
		b.WriteByte('\n')
	}
}
