package mall

import "strings"

// Region names in the order the source page lists them
const (
	Central   = "Central"
	East      = "East"
	North     = "North"
	NorthEast = "North East"
	NorthWest = "North West"
	West      = "West"
	South     = "South"
)

// Regions is the catalog of known regions
var Regions = []string{Central, East, North, NorthEast, NorthWest, West, South}

// IsRegion reports whether name is spelled exactly like a catalog entry
func IsRegion(catalog []string, name string) bool {
	for _, r := range catalog {
		if r == name {
			return true
		}
	}
	return false
}

// NormalizeRegion maps any casing and spacing of a region name onto its
// catalog spelling. ok is false when nothing in the catalog matches.
func NormalizeRegion(catalog []string, name string) (string, bool) {
	want := strings.Join(strings.Fields(name), " ")
	for _, r := range catalog {
		if strings.EqualFold(r, want) {
			return r, true
		}
	}
	return "", false
}
