package mall

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRegion(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"north east", NorthEast, true},
		{"NORTH   WEST", NorthWest, true},
		{" south ", South, true},
		{"Central", Central, true},
		{"Northeast", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		region, ok := NormalizeRegion(Regions, tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		assert.Equal(t, tc.expected, region, tc.input)
	}
}

func TestDatasetRegionsOrder(t *testing.T) {
	ds := Dataset{
		South:   {"VivoCity"},
		"Zeta":  {},
		Central: {"Funan"},
		"Alpha": {"X"},
	}
	assert.Equal(t, []string{Central, South, "Alpha", "Zeta"}, ds.Regions(Regions))
}

func TestDatasetValidate(t *testing.T) {
	assert.NoError(t, Dataset{East: {"Tampines Mall"}, West: nil}.Validate(Regions))
	assert.Error(t, Dataset{"Atlantis": {"Mall"}}.Validate(Regions))
}

func TestDatasetCloneIsDeep(t *testing.T) {
	ds := Dataset{East: {"Tampines Mall", "Bedok Mall"}}
	clone := ds.Clone()
	clone[East][0] = "Changed"
	assert.Equal(t, "Tampines Mall", ds[East][0])
}

func TestDatasetCapacityAndTotal(t *testing.T) {
	ds := Dataset{East: {"A", "B", "A"}, West: {"C"}}
	assert.Equal(t, 2, ds.Capacity(East))
	assert.Equal(t, 0, ds.Capacity(North))
	assert.Equal(t, 4, ds.Total())
}

func TestDatasetDescribe(t *testing.T) {
	_, err := Dataset{}.Describe(Regions)
	assert.Error(t, err)

	out, err := Dataset{East: {"Tampines Mall"}, Central: {"Funan", "ION Orchard"}}.Describe(Regions)
	require.NoError(t, err)
	assert.Equal(t, "Central: [\"Funan\" \"ION Orchard\"]\nEast: [\"Tampines Mall\"]\n", out)
}

func TestDatasetHumanReadable(t *testing.T) {
	ds := Dataset{West: {"Jem", "JCube"}, East: {"Bedok Mall"}}
	assert.Equal(t, "East\n\tBedok Mall\nWest\n\tJem\n\tJCube\n", ds.HumanReadable(Regions))
}

func TestHolderConcurrentAccess(t *testing.T) {
	h := NewHolder(Dataset{East: {"A"}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = h.Get().Capacity(East)
		}()
		go func() {
			defer wg.Done()
			h.Set(Dataset{East: {"A", "B"}})
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, h.Get().Capacity(East))
	assert.False(t, h.UpdatedAt().IsZero())
}
