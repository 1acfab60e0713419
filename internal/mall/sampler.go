package mall

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"sjsage522/gowhere/logger"
	apperrors "sjsage522/gowhere/pkg/errors"
)

// DefaultMaxAttempts bounds how many random regions are tried before giving up
const DefaultMaxAttempts = 5

// Source is the randomness the sampler draws from. *rand.Rand satisfies it.
type Source interface {
	// IntN returns a uniform value in [0, n)
	IntN(n int) int
}

// globalSource uses the goroutine-safe top-level math/rand/v2 generator
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns the goroutine-safe global generator
func DefaultSource() Source { return globalSource{} }

// Pick is a sample of distinct malls from a single region
type Pick struct {
	Region string
	Malls  []string
}

// MarshalJSON encodes the pick as a single-entry object: {"East": ["A", "B"]}
func (p Pick) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{p.Region: p.Malls})
}

// UnmarshalJSON decodes the single-entry object form
func (p *Pick) UnmarshalJSON(data []byte) error {
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("pick must hold exactly one region, got %d", len(m))
	}
	for region, malls := range m {
		p.Region, p.Malls = region, malls
	}
	return nil
}

// HumanReadable renders the region line followed by tab-indented malls
func (p Pick) HumanReadable() string {
	var b strings.Builder
	writeRegion(&b, p.Region, p.Malls)
	return b.String()
}

// Sampler picks random malls out of a dataset
type Sampler struct {
	// Catalog is the set of regions eligible for random selection.
	// Nil means Regions.
	Catalog []string
	// MaxAttempts bounds random region selection. Zero means DefaultMaxAttempts.
	MaxAttempts int
	// Rand is the randomness source. Nil means the global math/rand/v2 generator.
	Rand Source
}

// NewSampler creates a sampler over the default catalog
func NewSampler(maxAttempts int, src Source) *Sampler {
	return &Sampler{
		Catalog:     Regions,
		MaxAttempts: maxAttempts,
		Rand:        src,
	}
}

func (s *Sampler) catalog() []string {
	if s.Catalog == nil {
		return Regions
	}
	return s.Catalog
}

func (s *Sampler) maxAttempts() int {
	if s.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return s.MaxAttempts
}

func (s *Sampler) source() Source {
	if s.Rand == nil {
		return globalSource{}
	}
	return s.Rand
}

// Sample returns count distinct malls from region. An empty region is
// chosen at random among catalog regions holding at least count malls.
// The dataset is never modified.
func (s *Sampler) Sample(ds Dataset, count int, region string) (Pick, error) {
	if count < 1 {
		return Pick{}, apperrors.NewInvalidPrecondition(region, fmt.Sprintf("count must be at least 1, got %d", count), nil)
	}

	catalog := s.catalog()
	if len(catalog) == 0 {
		return Pick{}, apperrors.NewInvalidPrecondition(region, "region catalog is empty", nil)
	}

	rnd := s.source()

	if region == "" {
		resolved, err := s.pickRegion(ds, catalog, count, rnd)
		if err != nil {
			return Pick{}, err
		}
		region = resolved
	} else {
		if !IsRegion(catalog, region) {
			return Pick{}, apperrors.NewInvalidPrecondition(region, "region is not in the catalog", nil)
		}
		if available := ds.Capacity(region); available < count {
			return Pick{}, apperrors.NewInvalidPrecondition(region,
				fmt.Sprintf("needs %d distinct malls, has %d", count, available),
				apperrors.ErrInsufficientData)
		}
	}

	return Pick{Region: region, Malls: take(ds.Distinct(region), count, rnd)}, nil
}

// pickRegion draws regions uniformly until one can supply count malls
func (s *Sampler) pickRegion(ds Dataset, catalog []string, count int, rnd Source) (string, error) {
	attempts := s.maxAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		region := catalog[rnd.IntN(len(catalog))]
		if ds.Capacity(region) >= count {
			return region, nil
		}
		logger.ForSampler().Debug().
			Str("region", region).
			Int("count", count).
			Int("attempt", attempt).
			Msg("Region too small, retrying")
	}
	return "", apperrors.NewInsufficientData("",
		fmt.Sprintf("no region with %d malls found in %d attempts", count, attempts))
}

// take shuffles the first count positions of pool (partial Fisher-Yates)
// and returns them. pool must be owned by the caller.
func take(pool []string, count int, rnd Source) []string {
	n := len(pool)
	for i := 0; i < count; i++ {
		j := i + rnd.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count:count]
}
