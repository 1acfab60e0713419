package web

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"sjsage522/gowhere/internal/mall"
	"sjsage522/gowhere/services/publisher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockPublisher records published picks
type MockPublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

var _ publisher.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, append([]byte(nil), message...))
	return nil
}

func (m *MockPublisher) TrimStreams() error { return nil }
func (m *MockPublisher) Close() error       { return nil }

func testDataset() mall.Dataset {
	return mall.Dataset{
		mall.Central:   {"Funan", "ION Orchard", "Plaza Singapura", "Raffles City", "Bugis Junction", "Wisma Atria", "Paragon", "313@Somerset"},
		mall.East:      {"Bedok Mall", "Tampines Mall", "Jewel Changi Airport", "Century Square", "Tampines 1", "White Sands", "Eastpoint Mall"},
		mall.North:     {"Causeway Point", "Northpoint City", "Sun Plaza", "Canberra Plaza", "Woodlands Mart", "Wisteria Mall", "Vista Point"},
		mall.NorthEast: {"Compass One", "NEX", "Waterway Point", "Hougang Mall", "Rivervale Mall", "Seletar Mall", "Heartland Mall"},
		mall.NorthWest: {"Hillion Mall", "Bukit Panjang Plaza", "Junction 10", "Lot One", "Beauty World Centre", "Limbang Shopping Centre", "Sunshine Place"},
		mall.West:      {"Jem", "JCube", "Westgate", "IMM", "Jurong Point", "West Mall", "Clementi Mall"},
		mall.South:     {"VivoCity", "HarbourFront Centre", "Alexandra Retail Centre"},
	}
}

func newTestServer(t *testing.T, ds mall.Dataset, pub publisher.Publisher) http.Handler {
	t.Helper()
	src := rand.New(rand.NewPCG(1, 2))
	s, err := NewServer(Options{
		Holder:    mall.NewHolder(ds),
		Sampler:   &mall.Sampler{Catalog: mall.Regions, MaxAttempts: 5, Rand: src},
		Publisher: pub,
		PickMin:   3,
		PickMax:   7,
	})
	require.NoError(t, err)
	return s.Routes()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// listedMalls pulls the <li> entries out of a rendered page
func listedMalls(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "<li>") {
			out = append(out, strings.TrimSuffix(strings.TrimPrefix(line, "<li>"), "</li>"))
		}
	}
	return out
}

func TestIndex(t *testing.T) {
	pub := &MockPublisher{}
	h := newTestServer(t, testDataset(), pub)

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Go Where?</title>")

	malls := listedMalls(rec.Body.String())
	assert.GreaterOrEqual(t, len(malls), 3)
	assert.LessOrEqual(t, len(malls), 7)
	require.Len(t, pub.messages, 1)
}

func TestRegionPage(t *testing.T) {
	h := newTestServer(t, testDataset(), nil)

	for _, path := range []string{"/north%20east", "/North%20East", "/NORTH%20EAST"} {
		rec := get(h, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<h1>North East</h1>", path)
		malls := listedMalls(rec.Body.String())
		assert.Subset(t, testDataset()[mall.NorthEast], malls, path)
	}
}

func TestSmallRegionClampsCount(t *testing.T) {
	ds := testDataset()
	ds[mall.South] = []string{"VivoCity", "HarbourFront Centre"}
	h := newTestServer(t, ds, nil)

	for i := 0; i < 20; i++ {
		rec := get(h, "/south")
		require.Equal(t, http.StatusOK, rec.Code)
		malls := listedMalls(rec.Body.String())
		assert.GreaterOrEqual(t, len(malls), 1)
		assert.LessOrEqual(t, len(malls), 2)
	}
}

func TestRegionCountPage(t *testing.T) {
	h := newTestServer(t, testDataset(), nil)

	rec := get(h, "/east/4")
	require.Equal(t, http.StatusOK, rec.Code)
	malls := listedMalls(rec.Body.String())
	assert.Len(t, malls, 4)
	assert.Subset(t, testDataset()[mall.East], malls)

	rec = get(h, "/south/4")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not enough malls")

	rec = get(h, "/east/zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(h, "/east/0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t, testDataset(), nil)

	assert.Equal(t, http.StatusNotFound, get(h, "/atlantis").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/atlantis/3").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/a/b/c").Code)
}

func TestEmptyDataset(t *testing.T) {
	h := newTestServer(t, mall.Dataset{}, nil)

	rec := get(h, "/")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = get(h, "/central")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAPIRandom(t *testing.T) {
	h := newTestServer(t, testDataset(), nil)

	rec := get(h, "/api/random?region=west&count=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Len(t, body[mall.West], 2)

	rec = get(h, "/api/random")
	require.Equal(t, http.StatusOK, rec.Code)
	var pick mall.Pick
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pick))
	assert.True(t, mall.IsRegion(mall.Regions, pick.Region))

	rec = get(h, "/api/random?region=South&count=9")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"invalid_precondition"`)

	rec = get(h, "/api/random?region=mars")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(h, "/api/random?count=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(h, "/api/random?count=50")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"insufficient_data"`)
}

func TestAPIRegions(t *testing.T) {
	h := newTestServer(t, testDataset(), nil)

	rec := get(h, "/api/regions")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Regions []regionSummary `json:"regions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Regions, len(mall.Regions))
	assert.Equal(t, regionSummary{Name: mall.Central, Malls: 8}, body.Regions[0])
	assert.Equal(t, regionSummary{Name: mall.South, Malls: 3}, body.Regions[6])
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, testDataset(), nil)

	rec := get(h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	get(h, "/east/2")
	rec = get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gowhere_picks_total")
}
