package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDataset(t *testing.T) {
	ObserveDataset(map[string]int{"East": 12, "South": 3})
	assert.Equal(t, float64(12), testutil.ToFloat64(DatasetMalls.WithLabelValues("East")))
	assert.Equal(t, float64(3), testutil.ToFloat64(DatasetMalls.WithLabelValues("South")))

	// A later dataset replaces, not merges
	ObserveDataset(map[string]int{"West": 5})
	assert.Equal(t, 1, testutil.CollectAndCount(DatasetMalls))
}

func TestHandlerExposesMetrics(t *testing.T) {
	PicksTotal.WithLabelValues("Central").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `gowhere_picks_total{region="Central"}`)
}
