package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	Default = New(zerolog.New(&buf))

	ForSampler().Info().Msg("picked")
	assert.Contains(t, buf.String(), `"component":"sampler"`)
	assert.Contains(t, buf.String(), `"message":"picked"`)

	buf.Reset()
	ForScraper("wikipedia").Warn().Msg("slow")
	assert.Contains(t, buf.String(), `"source":"wikipedia"`)
	assert.Contains(t, buf.String(), `"component":"scraper"`)

	buf.Reset()
	LogInfo("store", "exported %d regions", 7)
	assert.Contains(t, buf.String(), "exported 7 regions")
}

func TestAccessMiddleware(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(prev)

	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	h := AccessMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/East", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"path":"/East"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"bytes":15`)
}
