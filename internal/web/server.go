package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sjsage522/gowhere/internal/mall"
	"sjsage522/gowhere/internal/metrics"
	"sjsage522/gowhere/logger"
	apperrors "sjsage522/gowhere/pkg/errors"
	"sjsage522/gowhere/services/publisher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

const siteTitle = "Go Where?"

// Options configures the web server
type Options struct {
	Holder    *mall.Holder
	Sampler   *mall.Sampler
	Publisher publisher.Publisher
	// PickMin and PickMax bound the random number of malls per page
	PickMin int
	PickMax int
	// Rand picks the number of malls. Nil uses the sampler's source.
	Rand mall.Source
}

// Server renders random mall picks
type Server struct {
	holder    *mall.Holder
	sampler   *mall.Sampler
	publisher publisher.Publisher
	pickMin   int
	pickMax   int
	rand      mall.Source
	pages     *template.Template
	log       *logger.Logger
}

// pageData feeds templates/page.html
type pageData struct {
	Title   string
	Region  string
	Malls   []string
	Regions []string
	Message string
}

// NewServer creates a server over the dataset in opts.Holder
func NewServer(opts Options) (*Server, error) {
	pages, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, err
	}
	if opts.Sampler == nil {
		opts.Sampler = mall.NewSampler(mall.DefaultMaxAttempts, nil)
	}
	if opts.Publisher == nil {
		opts.Publisher = publisher.Nop{}
	}
	if opts.PickMin < 1 {
		opts.PickMin = 1
	}
	if opts.PickMax < opts.PickMin {
		opts.PickMax = opts.PickMin
	}
	src := opts.Rand
	if src == nil {
		src = opts.Sampler.Rand
	}
	if src == nil {
		src = mall.DefaultSource()
	}
	return &Server{
		holder:    opts.Holder,
		sampler:   opts.Sampler,
		publisher: opts.Publisher,
		pickMin:   opts.PickMin,
		pickMax:   opts.PickMax,
		rand:      src,
		pages:     pages,
		log:       logger.ForServer(),
	}, nil
}

// Routes builds the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logger.AccessMiddleware(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/regions", s.handleAPIRegions)
		api.Get("/random", s.handleAPIRandom)
	})

	r.Get("/", s.handleIndex)
	r.Get("/{region}", s.handleRegion)
	r.Get("/{region}/{count}", s.handleRegionCount)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderMessage(w, http.StatusNotFound, "Page not found")
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info().Msg("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds := s.holder.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"malls":      ds.Total(),
		"updated_at": s.holder.UpdatedAt().Format(time.RFC3339),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pick, err := s.pick("", s.randomCount(s.pickMin, s.pickMax))
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderPick(w, siteTitle, pick)
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	region, ok := s.regionParam(r)
	if !ok {
		s.renderMessage(w, http.StatusNotFound, "Page not found")
		return
	}
	pick, err := s.pick(region, s.countForRegion(region))
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderPick(w, region, pick)
}

func (s *Server) handleRegionCount(w http.ResponseWriter, r *http.Request) {
	region, ok := s.regionParam(r)
	if !ok {
		s.renderMessage(w, http.StatusNotFound, "Page not found")
		return
	}
	count, err := strconv.Atoi(chi.URLParam(r, "count"))
	if err != nil || count < 1 {
		s.renderMessage(w, http.StatusBadRequest, "The number of malls must be a positive whole number")
		return
	}
	pick, err := s.pick(region, count)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderPick(w, region, pick)
}

type regionSummary struct {
	Name  string `json:"name"`
	Malls int    `json:"malls"`
}

func (s *Server) handleAPIRegions(w http.ResponseWriter, r *http.Request) {
	ds := s.holder.Get()
	out := make([]regionSummary, 0, len(s.catalog()))
	for _, region := range s.catalog() {
		out = append(out, regionSummary{Name: region, Malls: ds.Capacity(region)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"regions": out})
}

func (s *Server) handleAPIRandom(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	region := ""
	if raw := q.Get("region"); raw != "" {
		var ok bool
		region, ok = s.normalizeRegion(raw)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody("unknown region", apperrors.ErrorTypeInvalidPrecondition))
			return
		}
	}

	var count int
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorBody("count must be a positive integer", apperrors.ErrorTypeValidation))
			return
		}
		count = n
	} else if region != "" {
		count = s.countForRegion(region)
	} else {
		count = s.randomCount(s.pickMin, s.pickMax)
	}

	pick, err := s.pick(region, count)
	if err != nil {
		writeJSON(w, statusFor(err), errorBody(err.Error(), apperrors.TypeOf(err)))
		return
	}
	writeJSON(w, http.StatusOK, pick)
}

// pick samples, records metrics and publishes the result
func (s *Server) pick(region string, count int) (mall.Pick, error) {
	pick, err := s.sampler.Sample(s.holder.Get(), count, region)
	if err != nil {
		metrics.PickFailuresTotal.WithLabelValues(string(apperrors.TypeOf(err))).Inc()
		s.log.Debug().Err(err).Str("region", region).Int("count", count).Msg("Pick failed")
		return mall.Pick{}, err
	}

	metrics.PicksTotal.WithLabelValues(pick.Region).Inc()
	metrics.PickSize.Observe(float64(len(pick.Malls)))

	if data, err := json.Marshal(pick); err == nil {
		if err := s.publisher.Publish("pick", data); err != nil {
			s.log.Warn().Err(err).Msg("Failed to publish pick")
		}
	}
	return pick, nil
}

// countForRegion draws a page size the region can satisfy. Regions smaller
// than PickMin fall back to [1, capacity].
func (s *Server) countForRegion(region string) int {
	capacity := s.holder.Get().Capacity(region)
	lo, hi := s.pickMin, s.pickMax
	if capacity < lo {
		lo = 1
	}
	if hi > capacity {
		hi = capacity
	}
	if hi < lo {
		// Empty region: let the sampler report it
		return lo
	}
	return s.randomCount(lo, hi)
}

func (s *Server) randomCount(lo, hi int) int {
	return lo + s.rand.IntN(hi-lo+1)
}

func (s *Server) catalog() []string {
	if s.sampler.Catalog == nil {
		return mall.Regions
	}
	return s.sampler.Catalog
}

// regionParam reads and normalizes the {region} URL segment
func (s *Server) regionParam(r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "region")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return s.normalizeRegion(raw)
}

// normalizeRegion title-cases each word ("north east" => "North East")
// and checks the result against the catalog
func (s *Server) normalizeRegion(raw string) (string, bool) {
	// Casers keep state, so one per call
	titled := cases.Title(language.English).String(raw)
	if mall.IsRegion(s.catalog(), titled) {
		return titled, true
	}
	return mall.NormalizeRegion(s.catalog(), raw)
}

func (s *Server) renderPick(w http.ResponseWriter, title string, pick mall.Pick) {
	s.render(w, http.StatusOK, pageData{
		Title:   title,
		Region:  pick.Region,
		Malls:   pick.Malls,
		Regions: s.catalog(),
	})
}

func (s *Server) renderMessage(w http.ResponseWriter, status int, message string) {
	s.render(w, status, pageData{
		Title:   http.StatusText(status),
		Regions: s.catalog(),
		Message: message,
	})
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := "Something went wrong"
	switch {
	case errors.Is(err, apperrors.ErrInsufficientData):
		message = "Not enough malls in the dataset for that request"
	case status == http.StatusNotFound:
		message = "Page not found"
	}
	s.render(w, status, pageData{
		Title:   http.StatusText(status),
		Regions: s.catalog(),
		Message: message,
	})
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, "page.html", data); err != nil {
		s.log.Error().Err(err).Msg("Template execution failed")
	}
}

// statusFor maps sampler errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrInvalidPrecondition):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(message string, kind apperrors.ErrorType) map[string]string {
	return map[string]string{"error": message, "kind": string(kind)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
