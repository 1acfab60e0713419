package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gowhere_picks_total",
		Help: "Total number of successful mall picks by region",
	}, []string{"region"})
	PickFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gowhere_pick_failures_total",
		Help: "Total number of failed mall picks by error kind",
	}, []string{"kind"})
	PickSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gowhere_pick_size",
		Help:    "Number of malls returned per pick",
		Buckets: []float64{1, 2, 3, 4, 5, 7, 10, 15},
	})
	ScrapesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gowhere_scrapes_total",
		Help: "Dataset scrapes by outcome",
	}, []string{"outcome"})
	DatasetMalls = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gowhere_dataset_malls",
		Help: "Malls currently loaded per region",
	}, []string{"region"})
)

func init() {
	prometheus.MustRegister(PicksTotal)
	prometheus.MustRegister(PickFailuresTotal)
	prometheus.MustRegister(PickSize)
	prometheus.MustRegister(ScrapesTotal)
	prometheus.MustRegister(DatasetMalls)
}

// ObserveDataset publishes the per-region mall counts
func ObserveDataset(counts map[string]int) {
	DatasetMalls.Reset()
	for region, n := range counts {
		DatasetMalls.WithLabelValues(region).Set(float64(n))
	}
}

// Handler exposes the registered metrics for Prometheus scraping
func Handler() http.Handler { return promhttp.Handler() }
