package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the pipeline's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so callers never need to guard.
type Metrics struct {
	ScansTotal       prometheus.Counter
	ScanDuration     prometheus.Histogram
	TickersProcessed prometheus.Counter
	TickersSkipped   *prometheus.CounterVec
	CandidatesPassed prometheus.Gauge
	ProfilesProduced prometheus.Gauge
	ProviderErrors   *prometheus.CounterVec
}

// New registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScansTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "stockscout_scans_total",
			Help: "Completed pipeline runs.",
		}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockscout_scan_duration_seconds",
			Help:    "Wall time of a full pipeline run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		TickersProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "stockscout_tickers_processed_total",
			Help: "Tickers examined across all runs.",
		}),
		TickersSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stockscout_tickers_skipped_total",
			Help: "Tickers skipped, by stage.",
		}, []string{"stage"}),
		CandidatesPassed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stockscout_candidates_passed",
			Help: "Candidates surviving the screening stage in the last run.",
		}),
		ProfilesProduced: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stockscout_profiles_produced",
			Help: "Technical profiles produced in the last run.",
		}),
		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stockscout_provider_errors_total",
			Help: "External provider failures, by provider.",
		}, []string{"provider"}),
	}
}

func (m *Metrics) ScanCompleted(seconds float64) {
	if m == nil {
		return
	}
	m.ScansTotal.Inc()
	m.ScanDuration.Observe(seconds)
}

func (m *Metrics) TickerProcessed() {
	if m == nil {
		return
	}
	m.TickersProcessed.Inc()
}

func (m *Metrics) TickerSkipped(stage string) {
	if m == nil {
		return
	}
	m.TickersSkipped.WithLabelValues(stage).Inc()
}

func (m *Metrics) ProviderError(provider string) {
	if m == nil {
		return
	}
	m.ProviderErrors.WithLabelValues(provider).Inc()
}

func (m *Metrics) SetCandidates(n int) {
	if m == nil {
		return
	}
	m.CandidatesPassed.Set(float64(n))
}

func (m *Metrics) SetProfiles(n int) {
	if m == nil {
		return
	}
	m.ProfilesProduced.Set(float64(n))
}
