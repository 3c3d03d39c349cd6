package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerFetches *prometheus.CounterVec
	assetsSkipped   *prometheus.CounterVec
	cacheEvents     *prometheus.CounterVec
	computeDuration *prometheus.HistogramVec
	topScore        *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cedearscan_provider_fetches_total",
				Help: "Total market data provider fetches by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		assetsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cedearscan_assets_skipped_total",
				Help: "Assets excluded from ranking runs by reason",
			},
			[]string{"strategy", "reason"},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cedearscan_rankcache_events_total",
				Help: "Ranking cache lookups by result",
			},
			[]string{"strategy", "event"},
		),
		computeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cedearscan_ranking_compute_seconds",
				Help:    "Duration of full ranking computations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		topScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cedearscan_top_score",
				Help: "Score of the top-ranked asset from the latest run",
			},
			[]string{"strategy"},
		),
	}
}

// RecordProviderFetch records one provider request outcome.
func (r *Recorder) RecordProviderFetch(kind, outcome string) {
	r.providerFetches.WithLabelValues(kind, outcome).Inc()
}

// RecordAssetSkipped records an asset excluded from a run.
func (r *Recorder) RecordAssetSkipped(strategy, reason string) {
	r.assetsSkipped.WithLabelValues(strategy, reason).Inc()
}

// RecordCacheEvent records a ranking cache lookup result.
func (r *Recorder) RecordCacheEvent(strategy, event string) {
	r.cacheEvents.WithLabelValues(strategy, event).Inc()
}

// RecordComputeDuration records a full computation's latency in seconds.
func (r *Recorder) RecordComputeDuration(strategy string, seconds float64) {
	r.computeDuration.WithLabelValues(strategy).Observe(seconds)
}

// RecordTopScore records the latest run's winning score.
func (r *Recorder) RecordTopScore(strategy string, score float64) {
	r.topScore.WithLabelValues(strategy).Set(score)
}
