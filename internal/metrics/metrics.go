package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatch_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	SearchesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmatch_searches_total",
			Help: "Total number of semantic searches performed.",
		},
	)
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobmatch_search_duration_seconds",
			Help:    "Duration of each semantic search in seconds.",
			Buckets: []float64{0.05, 0.25, 1, 5, 15, 60},
		},
	)
	SearchStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobmatch_search_step_duration_seconds",
			Help:       "Duration of each step in the matching process.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	SkippedCandidatesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmatch_candidates_skipped_total",
			Help: "Total number of candidate jobs skipped because scoring failed.",
		},
	)
	EmbeddingCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmatch_embedding_cache_hits_total",
			Help: "Total number of embedding cache hits.",
		},
	)
	EmbeddingCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmatch_embedding_cache_misses_total",
			Help: "Total number of embedding cache misses.",
		},
	)
	LlmRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatch_llm_requests_total",
			Help: "Total number of LLM requests by provider.",
		},
		[]string{"provider"},
	)
	LlmFallbacksCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatch_llm_fallbacks_total",
			Help: "Total number of operations answered by the rule-based fallback.",
		},
		[]string{"operation"},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(SearchesCounter)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchStepDuration)
	prometheus.MustRegister(SkippedCandidatesCounter)
	prometheus.MustRegister(EmbeddingCacheHits)
	prometheus.MustRegister(EmbeddingCacheMisses)
	prometheus.MustRegister(LlmRequestsCounter)
	prometheus.MustRegister(LlmFallbacksCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
