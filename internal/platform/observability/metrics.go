package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsbot_feed_queries_total",
		Help: "The total number of feed queries issued",
	}, []string{"status"})

	EntriesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsbot_entries_fetched_total",
		Help: "The total number of unique entries merged after link dedup",
	})

	EntriesFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsbot_entries_filtered_total",
		Help: "The total number of entries dropped by the recency filter",
	})

	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newsbot_pipeline_duration_seconds",
		Help:    "Duration of a full fetch-cluster-format pipeline run",
		Buckets: prometheus.DefBuckets,
	})

	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsbot_pipeline_runs_total",
		Help: "The total number of pipeline runs",
	}, []string{"status"})

	ClustersBuilt = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newsbot_clusters_per_run",
		Help:    "Number of clusters produced per pipeline run",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	PagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsbot_pages_sent_total",
		Help: "The total number of message pages sent to chats",
	}, []string{"status"})

	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsbot_embedding_requests_total",
		Help: "The total number of embedding requests",
	}, []string{"status"})
)
