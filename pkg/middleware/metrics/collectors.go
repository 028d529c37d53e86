package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	keywordCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "keyword_calls_total", Help: "keyword runs by keyword and result status"},
		[]string{"keyword", "status"},
	)

	keywordDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keyword_call_duration_seconds",
			Help:    "keyword handler run time.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"keyword"},
	)

	rpcFaults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rpc_faults_total", Help: "rpc calls answered with an error, by code"},
		[]string{"code"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		keywordCalls,
		keywordDuration,
		rpcFaults,
	)
}
