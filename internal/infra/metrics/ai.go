package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(textGenLatencyMs)
}

var textGenLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "textgen_calls_latency_ms",
		Help:    "Text generation call latency distribution in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
	},
	[]string{"provider", "success"},
)

func ObserveTextGen(provider string, latencyMs int, success bool) {
	textGenLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
