package storage

import "github.com/prometheus/client_golang/prometheus"

var fileOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "file_store_ops_total", Help: "Count of file store operations"},
	[]string{"backend", "op", "result"},
)

func init() { prometheus.MustRegister(fileOps) }

func observe(backend, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	fileOps.WithLabelValues(backend, op, result).Inc()
}
