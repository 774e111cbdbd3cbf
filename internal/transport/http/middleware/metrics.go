package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// 未命中路由统一记为 unmatched，避免任意 URL 撑爆 label
const unmatchedRoute = "unmatched"

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "boxdrop", Name: "http_requests_total", Help: "HTTP requests by route, method and status"},
		[]string{"route", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "boxdrop",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"},
	)
	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "boxdrop", Name: "http_requests_in_flight", Help: "Requests being served"},
	)
	httpUploadBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "boxdrop", Name: "http_upload_bytes_total", Help: "Request bytes received on multipart routes"},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(httpReqTotal, httpLatency, httpInFlight, httpUploadBytes)
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		httpReqTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		if c.ContentType() == gin.MIMEMultipartPOSTForm && c.Request.ContentLength > 0 {
			httpUploadBytes.WithLabelValues(route).Add(float64(c.Request.ContentLength))
		}
	}
}
