package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SubmissionAccepted   = "accepted"
	SubmissionRejected   = "rejected"
	SubmissionStoreError = "store_error"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5},
		},
		[]string{"method", "path"},
	)
)

var (
	PatientSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patient_submissions_total",
			Help: "Patient form submissions by outcome",
		},
		[]string{"result"},
	)

	FieldErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patient_field_errors_total",
			Help: "Validation failures by field",
		},
		[]string{"field"},
	)

	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "view_pipeline_duration_seconds",
			Help:    "Time spent filtering, sorting and projecting patients",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	WebsocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Open dashboard websocket connections",
		},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDuration,
			PatientSubmissions,
			FieldErrorsTotal,
			PipelineDuration,
			WebsocketConnections,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
