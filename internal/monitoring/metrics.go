package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	CardsScanned   prometheus.Counter
	CardsSkipped   prometheus.Counter
	RecordsEmitted prometheus.Counter
	FieldDefaults  *prometheus.CounterVec
	ExportsTotal   *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the extraction metrics with reg. The one-shot command
// and the HTTP server pass the default registerer; tests pass a fresh
// registry so parallel packages do not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CardsScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotscan_cards_scanned_total",
			Help: "The total number of listing cards found in scanned snapshots",
		}),
		CardsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotscan_cards_skipped_total",
			Help: "The total number of cards skipped because they yielded no fields",
		}),
		RecordsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotscan_records_emitted_total",
			Help: "The total number of records extracted from listing cards",
		}),
		FieldDefaults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotscan_field_defaults_total",
			Help: "The total number of fields that fell back to their default after a parse failure",
		}, []string{"field"}),
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotscan_exports_total",
			Help: "The total number of exported artifacts",
		}, []string{"format"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotscan_http_requests_total",
			Help: "The total number of HTTP requests served",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hotscan_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

func (m *Metrics) AddCardsScanned(n int) {
	m.CardsScanned.Add(float64(n))
}

func (m *Metrics) IncCardsSkipped() {
	m.CardsSkipped.Inc()
}

func (m *Metrics) AddRecordsEmitted(n int) {
	m.RecordsEmitted.Add(float64(n))
}

func (m *Metrics) IncFieldDefault(field string) {
	m.FieldDefaults.WithLabelValues(field).Inc()
}

func (m *Metrics) IncExport(format string) {
	m.ExportsTotal.WithLabelValues(format).Inc()
}

// ObserveHTTPRequest records one served request. The route set is small and
// fixed, so the raw path is a safe label.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}
