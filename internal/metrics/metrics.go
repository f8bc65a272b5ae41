package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the server.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration     *prometheus.HistogramVec
	requestsTotal       *prometheus.CounterVec
	expensesRecorded    prometheus.Counter
	settlementsRecorded prometheus.Counter
	suggestionsComputed prometheus.Counter
	settleUpSize        prometheus.Histogram
	eventsPublished     *prometheus.CounterVec
}

// New creates a dedicated Prometheus registry and registers all application
// metrics in it. Using a private registry avoids "duplicate collector" panics
// when New is called more than once (e.g. in tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splitpot_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitpot_requests_total",
				Help: "Total HTTP requests processed.",
			},
			[]string{"status"},
		),
		expensesRecorded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "splitpot_expenses_recorded_total",
				Help: "Total expenses recorded.",
			},
		),
		settlementsRecorded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "splitpot_settlements_recorded_total",
				Help: "Total settlements recorded.",
			},
		),
		suggestionsComputed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "splitpot_settle_up_plans_total",
				Help: "Total settle-up plans computed.",
			},
		),
		settleUpSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "splitpot_settle_up_transactions",
				Help:    "Number of transactions per settle-up plan.",
				Buckets: prometheus.LinearBuckets(0, 1, 11),
			},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitpot_events_published_total",
				Help: "Total events published to the broker.",
			},
			[]string{"event", "status"},
		),
	}
}

// Handler returns an HTTP handler serving this registry in the Prometheus
// text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RecordRequest records one completed HTTP request.
func (m *Metrics) RecordRequest(route, method string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(route, method, code).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(code).Inc()
}

// IncrExpenseRecorded increments the recorded expense counter.
func (m *Metrics) IncrExpenseRecorded() {
	m.expensesRecorded.Inc()
}

// IncrSettlementRecorded increments the recorded settlement counter.
func (m *Metrics) IncrSettlementRecorded() {
	m.settlementsRecorded.Inc()
}

// ObserveSettleUpSize records how many transactions a settle-up plan suggested.
func (m *Metrics) ObserveSettleUpSize(transactions int) {
	m.suggestionsComputed.Inc()
	m.settleUpSize.Observe(float64(transactions))
}

// IncrEventPublished increments the published event counter.
func (m *Metrics) IncrEventPublished(event string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.eventsPublished.WithLabelValues(event, status).Inc()
}
