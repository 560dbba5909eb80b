// Package metrics exposes Prometheus collectors for HTTP traffic and shop activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns every collector of the process
type Registry struct {
	reg      *prometheus.Registry
	HTTP     *HTTPMetrics
	Business *BusinessMetrics
}

// HTTPMetrics are recorded by the gin metrics middleware
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// BusinessMetrics are recorded by domain event handlers
type BusinessMetrics struct {
	SalesTotal             *prometheus.CounterVec
	SalesAmount            *prometheus.CounterVec
	SaleReturnsTotal       prometheus.Counter
	ServiceOrderTransition *prometheus.CounterVec
	DBOperationDuration    *prometheus.HistogramVec
}

// NewRegistry creates a registry with Go runtime, process, HTTP and business collectors
func NewRegistry(namespace string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h := &HTTPMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests being served",
		}),
	}

	b := &BusinessMetrics{
		SalesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_completed_total",
			Help:      "Total number of completed sales",
		}, []string{"branch_id"}),
		SalesAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_amount_total",
			Help:      "Sum of completed sale totals",
		}, []string{"branch_id"}),
		SaleReturnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_returns_total",
			Help:      "Total number of sale returns",
		}),
		ServiceOrderTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_order_transitions_total",
			Help:      "Service order status transitions by target status",
		}, []string{"to_status"}),
		DBOperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_transaction_duration_seconds",
			Help:      "Duration of multi-statement database transactions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(h.RequestsTotal, h.RequestDuration, h.InFlight)
	reg.MustRegister(b.SalesTotal, b.SalesAmount, b.SaleReturnsTotal, b.ServiceOrderTransition, b.DBOperationDuration)

	return &Registry{reg: reg, HTTP: h, Business: b}
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
