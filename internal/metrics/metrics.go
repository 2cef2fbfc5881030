package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics exposed at /metrics. Each Registry
// owns its own prometheus.Registry so several instances can coexist in one
// process.
type Registry struct {
	prom *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business
	ActasRegistradasTotal   *prometheus.CounterVec
	SesionesTerminadasTotal prometheus.Counter
	ExportacionesTotal      *prometheus.CounterVec
	LoginsTotal             *prometheus.CounterVec
}

func NewRegistry() *Registry {
	prom := prometheus.NewRegistry()
	prom.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(prom)

	return &Registry{
		prom: prom,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actalibro_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actalibro_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),

		ActasRegistradasTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actalibro_actas_registradas_total",
				Help: "Total ledger entries registered by classification",
			},
			[]string{"clasificacion"},
		),
		SesionesTerminadasTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "actalibro_sesiones_terminadas_total",
				Help: "Sessions terminated by a FIN JORNADA entry",
			},
		),
		ExportacionesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actalibro_exportaciones_total",
				Help: "Ledger exports generated by format",
			},
			[]string{"formato"},
		),
		LoginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actalibro_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"resultado"},
		),
	}
}

// Handler serves this registry's metrics in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{})
}
