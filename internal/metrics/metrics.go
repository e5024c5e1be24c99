package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sthapati"

type Metrics struct {
	Registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	Registrations *prometheus.CounterVec
	StatusChanges *prometheus.CounterVec
	Applications  prometheus.Counter
	OTPSent       prometheus.Counter
	GateRedirects *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Completed registrations by category.",
		}, []string{"category"}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_status_changes_total",
			Help:      "Admin account actions by action.",
		}, []string{"action"}),
		Applications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_applications_total",
			Help:      "Job applications submitted.",
		}),
		OTPSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_sent_total",
			Help:      "Phone verification codes sent.",
		}),
		GateRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_gate_redirects_total",
			Help:      "Page requests redirected by the access gate, by target path.",
		}, []string{"target"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.Duration,
		m.Registrations,
		m.StatusChanges,
		m.Applications,
		m.OTPSent,
		m.GateRedirects,
	)
	return m
}

// TrackGauge registers a gauge read from fn at scrape time.
func (m *Metrics) TrackGauge(name, help string, fn func() float64) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
