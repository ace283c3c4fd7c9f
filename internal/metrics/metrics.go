package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sunr3d/backuper/models"
)

const namespace = "backuper"

// Metrics - коллекторы агента резервного копирования. Методы допускают nil-получатель.
type Metrics struct {
	registry *prometheus.Registry

	runs            *prometheus.CounterVec
	runDuration     prometheus.Histogram
	lastSuccess     *prometheus.GaugeVec
	uploadedBytes   *prometheus.CounterVec
	deletedVersions prometheus.Counter
	notifications   *prometheus.CounterVec
	runInProgress   prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of backup runs by result",
			},
			[]string{"result"},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of backup runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
			},
		),
		lastSuccess: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful upload per tier",
			},
			[]string{"tier"},
		),
		uploadedBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploaded_bytes_total",
				Help:      "Total bytes uploaded to the object store per tier",
			},
			[]string{"tier"},
		),
		deletedVersions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deleted_versions_total",
				Help:      "Total number of superseded file versions deleted",
			},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of notification attempts by result",
			},
			[]string{"result"},
		),
		runInProgress: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_in_progress",
				Help:      "1 while a backup run is executing",
			},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.runInProgress.Set(1)
}

func (m *Metrics) RunFinished(status models.RunStatus, d time.Duration) {
	if m == nil {
		return
	}
	m.runInProgress.Set(0)
	m.runs.WithLabelValues(string(status)).Inc()
	m.runDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveUpload(tier models.Tier, size int64) {
	if m == nil {
		return
	}
	m.uploadedBytes.WithLabelValues(string(tier)).Add(float64(size))
	m.lastSuccess.WithLabelValues(string(tier)).SetToCurrentTime()
}

func (m *Metrics) ObserveDeletedVersions(n int) {
	if m == nil {
		return
	}
	m.deletedVersions.Add(float64(n))
}

func (m *Metrics) ObserveNotification(ok bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.notifications.WithLabelValues(result).Inc()
}
