package extensions

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	etp "github.com/pumped-fn/etp-sizing"
)

// MetricsExtension counts group evaluations and pass outcomes.
//
// Metrics:
//
//	etp_group_evaluations_total{group,op,result}  result is "written" or "skipped"
//	etp_group_errors_total{group,op}
//	etp_passes_total{trigger}
//	etp_pass_duration_seconds
//	etp_store_version
type MetricsExtension struct {
	etp.BaseExtension

	evaluations *prometheus.CounterVec
	errors      *prometheus.CounterVec
	passes      *prometheus.CounterVec
	duration    prometheus.Histogram
	version     prometheus.Gauge
}

// NewMetricsExtension registers the collectors with reg. Each session that
// shares a registry must use its own; prometheus rejects duplicate
// registration.
func NewMetricsExtension(reg prometheus.Registerer) *MetricsExtension {
	factory := promauto.With(reg)
	return &MetricsExtension{
		BaseExtension: etp.NewBaseExtension("metrics"),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etp_group_evaluations_total",
			Help: "Group evaluations by operation and convergence result",
		}, []string{"group", "op", "result"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etp_group_errors_total",
			Help: "Failed group evaluations",
		}, []string{"group", "op"}),
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etp_passes_total",
			Help: "Recomputation passes by triggering cell",
		}, []string{"trigger"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "etp_pass_duration_seconds",
			Help:    "Recomputation pass duration",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
		version: factory.NewGauge(prometheus.GaugeOpts{
			Name: "etp_store_version",
			Help: "Values written since the session started",
		}),
	}
}

func (e *MetricsExtension) Order() int {
	return 20
}

func (e *MetricsExtension) Wrap(ctx context.Context, next func() (any, error), op *etp.Operation) (any, error) {
	result, err := next()
	if err != nil {
		return result, err
	}

	outcome := "skipped"
	if op.Written {
		outcome = "written"
	}
	e.evaluations.WithLabelValues(etp.NameOf(op.Cell), string(op.Kind), outcome).Inc()
	return result, nil
}

func (e *MetricsExtension) OnError(err error, op *etp.Operation, scope *etp.Scope) {
	e.errors.WithLabelValues(etp.NameOf(op.Cell), string(op.Kind)).Inc()
}

func (e *MetricsExtension) OnPass(scope *etp.Scope, pass etp.PassRecord) {
	e.passes.WithLabelValues(pass.Trigger).Inc()
	e.duration.Observe(pass.Duration.Seconds())
	e.version.Set(float64(scope.Writes()))
}
