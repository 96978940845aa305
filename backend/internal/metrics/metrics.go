// Package metrics records Prometheus metrics for service operations.
package metrics

import (
	"errors"
	"time"

	nferrors "github.com/nforum-dev/nforum/shared/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOk           = "ok"
	OutcomeDenied       = "denied"
	OutcomeInvalid      = "invalid"
	OutcomeNotFound     = "not_found"
	OutcomeInconsistent = "inconsistent"
	OutcomeError        = "error"
)

type Recorder struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New registers the service metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nforum_service_operations_total",
				Help: "Total number of service operations by outcome",
			},
			[]string{"service", "operation", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nforum_service_operation_duration_seconds",
				Help:    "Service operation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"service", "operation"},
		),
	}
}

// Observe counts one finished operation. A nil Recorder does nothing.
func (r *Recorder) Observe(service, operation string, start time.Time, err error) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(service, operation, Outcome(err)).Inc()
	r.duration.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
}

// Outcome classifies err into a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOk
	case errors.Is(err, nferrors.ErrPermissionDenied):
		return OutcomeDenied
	case errors.Is(err, nferrors.ErrMissingRequiredField), errors.Is(err, nferrors.ErrInvalidIdentifier),
		errors.Is(err, nferrors.ErrInvalidValue):
		return OutcomeInvalid
	case errors.Is(err, nferrors.ErrReferenceNotFound):
		return OutcomeNotFound
	case errors.Is(err, nferrors.ErrInternalInconsistency):
		return OutcomeInconsistent
	default:
		return OutcomeError
	}
}
