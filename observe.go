package mediacat

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// catalogMetrics holds prometheus metrics registered for the embedded catalog.
type catalogMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newCatalogMetrics(reg prometheus.Registerer) (*catalogMetrics, error) {
	m := &catalogMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mediacat",
			Subsystem: "embedded",
			Name:      "operations_total",
			Help:      "Total catalog operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mediacat",
			Subsystem: "embedded",
			Name:      "operation_duration_seconds",
			Help:      "Catalog operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("mediacat: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("mediacat: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for catalog operations.
type observer struct {
	logger  *slog.Logger
	metrics *catalogMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *catalogMetrics
	if reg != nil {
		var err error
		m, err = newCatalogMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed", "op", op, "duration", dur, "error", err)
		} else {
			o.logger.Debug("operation completed", "op", op, "duration", dur)
		}
	}
}
