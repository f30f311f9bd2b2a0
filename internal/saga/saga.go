// Package saga executes a named sequence of steps where each step may carry
// a compensating action. When a step fails, the compensations of every
// completed step run in reverse order; a failing compensation is logged and
// counted but never masks the error that triggered the rollback.
package saga

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"courseforge/pkg/logger"
)

// Step is one unit of a saga. Run performs the forward action; Compensate
// undoes it and may be nil for steps with no lasting side effect. Compensate
// is only invoked after Run succeeded.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga is an ordered step list executed by Execute.
type Saga struct {
	name  string
	steps []Step
}

var (
	metricsOnce            sync.Once
	sagaRunsTotal          *prometheus.CounterVec
	sagaCompensationsTotal *prometheus.CounterVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		sagaRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courseforge",
			Subsystem: "saga",
			Name:      "runs_total",
			Help:      "Total saga executions",
		}, []string{"saga", "status"})

		sagaCompensationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courseforge",
			Subsystem: "saga",
			Name:      "compensations_total",
			Help:      "Total compensating actions executed during rollbacks",
		}, []string{"saga", "step", "status"})
	})
}

func New(name string, steps ...Step) *Saga {
	initMetrics()
	return &Saga{name: name, steps: steps}
}

// Execute runs the steps in order. On the first failure it rolls back and
// returns an error identifying the failed step; the caller decides what, if
// anything, to tell the user about it.
func (s *Saga) Execute(ctx context.Context) error {
	completed := make([]Step, 0, len(s.steps))

	for _, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			logger.Error(err, "Saga step failed, rolling back", map[string]interface{}{
				"saga": s.name,
				"step": step.Name,
			})
			s.rollback(ctx, completed)
			sagaRunsTotal.WithLabelValues(s.name, "failure").Inc()
			return fmt.Errorf("%s: step %s: %w", s.name, step.Name, err)
		}
		completed = append(completed, step)
	}

	sagaRunsTotal.WithLabelValues(s.name, "success").Inc()
	return nil
}

// rollback compensates completed steps in reverse order. Compensations are
// independent: one failing does not stop the rest.
func (s *Saga) rollback(ctx context.Context, completed []Step) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}

		if err := step.Compensate(ctx); err != nil {
			sagaCompensationsTotal.WithLabelValues(s.name, step.Name, "failure").Inc()
			logger.Error(err, "Saga compensation failed", map[string]interface{}{
				"saga": s.name,
				"step": step.Name,
			})
			continue
		}

		sagaCompensationsTotal.WithLabelValues(s.name, step.Name, "success").Inc()
		logger.Debug("Saga step compensated", map[string]interface{}{
			"saga": s.name,
			"step": step.Name,
		})
	}
}
