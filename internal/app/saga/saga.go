package saga

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is one remote write inside a multi-entity mutation. Compensate must
// revert whatever Execute persisted, so a half-finished run can be rolled
// back write by write.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Func adapts a pair of closures into a Step.
type Func struct {
	StepName string
	Exec     func(ctx context.Context) error
	Comp     func(ctx context.Context) error
}

func (f Func) Name() string { return f.StepName }

func (f Func) Execute(ctx context.Context) error { return f.Exec(ctx) }

func (f Func) Compensate(ctx context.Context) error {
	if f.Comp == nil {
		return nil
	}
	return f.Comp(ctx)
}

// Run executes steps in order. On the first failure it compensates the
// already-completed steps in reverse and returns the original error. A
// compensation that itself fails leaves a persisted inconsistency between
// the touched records; that is logged and reported alongside the original
// error, never repaired silently.
func Run(ctx context.Context, logger *slog.Logger, steps ...Step) error {
	for i, step := range steps {
		err := step.Execute(ctx)
		if err == nil {
			continue
		}
		err = fmt.Errorf("saga: step %s: %w", step.Name(), err)
		for j := i - 1; j >= 0; j-- {
			done := steps[j]
			compErr := done.Compensate(ctx)
			if compErr == nil {
				if logger != nil {
					logger.Info("saga step compensated", "step", done.Name(), "failed_step", step.Name())
				}
				continue
			}
			if logger != nil {
				logger.Error("saga compensation failed, records left inconsistent",
					"step", done.Name(), "error", compErr)
			}
			err = fmt.Errorf("%w (compensating %s: %v)", err, done.Name(), compErr)
		}
		return err
	}
	return nil
}
