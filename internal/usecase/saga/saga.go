// Package saga runs an ordered list of (action, compensation) pairs. Steps
// execute strictly sequentially; the first failure triggers the
// compensations of every completed step in reverse order. The rollback order
// is plain data, not control flow, so it can be inspected and tested on its
// own.
package saga

import (
	"context"
	"fmt"
	"log/slog"
)

type Step struct {
	Name string
	Run  func(ctx context.Context) error
	// Compensate must be idempotent. A nil Compensate marks a step with no
	// effects to reverse.
	Compensate func(ctx context.Context) error
}

// OperationFailed is the coarse error re-raised after compensation finished.
// Compensation outcome never masks the original cause.
type OperationFailed struct {
	Step  string
	Cause error
}

func (e *OperationFailed) Error() string {
	return fmt.Sprintf("saga step %q failed: %v", e.Step, e.Cause)
}

func (e *OperationFailed) Unwrap() error {
	return e.Cause
}

type Saga struct {
	steps  []Step
	logger *slog.Logger
}

func New(logger *slog.Logger) *Saga {
	return &Saga{logger: logger}
}

func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

func (s *Saga) Steps() []Step {
	return s.steps
}

// Execute runs every step in order. On the first failure it compensates the
// already-completed steps in reverse and returns *OperationFailed wrapping
// the original error.
func (s *Saga) Execute(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			s.compensate(ctx, i)
			return &OperationFailed{Step: step.Name, Cause: err}
		}
	}
	return nil
}

// Compensate reverses every completed step; used when a follow-up action
// outside the step list (e.g. the completion transaction) fails after all
// steps succeeded.
func (s *Saga) Compensate(ctx context.Context) {
	s.compensate(ctx, len(s.steps))
}

// compensate runs the compensations of steps[0:completed] in reverse order.
// Compensation failures are not retried; they leave a manual-intervention
// case and are logged distinctly from the original error.
func (s *Saga) compensate(ctx context.Context, completed int) {
	for i := completed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("saga compensation failed, manual intervention required",
				"step", step.Name,
				"error", err.Error())
			continue
		}
		s.logger.Info("saga step compensated", "step", step.Name)
	}
}
