//go:build unit

package saga_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/usecase/saga"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecute_AllStepsSucceed(t *testing.T) {
	var trace []string
	step := func(name string) saga.Step {
		return saga.Step{
			Name:       name,
			Run:        func(context.Context) error { trace = append(trace, "run:"+name); return nil },
			Compensate: func(context.Context) error { trace = append(trace, "comp:"+name); return nil },
		}
	}

	sg := saga.New(discardLogger()).AddStep(step("a")).AddStep(step("b")).AddStep(step("c"))

	require.NoError(t, sg.Execute(context.Background()))
	require.Equal(t, []string{"run:a", "run:b", "run:c"}, trace)
}

func TestExecute_FailureCompensatesCompletedStepsInReverse(t *testing.T) {
	var trace []string
	ok := func(name string) saga.Step {
		return saga.Step{
			Name:       name,
			Run:        func(context.Context) error { trace = append(trace, "run:"+name); return nil },
			Compensate: func(context.Context) error { trace = append(trace, "comp:"+name); return nil },
		}
	}
	boom := errs.New("step blew up")

	sg := saga.New(discardLogger()).
		AddStep(ok("reserve")).
		AddStep(ok("debit")).
		AddStep(saga.Step{
			Name: "create",
			Run:  func(context.Context) error { trace = append(trace, "run:create"); return boom },
			Compensate: func(context.Context) error {
				trace = append(trace, "comp:create")
				return nil
			},
		})

	err := sg.Execute(context.Background())
	require.Error(t, err)

	var failed *saga.OperationFailed
	require.ErrorAs(t, err, &failed)
	require.Equal(t, "create", failed.Step)
	require.ErrorIs(t, err, boom)

	// The failed step itself is not compensated, only the completed ones,
	// in reverse order.
	require.Equal(t, []string{"run:reserve", "run:debit", "run:create", "comp:debit", "comp:reserve"}, trace)
}

func TestExecute_NilCompensateIsSkipped(t *testing.T) {
	var trace []string

	sg := saga.New(discardLogger()).
		AddStep(saga.Step{
			Name:       "reserve",
			Run:        func(context.Context) error { return nil },
			Compensate: func(context.Context) error { trace = append(trace, "comp:reserve"); return nil },
		}).
		AddStep(saga.Step{
			Name: "price", // read-only, nothing to reverse
			Run:  func(context.Context) error { return nil },
		}).
		AddStep(saga.Step{
			Name: "debit",
			Run:  func(context.Context) error { return errs.New("short balance") },
		})

	require.Error(t, sg.Execute(context.Background()))
	require.Equal(t, []string{"comp:reserve"}, trace)
}

func TestExecute_CompensationFailureDoesNotStopRollback(t *testing.T) {
	var trace []string

	sg := saga.New(discardLogger()).
		AddStep(saga.Step{
			Name:       "first",
			Run:        func(context.Context) error { return nil },
			Compensate: func(context.Context) error { trace = append(trace, "comp:first"); return nil },
		}).
		AddStep(saga.Step{
			Name: "second",
			Run:  func(context.Context) error { return nil },
			Compensate: func(context.Context) error {
				trace = append(trace, "comp:second")
				return errs.New("compensation hit a wall")
			},
		}).
		AddStep(saga.Step{
			Name: "third",
			Run:  func(context.Context) error { return errs.New("original failure") },
		})

	err := sg.Execute(context.Background())
	require.Error(t, err)

	// The original cause survives; a broken compensation never masks it.
	var failed *saga.OperationFailed
	require.ErrorAs(t, err, &failed)
	require.Equal(t, "third", failed.Step)

	require.Equal(t, []string{"comp:second", "comp:first"}, trace)
}

func TestCompensate_ReversesAllSteps(t *testing.T) {
	var trace []string
	step := func(name string) saga.Step {
		return saga.Step{
			Name:       name,
			Run:        func(context.Context) error { return nil },
			Compensate: func(context.Context) error { trace = append(trace, name); return nil },
		}
	}

	sg := saga.New(discardLogger()).AddStep(step("a")).AddStep(step("b")).AddStep(step("c"))
	require.NoError(t, sg.Execute(context.Background()))

	sg.Compensate(context.Background())
	require.Equal(t, []string{"c", "b", "a"}, trace)
}
