package fallback

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/lbfallback/lbfallback/fallback/trace"
)

// Verifier drives fault injection and probing for one scenario at a time.
// It holds only the capabilities handed to it at construction; all scenario
// state lives in the Plan and on the stack. Runs are sequential — probes
// block the calling goroutine up to their deadline.
type Verifier struct {
	transport Transport
	injector  FaultInjector
	commands  Commands
	sleep     func(time.Duration)
	trace     *trace.RunTrace
}

// NewVerifier creates a Verifier over the given capabilities. commands
// supplies the unroute/blackhole command pair scenarios select from.
func NewVerifier(t Transport, inj FaultInjector, commands Commands) *Verifier {
	return &Verifier{
		transport: t,
		injector:  inj,
		commands:  commands,
		sleep:     time.Sleep,
		trace:     trace.NewRunTrace(),
	}
}

// Trace returns the probe history recorded so far.
func (v *Verifier) Trace() *trace.RunTrace { return v.trace }

// Run executes the scenario to completion. A nil return means the deployment
// passed; any error aborts the scenario at the failing step. A run is binary
// pass/fail — there is no partial success.
func (v *Verifier) Run(ctx context.Context, s Scenario) error {
	plan := PlanFor(s)
	logrus.Infof("begin test case: %v", s)
	var err error
	if plan.BeforeStartup {
		err = v.runBeforeStartup(ctx, plan)
	} else {
		err = v.runAfterStartup(ctx, plan)
	}
	if err != nil {
		return fmt.Errorf("scenario %v: %w", s, err)
	}
	logrus.Infof("test case %v done", s)
	return nil
}

// runBeforeStartup verifies that a client whose LB and backend addresses
// broke before any connection came up lands on the fallback addresses and
// stays there.
func (v *Verifier) runBeforeStartup(ctx context.Context, plan Plan) error {
	if err := v.inject(ctx, plan.Command); err != nil {
		return err
	}
	return v.confirmStability(ctx, plan)
}

// runAfterStartup verifies that a client with a healthy backend connection
// moves to the fallback addresses once the LB and backends break, and stays
// there. The initial probe is a sanity precondition: the rest of the test is
// meaningless unless the client starts out backend-routed.
func (v *Verifier) runAfterStartup(ctx context.Context, plan Plan) error {
	route := v.probe(ctx, trace.PhasePrecondition, 0, plan.PreconditionDeadline, FailFast)
	if route != RouteBackend {
		return &RouteMismatchError{Phase: trace.PhasePrecondition, Want: RouteBackend, Got: route}
	}
	if err := v.inject(ctx, plan.Command); err != nil {
		return err
	}
	if err := v.awaitTransition(ctx, plan); err != nil {
		return err
	}
	return v.confirmStability(ctx, plan)
}

// awaitTransition polls with wait-for-ready probes until one is served by a
// fallback address. A backend-served probe here means the injected fault
// never took effect and fails the scenario outright; unknown outcomes are
// in-flight teardown/backoff and retry. Pacing comes from the per-probe
// deadline, so the retry interval is zero.
func (v *Verifier) awaitTransition(ctx context.Context, plan Plan) error {
	iteration := 0
	op := func() error {
		route := v.probe(ctx, trace.PhaseTransition, iteration, plan.TransitionDeadline, WaitForReady)
		switch route {
		case RouteBackend:
			return backoff.Permanent(&RouteMismatchError{
				Phase:     trace.PhaseTransition,
				Iteration: iteration,
				Want:      RouteFallback,
				Got:       route,
			})
		case RouteFallback:
			logrus.Info("made one successful RPC to a fallback; expecting the same for the rest")
			return nil
		default:
			logrus.Infof("retryable probe failure on transition attempt %d", iteration)
			iteration++
			return &TransitionExhaustedError{Attempts: plan.TransitionAttempts}
		}
	}
	b := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(plan.TransitionAttempts-1))
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

// confirmStability requires every probe over the stability window to be
// served by a fallback address. Any other outcome, including a transient
// failure, fails the scenario.
func (v *Verifier) confirmStability(ctx context.Context, plan Plan) error {
	for i := 0; i < plan.StabilityProbes; i++ {
		route := v.probe(ctx, trace.PhaseStability, i, plan.StabilityDeadline, FailFast)
		if route != RouteFallback {
			return &RouteMismatchError{Phase: trace.PhaseStability, Iteration: i, Want: RouteFallback, Got: route}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		v.sleep(plan.Interval)
	}
	return nil
}

func (v *Verifier) probe(ctx context.Context, phase string, iteration int, deadline time.Duration, mode ProbeMode) RouteType {
	start := time.Now()
	route := Probe(ctx, v.transport, deadline, mode)
	v.trace.RecordProbe(trace.ProbeRecord{
		Phase:     phase,
		Iteration: iteration,
		Mode:      mode.String(),
		Deadline:  deadline,
		Outcome:   route.String(),
		Elapsed:   time.Since(start),
	})
	return route
}

func (v *Verifier) inject(ctx context.Context, kind CommandKind) error {
	command := v.commands.Select(kind)
	err := v.injector.Inject(ctx, command)
	v.trace.RecordInjection(trace.InjectionRecord{Command: command, Failed: err != nil})
	return err
}
