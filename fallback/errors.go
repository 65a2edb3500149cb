package fallback

import "fmt"

// InjectionError reports a fault-injection command that exited nonzero.
type InjectionError struct {
	Command  string
	ExitCode int
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("fault-injection command %q exited with status %d", e.Command, e.ExitCode)
}

// RouteMismatchError reports a probe outcome inconsistent with the state the
// scenario requires at that point.
type RouteMismatchError struct {
	Phase     string
	Iteration int
	Want      RouteType
	Got       RouteType
}

func (e *RouteMismatchError) Error() string {
	return fmt.Sprintf("%s probe %d: want %v route, got %v", e.Phase, e.Iteration, e.Want, e.Got)
}

// TransitionExhaustedError reports that the after-startup transition loop
// consumed every attempt without ever observing a fallback-served probe.
type TransitionExhaustedError struct {
	Attempts int
}

func (e *TransitionExhaustedError) Error() string {
	return fmt.Sprintf("no fallback route observed within %d attempts after fault injection", e.Attempts)
}
