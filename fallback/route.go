package fallback

// RouteType classifies which path served a probe RPC, as reported by the
// server under test.
type RouteType int

const (
	// RouteUnknown means the probe failed or the server did not report a route.
	RouteUnknown RouteType = iota
	// RouteFallback means the call was served through the static fallback
	// address set, bypassing the balancer's backend list.
	RouteFallback
	// RouteBackend means the call was served by a balancer-provided backend.
	RouteBackend
)

func (r RouteType) String() string {
	switch r {
	case RouteFallback:
		return "fallback"
	case RouteBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// ProbeMode selects transport dispatch behavior for a probe.
type ProbeMode int

const (
	// FailFast fails the call immediately when no connection is ready.
	FailFast ProbeMode = iota
	// WaitForReady queues the call until a connection becomes ready or the
	// deadline elapses.
	WaitForReady
)

func (m ProbeMode) String() string {
	if m == WaitForReady {
		return "wait-for-ready"
	}
	return "fail-fast"
}
