package fallback

import "context"

// ProbeRequest asks the server to report which routing path served the call.
type ProbeRequest struct {
	FillRouteType bool
}

// ProbeReply is the subset of the server response the harness inspects.
// Hostname identifies the serving task when the server reports it.
type ProbeReply struct {
	Route    RouteType
	Hostname string
}

// Transport dispatches a single probe RPC. The deadline is carried by ctx;
// mode selects fail-fast vs wait-for-ready dispatch.
type Transport interface {
	Call(ctx context.Context, req ProbeRequest, mode ProbeMode) (ProbeReply, error)
}
