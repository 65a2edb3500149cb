package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type funcTransport func(ctx context.Context, req ProbeRequest, mode ProbeMode) (ProbeReply, error)

func (f funcTransport) Call(ctx context.Context, req ProbeRequest, mode ProbeMode) (ProbeReply, error) {
	return f(ctx, req, mode)
}

func TestProbe_ReturnsServerReportedRoute(t *testing.T) {
	tr := funcTransport(func(ctx context.Context, req ProbeRequest, mode ProbeMode) (ProbeReply, error) {
		assert.True(t, req.FillRouteType)
		return ProbeReply{Route: RouteBackend, Hostname: "task-3"}, nil
	})

	route := Probe(context.Background(), tr, time.Second, FailFast)

	assert.Equal(t, RouteBackend, route)
}

func TestProbe_TransportFailureMapsToUnknown(t *testing.T) {
	tr := funcTransport(func(ctx context.Context, req ProbeRequest, mode ProbeMode) (ProbeReply, error) {
		return ProbeReply{}, errors.New("deadline exceeded")
	})

	route := Probe(context.Background(), tr, time.Second, WaitForReady)

	assert.Equal(t, RouteUnknown, route)
}

func TestProbe_AppliesDeadlineToContext(t *testing.T) {
	var deadline time.Time
	var ok bool
	tr := funcTransport(func(ctx context.Context, req ProbeRequest, mode ProbeMode) (ProbeReply, error) {
		deadline, ok = ctx.Deadline()
		return ProbeReply{Route: RouteFallback}, nil
	})

	before := time.Now()
	Probe(context.Background(), tr, 9*time.Second, FailFast)

	assert.True(t, ok, "probe context must carry a deadline")
	remaining := deadline.Sub(before)
	assert.Greater(t, remaining, 8*time.Second)
	assert.LessOrEqual(t, remaining, 9*time.Second)
}
