package fallback

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Probe issues one routing-classification RPC with the given deadline and
// dispatch mode. Transport failures (deadline exceeded, no ready connection,
// connection refused) are expected transients for the polling loops and map
// to RouteUnknown rather than an error.
func Probe(ctx context.Context, t Transport, deadline time.Duration, mode ProbeMode) RouteType {
	logrus.Debugf("probe: deadline=%v mode=%v", deadline, mode)
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()
	reply, err := t.Call(ctx, ProbeRequest{FillRouteType: true}, mode)
	if err != nil {
		logrus.Warnf("probe failed: %v", err)
		return RouteUnknown
	}
	if reply.Hostname != "" {
		logrus.Debugf("probe served by %s", reply.Hostname)
	}
	logrus.Infof("probe route: %v", reply.Route)
	return reply.Route
}
