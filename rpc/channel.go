// Package rpc implements the probe transport over a shared gRPC channel,
// including the wire encoding for the grpc.testing.TestService/UnaryCall
// message pair the deployment under test serves.
package rpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/google"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/lbfallback/lbfallback/fallback"
)

const unaryCallMethod = "/grpc.testing.TestService/UnaryCall"

// Credential type names accepted by Dial.
const (
	CredsComputeEngine = "compute_engine_channel_creds"
	CredsInsecure      = "insecure"
)

// Dial creates the client channel for target using the named credentials.
// The channel is constructed once at startup and shared by every probe;
// keepalive pings are effectively disabled (1 h) with a 20 s timeout,
// matching the deployment's balancer session expectations.
func Dial(target, creds string) (*grpc.ClientConn, error) {
	opts := []grpc.DialOption{
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:    3600 * time.Second,
			Timeout: 20 * time.Second,
		}),
	}
	switch creds {
	case CredsComputeEngine:
		opts = append(opts, grpc.WithCredentialsBundle(google.NewComputeEngineCredentials()))
	case CredsInsecure, "":
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	default:
		return nil, fmt.Errorf("unsupported credentials type %q; valid: %s, %s",
			creds, CredsComputeEngine, CredsInsecure)
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating channel for %s: %w", target, err)
	}
	return conn, nil
}

// Transport issues probe RPCs over a shared client connection.
type Transport struct {
	conn *grpc.ClientConn
}

// NewTransport wraps conn. The caller retains ownership of conn and closes
// it at process exit.
func NewTransport(conn *grpc.ClientConn) *Transport {
	return &Transport{conn: conn}
}

// Call implements fallback.Transport.
func (t *Transport) Call(ctx context.Context, req fallback.ProbeRequest, mode fallback.ProbeMode) (fallback.ProbeReply, error) {
	payload := appendProbeRequest(nil, req)
	opts := []grpc.CallOption{grpc.ForceCodec(rawCodec{})}
	if mode == fallback.WaitForReady {
		opts = append(opts, grpc.WaitForReady(true))
	}
	var wire []byte
	if err := t.conn.Invoke(ctx, unaryCallMethod, payload, &wire, opts...); err != nil {
		return fallback.ProbeReply{}, err
	}
	return parseProbeReply(wire)
}
