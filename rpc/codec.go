package rpc

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/lbfallback/lbfallback/fallback"
)

// Field numbers from grpc.testing.SimpleRequest / SimpleResponse. Only the
// fields the probe touches are encoded; unrecognized response fields are
// skipped.
const (
	fieldFillRouteType = 10 // SimpleRequest.fill_grpclb_route_type
	fieldRouteType     = 5  // SimpleResponse.grpclb_route_type
	fieldHostname      = 6  // SimpleResponse.hostname
)

// GrpclbRouteType enum values from the response.
const (
	wireRouteFallback = 1
	wireRouteBackend  = 2
)

// rawCodec passes pre-encoded message bytes through grpc unchanged while
// keeping the proto content-type the server expects.
type rawCodec struct{}

func (rawCodec) Marshal(v interface{}) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("raw codec: cannot marshal %T", v)
	}
	return b, nil
}

func (rawCodec) Unmarshal(data []byte, v interface{}) error {
	p, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("raw codec: cannot unmarshal into %T", v)
	}
	*p = data
	return nil
}

func (rawCodec) Name() string { return "proto" }

// appendProbeRequest encodes req as a grpc.testing.SimpleRequest.
func appendProbeRequest(b []byte, req fallback.ProbeRequest) []byte {
	if req.FillRouteType {
		b = protowire.AppendTag(b, fieldFillRouteType, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b
}

// parseProbeReply decodes the route type and hostname from a
// grpc.testing.SimpleResponse.
func parseProbeReply(b []byte) (fallback.ProbeReply, error) {
	var reply fallback.ProbeReply
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return reply, fmt.Errorf("parsing response tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldRouteType && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return reply, fmt.Errorf("parsing route type: %w", protowire.ParseError(m))
			}
			reply.Route = routeFromWire(v)
			b = b[m:]
		case num == fieldHostname && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return reply, fmt.Errorf("parsing hostname: %w", protowire.ParseError(m))
			}
			reply.Hostname = string(v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return reply, fmt.Errorf("skipping response field %d: %w", int(num), protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return reply, nil
}

// routeFromWire maps the GrpclbRouteType enum to a RouteType. Unrecognized
// values classify as unknown.
func routeFromWire(v uint64) fallback.RouteType {
	switch v {
	case wireRouteFallback:
		return fallback.RouteFallback
	case wireRouteBackend:
		return fallback.RouteBackend
	default:
		return fallback.RouteUnknown
	}
}
