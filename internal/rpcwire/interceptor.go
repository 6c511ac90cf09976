package rpcwire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/cedbanana/dds25-2/internal/errs"
)

// ErrorMappingInterceptor translates a handler's *errs.Error into a real
// gRPC status: the same Kind taxonomy maps to gRPC codes on the wire and
// to HTTP statuses on the Order service's client-facing surface, so
// callers that type-switch on codes.Code/status.FromError see the
// intended semantics rather than a bare codes.Unknown.
func ErrorMappingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err == nil {
		return resp, nil
	}
	return resp, status.Error(errs.GRPCCode(errs.KindOf(err)), err.Error())
}
