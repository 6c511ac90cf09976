package rpcwire

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cedbanana/dds25-2/internal/errs"
)

func TestErrorMappingInterceptorPassesThroughSuccess(t *testing.T) {
	handler := func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	}
	resp, err := ErrorMappingInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, handler)
	require.NoError(t, err)
	require.Equal(t, "ok", resp)
}

func TestErrorMappingInterceptorMapsKnownKind(t *testing.T) {
	handler := func(ctx context.Context, req any) (any, error) {
		return nil, errs.New(errs.Stale, "stockservice.RemoveStock", nil)
	}
	_, err := ErrorMappingInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, handler)
	require.Error(t, err)

	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, codes.FailedPrecondition, st.Code())
}

func TestErrorMappingInterceptorDefaultsUnknownErrorsToInternal(t *testing.T) {
	handler := func(ctx context.Context, req any) (any, error) {
		return nil, errors.New("unexpected")
	}
	_, err := ErrorMappingInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, handler)
	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, codes.Internal, st.Code())
}
