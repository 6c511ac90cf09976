package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestKindOfUnwraps(t *testing.T) {
	base := New(Stale, "kv.Get", errors.New("boom"))
	wrapped := errors.Join(errors.New("context"), base)
	require.Equal(t, Stale, KindOf(wrapped))
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	require.Equal(t, Internal, KindOf(errors.New("plain error")))
	require.Equal(t, Internal, KindOf(nil))
}

func TestGRPCCode(t *testing.T) {
	cases := map[Kind]codes.Code{
		NotFound:            codes.NotFound,
		PreconditionFailed:  codes.FailedPrecondition,
		Conflict:            codes.Aborted,
		Stale:               codes.FailedPrecondition,
		Halted:              codes.Unavailable,
		Internal:            codes.Internal,
	}
	for kind, want := range cases {
		require.Equal(t, want, GRPCCode(kind), kind.String())
	}
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, 500, HTTPStatus(Internal))
	require.Equal(t, 500, HTTPStatus(Halted))
	require.Equal(t, 400, HTTPStatus(NotFound))
	require.Equal(t, 400, HTTPStatus(Conflict))
}

func TestErrorMessage(t *testing.T) {
	err := New(NotFound, "stockservice.FindItem", nil)
	require.Equal(t, "stockservice.FindItem: not_found", err.Error())

	wrapped := New(Internal, "kv.Get", errors.New("dial failed"))
	require.Equal(t, "kv.Get: internal: dial failed", wrapped.Error())
	require.Equal(t, "dial failed", errors.Unwrap(wrapped).Error())
}
