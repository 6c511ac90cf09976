package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestJitterRespectsBounds(t *testing.T) {
	p := &Processor{JitterMin: 5 * time.Millisecond, JitterMax: 15 * time.Millisecond}

	start := time.Now()
	p.jitter()
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, p.JitterMin)
}

func TestJitterWithEqualBoundsSleepsExactlyMin(t *testing.T) {
	p := &Processor{JitterMin: 5 * time.Millisecond, JitterMax: 5 * time.Millisecond}

	start := time.Now()
	p.jitter()
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, p.JitterMin)
}

func TestGrpcContestedDetectsFailedPrecondition(t *testing.T) {
	err := status.Error(codes.FailedPrecondition, "locked")
	require.True(t, grpcContested(err))
}

func TestGrpcContestedFalseForOtherCodes(t *testing.T) {
	require.False(t, grpcContested(status.Error(codes.NotFound, "missing")))
	require.False(t, grpcContested(errors.New("plain error")))
}
