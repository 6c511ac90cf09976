package reconcile

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cedbanana/dds25-2/internal/errs"
	"github.com/cedbanana/dds25-2/internal/kv"
	"github.com/cedbanana/dds25-2/internal/model"
	"github.com/cedbanana/dds25-2/internal/snapshot"
)

// Peer calls the other service's VibeCheckTransactionStatus RPC,
// reporting this side's outcome and learning the peer's.
type Peer interface {
	VibeCheck(ctx context.Context, tid string, localSuccess bool) (peerSuccess, peerStale bool, err error)
}

// Processor drives one stream consumer's worth of the caller side of
// the reconciliation protocol: lock, resolve against the peer, apply.
type Processor struct {
	Store  *kv.Client
	Ledger *Ledger
	Peer   Peer
	Halter *snapshot.Halter
	Log    *logrus.Entry

	JitterMin, JitterMax time.Duration
}

// errRequeue signals kv.StreamConsume to push the tid onto the stream
// again so it is retried after a jittered backoff; the jitter sleep
// itself already happened before Handle returns it.
var errRequeue = errs.New(errs.Conflict, "reconcile.Processor", nil)

func (p *Processor) jitter() {
	lo, hi := p.JitterMin, p.JitterMax
	if hi <= lo {
		time.Sleep(lo)
		return
	}
	d := lo + time.Duration(rand.Int63n(int64(hi-lo)))
	time.Sleep(d)
}

// Handle is the kv.StreamConsume callback for one {tid} event.
func (p *Processor) Handle(ctx context.Context, tid string) error {
	if err := p.Halter.BeforeConsume(ctx); err != nil {
		return err
	}

	txn := model.Transaction{Tid: tid}
	found, err := p.Store.Get(ctx, &txn)
	if err != nil {
		return err
	}
	if !found || txn.Status == model.StatusStale {
		return nil // ack & skip: already reconciled, or a late/duplicate arrival past STALE.
	}

	locked, err := p.Store.CompareAndSet(ctx, tid, "locked", "false", "true")
	if err != nil {
		return err
	}
	if !locked {
		p.jitter()
		return errRequeue
	}

	if txn.Status == model.StatusPending {
		if _, err := p.Store.Increment(ctx, tid, "pending_count", 1); err != nil {
			return err
		}
		if _, err := p.Store.CompareAndSet(ctx, tid, "locked", "true", "false"); err != nil {
			return err
		}
		p.jitter()
		return errRequeue
	}

	peerSuccess, peerStale, err := p.Peer.VibeCheck(ctx, tid, txn.Status == model.StatusSuccess)
	if err != nil {
		if _, unlockErr := p.Store.CompareAndSet(ctx, tid, "locked", "true", "false"); unlockErr != nil {
			return unlockErr
		}
		p.jitter()
		return errRequeue
	}

	if err := p.Store.Delete(ctx, &txn); err != nil {
		return err
	}
	resolvedPeerSuccess := peerSuccess && !peerStale
	return p.Ledger.Apply(ctx, &txn, resolvedPeerSuccess)
}

// grpcContested reports whether err is the FAILED_PRECONDITION a peer
// reports when its own reconciler already holds the lock.
func grpcContested(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.FailedPrecondition
}
