package reconcile

import (
	"context"
	"time"

	"github.com/cedbanana/dds25-2/internal/errs"
	"github.com/cedbanana/dds25-2/internal/model"
)

// CalleeVibeCheck implements the peer side of VibeCheckTransactionStatus:
// retry-find the local transaction (the caller's RPC may
// race the local decrement script), take the advisory lock, delete the
// record, and resolve it from this side's perspective using the caller's
// reported outcome. Returns errs.PreconditionFailed if another
// reconciler already holds the lock, which the RPC layer maps to
// FAILED_PRECONDITION for the caller to back off on.
func (l *Ledger) CalleeVibeCheck(ctx context.Context, tid string, callerSuccess bool, retries int, interval time.Duration) (*model.Transaction, error) {
	var txn model.Transaction
	found := false
	for i := 0; i < retries; i++ {
		txn = model.Transaction{Tid: tid}
		f, err := l.Store.Get(ctx, &txn)
		if err != nil {
			return nil, err
		}
		if f {
			found = true
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}

	if !found {
		stale := model.Transaction{Tid: tid, Status: model.StatusStale}
		if err := l.Store.Save(ctx, &stale); err != nil {
			return nil, err
		}
		return &stale, nil
	}

	ok, err := l.Store.CompareAndSet(ctx, tid, "locked", "false", "true")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.New(errs.PreconditionFailed, "reconcile.CalleeVibeCheck", nil)
	}

	if err := l.Store.Delete(ctx, &txn); err != nil {
		return nil, err
	}
	if err := l.Apply(ctx, &txn, callerSuccess); err != nil {
		return nil, err
	}
	return &txn, nil
}
