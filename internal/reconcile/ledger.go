// Package reconcile implements the "vibe checker" reconciliation
// protocol: a stream consumer that pairs a saga leg's outcome against
// its peer service's outcome for the same tid and either finalizes or
// compensates, plus the symmetric callee-side handling invoked from the
// VibeCheckTransactionStatus RPC itself.
package reconcile

import (
	"context"

	"github.com/cedbanana/dds25-2/internal/kv"
	"github.com/cedbanana/dds25-2/internal/model"
)

// Ledger applies the commit/compensate table against one service's
// resource field (stock's "stock"/"committed_stock", or payment's
// "credit"/"committed_credit").
type Ledger struct {
	Store          *kv.Client
	Field          string
	CommittedField string

	// OnCommit is called, best-effort, when both legs succeeded — it
	// drives the Order service's idempotent /commit_checkout/<tid>.
	// Deletion of the Order-side transaction on first call makes a
	// second, harmless call from the other leg a no-op, so both legs may
	// call it safely.
	OnCommit func(ctx context.Context, tid string)
}

// Apply resolves txn against peerSuccess. A local FAILURE has nothing to
// undo. Callers delete the stored record before calling Apply; txn is the
// copy they read before that delete, so it still holds the Details.
func (l *Ledger) Apply(ctx context.Context, txn *model.Transaction, peerSuccess bool) error {
	if txn.Status != model.StatusSuccess {
		return nil
	}

	if peerSuccess {
		for id, delta := range txn.Details {
			if _, err := l.Store.Increment(ctx, id, l.CommittedField, -delta); err != nil {
				return err
			}
		}
		if l.OnCommit != nil {
			l.OnCommit(ctx, txn.Tid)
		}
		return nil
	}

	for id, delta := range txn.Details {
		if _, err := l.Store.Increment(ctx, id, l.Field, delta); err != nil {
			return err
		}
		if _, err := l.Store.Increment(ctx, id, l.CommittedField, -delta); err != nil {
			return err
		}
	}
	return nil
}
