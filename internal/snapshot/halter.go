// Package snapshot implements the coordinated global snapshot protocol:
// each service embeds a Halter that owns its local HALTED flag,
// halted_consumers_counter, and the cross-replica snapshot_lock; a
// separate controller (cmd/cron) drives all three services' Halters
// through one PrepareSnapshot -> CheckSnapshotReady -> Snapshot ->
// Continue pass.
package snapshot

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"

	"github.com/cedbanana/dds25-2/internal/errs"
	"github.com/cedbanana/dds25-2/internal/kv"
	"github.com/cedbanana/dds25-2/internal/model"
)

// lockTTLSeconds is the snapshot_lock TTL.
const lockTTLSeconds = 5

// pollInterval is CheckSnapshotReady's poll cadence.
const pollInterval = 100 * time.Millisecond

// Halter is the per-service half of the snapshot protocol. It is safe
// for concurrent use by the service's HTTP/RPC handlers (IsHalted) and by
// its own reconciliation consumer goroutines (BeforeConsume).
type Halter struct {
	store *kv.Client
	etcd  *clientv3.Client
	name  string // etcd lock key, e.g. "/dds25/snapshot_lock/stock"

	session *concurrency.Session
	mutex   *concurrency.Mutex
}

// NewHalter builds a Halter for one service instance. etcd may be nil in
// tests that only exercise IsHalted/BeforeConsume against a pre-seeded
// flag, since PrepareSnapshot is the only method that dials it.
func NewHalter(store *kv.Client, etcd *clientv3.Client, serviceName string) *Halter {
	return &Halter{store: store, etcd: etcd, name: "/dds25/snapshot_lock/" + serviceName}
}

// IsHalted reports the local HALTED flag.
func (h *Halter) IsHalted(ctx context.Context) (bool, error) {
	flag := model.Flag{FlagID: model.HaltedFlagID}
	found, err := h.store.Get(ctx, &flag)
	if err != nil {
		return false, err
	}
	return found && flag.Enabled, nil
}

// PrepareSnapshot acquires the TTL'd snapshot_lock and sets HALTED=true.
// Returns success=false (not an error) if the lock is already held by
// another controller pass.
func (h *Halter) PrepareSnapshot(ctx context.Context) (bool, error) {
	session, err := concurrency.NewSession(h.etcd, concurrency.WithTTL(lockTTLSeconds))
	if err != nil {
		return false, errs.New(errs.Internal, "snapshot.PrepareSnapshot", err)
	}
	mutex := concurrency.NewMutex(session, h.name)

	if err := mutex.TryLock(ctx); err != nil {
		session.Close()
		if err == concurrency.ErrLocked {
			return false, nil
		}
		return false, errs.New(errs.Internal, "snapshot.PrepareSnapshot", err)
	}

	h.session = session
	h.mutex = mutex

	if err := h.store.Save(ctx, &model.Flag{FlagID: model.HaltedFlagID, Enabled: true}); err != nil {
		return false, err
	}
	return true, nil
}

// CheckSnapshotReady reports whether halted_consumers_counter.count has
// reached expectedReplicas. Callers poll this at
// pollInterval.
func (h *Halter) CheckSnapshotReady(ctx context.Context, expectedReplicas int) (bool, error) {
	counter := model.Counter{CounterID: model.HaltedConsumersCounterID}
	found, err := h.store.Get(ctx, &counter)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return counter.Count >= expectedReplicas, nil
}

// PollUntilReady blocks, polling CheckSnapshotReady, until it reports
// ready or ctx is done.
func (h *Halter) PollUntilReady(ctx context.Context, expectedReplicas int) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		ready, err := h.CheckSnapshotReady(ctx, expectedReplicas)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Snapshot requests the store's point-in-time image.
func (h *Halter) Snapshot(ctx context.Context) error {
	return h.store.Snapshot(ctx)
}

// Continue resets HALTED and the consumer counter, then releases the
// snapshot_lock, letting consumers resume.
func (h *Halter) Continue(ctx context.Context) error {
	if err := h.store.Save(ctx, &model.Flag{FlagID: model.HaltedFlagID, Enabled: false}); err != nil {
		return err
	}
	if err := h.store.Save(ctx, &model.Counter{CounterID: model.HaltedConsumersCounterID, Count: 0}); err != nil {
		return err
	}

	if h.mutex != nil {
		if err := h.mutex.Unlock(ctx); err != nil {
			return errs.New(errs.Internal, "snapshot.Continue", err)
		}
	}
	if h.session != nil {
		h.session.Close()
	}
	h.mutex, h.session = nil, nil
	return nil
}

// BeforeConsume is called by the reconciliation consumer loop before
// each read from the stream: if it observes HALTED=true, it atomically
// increments the halted-consumers counter and then blocks, polling at
// pollInterval, until HALTED is cleared (Continue clears it just before
// releasing snapshot_lock). It is a no-op when not halted.
func (h *Halter) BeforeConsume(ctx context.Context) error {
	halted, err := h.IsHalted(ctx)
	if err != nil {
		return err
	}
	if !halted {
		return nil
	}

	if _, err := h.store.Increment(ctx, model.HaltedConsumersCounterID, "count", 1); err != nil {
		return err
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		halted, err := h.IsHalted(ctx)
		if err != nil {
			return err
		}
		if !halted {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// EnsureHaltedCounterExists seeds the counter record at zero so
// CheckSnapshotReady never mistakes a missing record for "not ready" vs.
// "never initialized".
func (h *Halter) EnsureHaltedCounterExists(ctx context.Context) error {
	counter := model.Counter{CounterID: model.HaltedConsumersCounterID}
	found, err := h.store.Get(ctx, &counter)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	return h.store.Save(ctx, &model.Counter{CounterID: model.HaltedConsumersCounterID, Count: 0})
}

// ErrNotHalted is a sentinel for a request that requires HALTED. No
// handler in this module returns it; Order's checkout reports the
// snapshot window with an errs.Halted error instead.
var ErrNotHalted = fmt.Errorf("not halted")
