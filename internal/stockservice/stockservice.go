// Package stockservice implements the Stock RPC surface against
// internal/kv: catalog reads, admin stock adjustment, and the two saga
// legs (RemoveStock, BulkOrder/BulkRefund) that the Order service's
// checkout driver fans out to.
package stockservice

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cedbanana/dds25-2/internal/errs"
	"github.com/cedbanana/dds25-2/internal/kv"
	"github.com/cedbanana/dds25-2/internal/model"
	"github.com/cedbanana/dds25-2/internal/reconcile"
	"github.com/cedbanana/dds25-2/internal/rpcwire"
	"github.com/cedbanana/dds25-2/internal/snapshot"
)

// Service implements rpcwire.StockServer.
type Service struct {
	store  *kv.Client
	halter *snapshot.Halter
	ledger *reconcile.Ledger
	log    *logrus.Entry

	expectedReplicas int
	vibeCheckRetries int
	vibeCheckBackoff time.Duration
}

// New builds a Stock service instance. ledger drives this side of the
// commit/compensate table when acting as the callee of a peer's
// VibeCheckTransactionStatus call.
func New(store *kv.Client, halter *snapshot.Halter, ledger *reconcile.Ledger, log *logrus.Entry, expectedReplicas, vibeCheckRetries int, vibeCheckBackoff time.Duration) *Service {
	return &Service{
		store:            store,
		halter:           halter,
		ledger:           ledger,
		log:              log,
		expectedReplicas: expectedReplicas,
		vibeCheckRetries: vibeCheckRetries,
		vibeCheckBackoff: vibeCheckBackoff,
	}
}

func (s *Service) FindItem(ctx context.Context, req *rpcwire.FindItemRequest) (*rpcwire.Item, error) {
	item := model.Item{ItemID: req.ItemID}
	found, err := s.store.Get(ctx, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.New(errs.NotFound, "stockservice.FindItem", nil)
	}
	return &rpcwire.Item{ID: item.ItemID, Stock: item.Stock, Price: item.Price}, nil
}

// AddStock is the admin/seed path: a plain atomic increment, no
// transaction record (nothing to compensate).
func (s *Service) AddStock(ctx context.Context, req *rpcwire.AddStockRequest) (*rpcwire.StockAdjustmentResponse, error) {
	if req.Quantity < 0 {
		return nil, errs.New(errs.PreconditionFailed, "stockservice.AddStock", nil)
	}
	if _, err := s.store.Increment(ctx, req.ItemID, "stock", req.Quantity); err != nil {
		return nil, err
	}
	item := model.Item{ItemID: req.ItemID}
	if _, err := s.store.Get(ctx, &item); err != nil {
		return nil, err
	}
	return &rpcwire.StockAdjustmentResponse{Success: true, Price: item.Price}, nil
}

// RemoveStock is the single-item saga leg: check the tid
// isn't already STALE, record a PENDING transaction, push it to the
// reconciliation stream, then attempt the conditional debit in one
// script invocation so the transaction's outcome and the balance change
// can never disagree.
func (s *Service) RemoveStock(ctx context.Context, req *rpcwire.RemoveStockRequest) (*rpcwire.OperationResponse, error) {
	txn := model.Transaction{Tid: req.Tid}
	found, err := s.store.Get(ctx, &txn)
	if err != nil {
		return nil, err
	}
	if found && txn.Status == model.StatusStale {
		return nil, errs.New(errs.Stale, "stockservice.RemoveStock", nil)
	}

	if err := s.store.Save(ctx, &model.Transaction{
		Tid:       req.Tid,
		Status:    model.StatusPending,
		Details:   map[string]int{req.ItemID: req.Quantity},
		CreatedAt: time.Now().UnixNano(),
	}); err != nil {
		return nil, err
	}
	if err := s.store.StreamPush(ctx, req.Tid); err != nil {
		return nil, err
	}

	remaining, err := s.store.LteDecrement(ctx, req.ItemID, "stock", req.Quantity, req.Tid)
	if err != nil {
		return nil, err
	}
	if remaining < 0 {
		return &rpcwire.OperationResponse{Success: false, Error: "insufficient stock"}, nil
	}
	// The debit is already final in "stock"; committed_stock is bookkeeping
	// for the not-yet-finalized portion, cleared by reconciliation's
	// commit/compensate step.
	if _, err := s.store.Increment(ctx, req.ItemID, "committed_stock", req.Quantity); err != nil {
		return nil, err
	}

	item := model.Item{ItemID: req.ItemID}
	if _, err := s.store.Get(ctx, &item); err != nil {
		return nil, err
	}
	return &rpcwire.OperationResponse{Success: true, Price: item.Price * req.Quantity}, nil
}

// BulkOrder is the multi-item variant: one all-or-nothing script
// invocation against every item in the order,
// recording every item's delta in the transaction's details for
// compensation.
func (s *Service) BulkOrder(ctx context.Context, req *rpcwire.BulkOrderRequest) (*rpcwire.BulkStockAdjustmentResponse, error) {
	txn := model.Transaction{Tid: req.Tid}
	found, err := s.store.Get(ctx, &txn)
	if err != nil {
		return nil, err
	}
	if found && txn.Status == model.StatusStale {
		return nil, errs.New(errs.Stale, "stockservice.BulkOrder", nil)
	}

	changes := make([]model.ItemQty, len(req.Items))
	for i, it := range req.Items {
		changes[i] = model.ItemQty{ItemID: it.ItemID, Quantity: it.Quantity}
	}

	if err := s.store.Save(ctx, &model.Transaction{
		Tid:       req.Tid,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UnixNano(),
	}); err != nil {
		return nil, err
	}
	if err := s.store.StreamPush(ctx, req.Tid); err != nil {
		return nil, err
	}

	ok, err := s.store.MGteDecrement(ctx, req.Tid, changes, "stock")
	if err != nil {
		return nil, err
	}
	if !ok {
		return &rpcwire.BulkStockAdjustmentResponse{Success: false, Error: "insufficient stock"}, nil
	}

	// Every item's delta is accumulated into one merge patch and flushed
	// with a single SetAttr against the transaction's details field, rather
	// than one SetAttr per item.
	var details kv.DetailsPatch
	total := 0
	for _, it := range req.Items {
		if _, err := s.store.Increment(ctx, it.ItemID, "committed_stock", it.Quantity); err != nil {
			return nil, err
		}
		details.Add(it.ItemID, it.Quantity)
		item := model.Item{ItemID: it.ItemID}
		if _, err := s.store.Get(ctx, &item); err != nil {
			return nil, err
		}
		total += item.Price * it.Quantity
	}
	if err := details.Flush(ctx, s.store, req.Tid); err != nil {
		return nil, err
	}
	return &rpcwire.BulkStockAdjustmentResponse{Success: true, TotalCost: total}, nil
}

// BulkRefund reverses a set of item deltas unconditionally, as an
// explicit compensation entry point: it never checks STALE and never
// fails on insufficient stock. The reconciliation processor does not
// call it; Ledger.Apply restores stock with its own increments.
func (s *Service) BulkRefund(ctx context.Context, req *rpcwire.BulkRefundRequest) (*rpcwire.OperationResponse, error) {
	for _, it := range req.Items {
		if _, err := s.store.Increment(ctx, it.ItemID, "stock", it.Quantity); err != nil {
			return nil, err
		}
	}
	return &rpcwire.OperationResponse{Success: true}, nil
}

// VibeCheckTransactionStatus is the callee side of reconciliation: retry-find
// the local transaction, take the advisory lock (reporting
// FAILED_PRECONDITION via errs.PreconditionFailed if contested), delete
// it, and resolve it from this side's perspective using the caller's
// reported outcome.
func (s *Service) VibeCheckTransactionStatus(ctx context.Context, req *rpcwire.VibeCheckRequest) (*rpcwire.TransactionStatus, error) {
	txn, err := s.ledger.CalleeVibeCheck(ctx, req.Tid, req.Success, s.vibeCheckRetries, s.vibeCheckBackoff)
	if err != nil {
		return nil, err
	}
	switch txn.Status {
	case model.StatusStale:
		return &rpcwire.TransactionStatus{Tid: req.Tid, Stale: true}, nil
	case model.StatusSuccess:
		return &rpcwire.TransactionStatus{Tid: req.Tid, Success: true}, nil
	default:
		return &rpcwire.TransactionStatus{Tid: req.Tid, Success: false}, nil
	}
}

func (s *Service) PrepareSnapshot(ctx context.Context, _ *rpcwire.Empty) (*rpcwire.SuccessResponse, error) {
	ok, err := s.halter.PrepareSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &rpcwire.SuccessResponse{Success: ok}, nil
}

func (s *Service) CheckSnapshotReady(ctx context.Context, _ *rpcwire.Empty) (*rpcwire.SuccessResponse, error) {
	ok, err := s.halter.CheckSnapshotReady(ctx, s.expectedReplicas)
	if err != nil {
		return nil, err
	}
	return &rpcwire.SuccessResponse{Success: ok}, nil
}

func (s *Service) Snapshot(ctx context.Context, _ *rpcwire.Empty) (*rpcwire.SuccessResponse, error) {
	if err := s.halter.Snapshot(ctx); err != nil {
		return nil, err
	}
	return &rpcwire.SuccessResponse{Success: true}, nil
}

func (s *Service) Continue(ctx context.Context, _ *rpcwire.Empty) (*rpcwire.SuccessResponse, error) {
	if err := s.halter.Continue(ctx); err != nil {
		return nil, err
	}
	return &rpcwire.SuccessResponse{Success: true}, nil
}
