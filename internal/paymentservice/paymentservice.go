// Package paymentservice implements the Payment RPC surface, symmetric
// to internal/stockservice but against a user's credit balance instead
// of an item's stock count.
package paymentservice

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

// Service implements rpcwire.PaymentServer.
type Service struct {
	store  *kv.Client
	halter *snapshot.Halter
	ledger *reconcile.Ledger
	log    *logrus.Entry

	expectedReplicas int
	vibeCheckRetries int
	vibeCheckBackoff time.Duration
}

// New builds a Payment service instance.
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

func (s *Service) FindUser(ctx context.Context, req *rpcwire.FindUserRequest) (*rpcwire.User, error) {
	user := model.User{UserID: req.UserID}
	found, err := s.store.Get(ctx, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.New(errs.NotFound, "paymentservice.FindUser", nil)
	}
	return &rpcwire.User{ID: user.UserID, Credit: user.Credit}, nil
}

// AddFunds is the admin/seed path: a plain atomic increment, no
// transaction record.
func (s *Service) AddFunds(ctx context.Context, req *rpcwire.AddFundsRequest) (*rpcwire.PaymentResponse, error) {
	if req.Amount < 0 {
		return nil, errs.New(errs.PreconditionFailed, "paymentservice.AddFunds", nil)
	}
	if _, err := s.store.Increment(ctx, req.UserID, "credit", req.Amount); err != nil {
		return nil, err
	}
	return &rpcwire.PaymentResponse{Success: true}, nil
}

// ProcessPayment is the payment saga leg: check the tid
// isn't already STALE, record a PENDING transaction, push it to the
// reconciliation stream, then attempt the conditional debit in one
// script invocation.
func (s *Service) ProcessPayment(ctx context.Context, req *rpcwire.ProcessPaymentRequest) (*rpcwire.PaymentResponse, error) {
	txn := model.Transaction{Tid: req.Tid}
	found, err := s.store.Get(ctx, &txn)
	if err != nil {
		return nil, err
	}
	if found && txn.Status == model.StatusStale {
		return nil, errs.New(errs.Stale, "paymentservice.ProcessPayment", nil)
	}

	if err := s.store.Save(ctx, &model.Transaction{
		Tid:       req.Tid,
		Status:    model.StatusPending,
		Details:   map[string]int{req.UserID: req.Amount},
		CreatedAt: time.Now().UnixNano(),
	}); err != nil {
		return nil, err
	}
	if err := s.store.StreamPush(ctx, req.Tid); err != nil {
		return nil, err
	}

	remaining, err := s.store.LteDecrement(ctx, req.UserID, "credit", req.Amount, req.Tid)
	if err != nil {
		return nil, err
	}
	if remaining < 0 {
		return &rpcwire.PaymentResponse{Success: false, Error: "insufficient credit"}, nil
	}
	// Mirrors stockservice.RemoveStock's committed_stock bookkeeping.
	if _, err := s.store.Increment(ctx, req.UserID, "committed_credit", req.Amount); err != nil {
		return nil, err
	}
	return &rpcwire.PaymentResponse{Success: true}, nil
}

// VibeCheckTransactionStatus mirrors stockservice's callee-side protocol.
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
