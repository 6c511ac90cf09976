// Package orderhttp implements the Order service's client-facing HTTP
// surface: order CRUD, the checkout saga driver's fan-out, the
// idempotent checkout commit finalizer, and the snapshot-controller-
// facing endpoints.
package orderhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cedbanana/dds25-2/internal/config"
	"github.com/cedbanana/dds25-2/internal/errs"
	"github.com/cedbanana/dds25-2/internal/kv"
	"github.com/cedbanana/dds25-2/internal/model"
	"github.com/cedbanana/dds25-2/internal/rpcwire"
	"github.com/cedbanana/dds25-2/internal/snapshot"
)

// Server hosts the Order HTTP surface.
type Server struct {
	store   *kv.Client
	stock   rpcwire.StockClient
	payment rpcwire.PaymentClient
	halter  *snapshot.Halter
	saga    config.Saga
	log     *logrus.Entry

	expectedStockReplicas   int
	expectedPaymentReplicas int
}

// New builds an Order HTTP server.
func New(store *kv.Client, stock rpcwire.StockClient, payment rpcwire.PaymentClient, halter *snapshot.Halter, saga config.Saga, log *logrus.Entry, expectedStockReplicas, expectedPaymentReplicas int) *Server {
	return &Server{
		store:                   store,
		stock:                   stock,
		payment:                 payment,
		halter:                  halter,
		saga:                    saga,
		log:                     log,
		expectedStockReplicas:   expectedStockReplicas,
		expectedPaymentReplicas: expectedPaymentReplicas,
	}
}

// Router builds the HTTP surface's mux.Router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/create/{user_id}", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/addItem/{order_id}/{item_id}/{quantity}", s.handleAddItem).Methods(http.MethodPost)
	r.HandleFunc("/checkout/{order_id}", s.handleCheckout).Methods(http.MethodPost)
	r.HandleFunc("/commit_checkout/{tid}", s.handleCommitCheckout).Methods(http.MethodPost)
	r.HandleFunc("/find_order/{order_id}", s.handleFindOrder).Methods(http.MethodGet)
	r.HandleFunc("/batch_init/{n}/{n_items}/{n_users}/{item_price}", s.handleBatchInit).Methods(http.MethodPost)
	r.HandleFunc("/prepare_rollback", s.handlePrepareRollback).Methods(http.MethodPost)
	r.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodPost)
	r.HandleFunc("/continue", s.handleContinue).Methods(http.MethodPost)
	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, log *logrus.Entry, op string, err error) {
	kind := errs.KindOf(err)
	log.WithError(err).WithField("op", op).Warn("request failed")
	writeJSON(w, errs.HTTPStatus(kind), map[string]string{"error": err.Error()})
}

func (s *Server) isHalted(ctx context.Context) bool {
	halted, err := s.halter.IsHalted(ctx)
	if err != nil {
		s.log.WithError(err).Warn("checking HALTED flag")
		return false
	}
	return halted
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	orderID := uuid.NewString()
	order := model.Order{OrderID: orderID, UserID: userID, Items: nil, TotalCost: 0}
	if err := s.store.Save(r.Context(), &order); err != nil {
		writeError(w, s.log, "orderhttp.create", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"order_id": orderID})
}

func (s *Server) handleFindOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["order_id"]
	order := model.Order{OrderID: orderID}
	found, err := s.store.Get(r.Context(), &order)
	if err != nil {
		writeError(w, s.log, "orderhttp.findOrder", err)
		return
	}
	if !found {
		writeError(w, s.log, "orderhttp.findOrder", errs.New(errs.NotFound, "orderhttp.findOrder", nil))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order_id":   order.OrderID,
		"paid":       order.Paid,
		"items":      order.Items,
		"user_id":    order.UserID,
		"total_cost": order.TotalCost,
	})
}

// handleAddItem implements the optimistic-concurrency guard on adding an
// item to a cart: watch (items, total_cost), look up the item's price, then commit the
// new list and total atomically. A concurrent writer invalidates the
// watch; retry the whole request up to maxAddItemRetries times.
const maxAddItemRetries = 5

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, itemID := vars["order_id"], vars["item_id"]
	quantity, err := strconv.Atoi(vars["quantity"])
	if err != nil || quantity <= 0 {
		writeError(w, s.log, "orderhttp.addItem", errs.New(errs.PreconditionFailed, "orderhttp.addItem", nil))
		return
	}

	var totalCost int
	for attempt := 0; attempt < maxAddItemRetries; attempt++ {
		item, err := s.stock.FindItem(r.Context(), &rpcwire.FindItemRequest{ItemID: itemID})
		if err != nil {
			writeError(w, s.log, "orderhttp.addItem", err)
			return
		}

		order := model.Order{OrderID: orderID}
		err = s.store.WatchedUpdate(r.Context(), orderID, &order, func() error {
			order.Items = append(order.Items, model.FormatItemQty(model.ItemQty{ItemID: itemID, Quantity: quantity}))
			order.TotalCost += quantity * item.Price
			totalCost = order.TotalCost
			return nil
		})
		if err == kv.ErrWatchConflict {
			continue
		}
		if err != nil {
			writeError(w, s.log, "orderhttp.addItem", err)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Item " + itemID + " added. Total: " + strconv.Itoa(totalCost)))
		return
	}
	writeError(w, s.log, "orderhttp.addItem", errs.New(errs.Conflict, "orderhttp.addItem", nil))
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.isHalted(ctx) {
		writeError(w, s.log, "orderhttp.checkout", errs.New(errs.Halted, "orderhttp.checkout", nil))
		return
	}

	orderID := mux.Vars(r)["order_id"]
	order := model.Order{OrderID: orderID}
	found, err := s.store.Get(ctx, &order)
	if err != nil {
		writeError(w, s.log, "orderhttp.checkout", err)
		return
	}
	if !found {
		writeError(w, s.log, "orderhttp.checkout", errs.New(errs.NotFound, "orderhttp.checkout", nil))
		return
	}

	tid := uuid.NewString()
	if err := s.store.Save(ctx, &model.Transaction{
		Tid:       tid,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UnixNano(),
		OrderID:   orderID,
	}); err != nil {
		writeError(w, s.log, "orderhttp.checkout", err)
		return
	}

	items, err := model.AggregateItems(order.Items)
	if err != nil {
		writeError(w, s.log, "orderhttp.checkout", errs.New(errs.PreconditionFailed, "orderhttp.checkout", err))
		return
	}

	rpcCtx, cancel := context.WithTimeout(ctx, s.saga.RPCTimeout)
	defer cancel()

	var stockOK, paymentOK bool
	grp, gctx := errgroup.WithContext(rpcCtx)
	grp.Go(func() error {
		msgs := make([]rpcwire.ItemQtyMsg, len(items))
		for i, it := range items {
			msgs[i] = rpcwire.ItemQtyMsg{ItemID: it.ItemID, Quantity: it.Quantity}
		}
		resp, err := s.stock.BulkOrder(gctx, &rpcwire.BulkOrderRequest{Items: msgs, Tid: tid})
		if err != nil {
			return nil // an RPC-level error just means stockOK stays false
		}
		stockOK = resp.Success
		return nil
	})
	grp.Go(func() error {
		resp, err := s.payment.ProcessPayment(gctx, &rpcwire.ProcessPaymentRequest{
			UserID: order.UserID, Amount: order.TotalCost, Tid: tid,
		})
		if err != nil {
			return nil
		}
		paymentOK = resp.Success
		return nil
	})
	_ = grp.Wait()

	if paymentOK && stockOK {
		// Not yet committed: the reconciliation processor finalizes via
		// /commit_checkout once both legs' vibe-check agree.
		writeJSON(w, http.StatusOK, map[string]string{"tid": tid, "status": "pending"})
		return
	}
	writeError(w, s.log, "orderhttp.checkout", errs.New(errs.Conflict, "orderhttp.checkout", nil))
}

// handleCommitCheckout is the idempotent finalizer of a checkout,
// called by the reconciliation processor once a SUCCESS/SUCCESS pair
// agrees. A missing transaction means it was already committed by a
// prior (possibly duplicate) call; that's success, not an error.
func (s *Server) handleCommitCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tid := mux.Vars(r)["tid"]

	txn := model.Transaction{Tid: tid}
	found, err := s.store.Get(ctx, &txn)
	if err != nil {
		writeError(w, s.log, "orderhttp.commitCheckout", err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, map[string]string{"status": "already committed"})
		return
	}

	if _, err := s.store.Increment(ctx, txn.OrderID, "paid", 1); err != nil {
		writeError(w, s.log, "orderhttp.commitCheckout", err)
		return
	}
	if err := s.store.Delete(ctx, &txn); err != nil {
		writeError(w, s.log, "orderhttp.commitCheckout", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "committed"})
}

func (s *Server) handleBatchInit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	n, _ := strconv.Atoi(vars["n"])
	nItems, _ := strconv.Atoi(vars["n_items"])
	nUsers, _ := strconv.Atoi(vars["n_users"])
	itemPrice, _ := strconv.Atoi(vars["item_price"])
	if n <= 0 || nItems <= 0 || nUsers <= 0 {
		writeError(w, s.log, "orderhttp.batchInit", errs.New(errs.PreconditionFailed, "orderhttp.batchInit", nil))
		return
	}

	ctx := r.Context()
	for i := 0; i < n; i++ {
		userID := strconv.Itoa(i % nUsers)
		itemID := strconv.Itoa(i % nItems)
		order := model.Order{
			OrderID:   strconv.Itoa(i),
			UserID:    userID,
			Items:     []string{model.FormatItemQty(model.ItemQty{ItemID: itemID, Quantity: 1})},
			TotalCost: itemPrice,
		}
		if err := s.store.Save(ctx, &order); err != nil {
			writeError(w, s.log, "orderhttp.batchInit", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Batch init for orders successful"})
}

func (s *Server) handlePrepareRollback(w http.ResponseWriter, r *http.Request) {
	ok, err := s.halter.PrepareSnapshot(r.Context())
	if err != nil {
		writeError(w, s.log, "orderhttp.prepareRollback", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.halter.Snapshot(r.Context()); err != nil {
		writeError(w, s.log, "orderhttp.snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	if err := s.halter.Continue(r.Context()); err != nil {
		writeError(w, s.log, "orderhttp.continue", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
