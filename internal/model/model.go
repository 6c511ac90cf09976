// Package model defines the record types and their field codecs.
// Field (de)serialization is a small hand-written per-type descriptor
// table rather than runtime reflection: each record exposes Fields(), a
// slice of FieldDescriptor pointing directly at its own struct fields,
// which internal/kv walks to do the field-addressable get/save.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the wire representation of one field: numerics as decimal
// strings, bools lowercase, lists/maps as JSON text.
type Kind int

const (
	KindInt Kind = iota
	KindInt64
	KindBool
	KindString
	KindStringList
	KindStringIntMap
	KindStatus
)

// FieldDescriptor names one field of a record and points at its storage,
// so the kv layer can decode into it (Get) or encode out of it (Save)
// without reflection.
type FieldDescriptor struct {
	Name string
	Kind Kind

	Int       *int
	Int64     *int64
	Bool      *bool
	Str       *string
	StrList   *[]string
	StrIntMap *map[string]int
	Status    *Status
}

// Record is any type whose fields are individually addressable under
// model:<id>:<field>.
type Record interface {
	// Model is the schema name, e.g. "user", "item", "order", "transaction".
	Model() string
	ID() string
	Fields() []FieldDescriptor
}

// User holds a purchaser's balance. Invariants: Credit >= 0 always;
// CommittedCredit >= 0 tracks funds a SUCCESS payment leg has debited but
// the saga has not yet finalized.
type User struct {
	UserID          string
	Credit          int
	CommittedCredit int
}

func (u *User) Model() string { return "user" }
func (u *User) ID() string    { return u.UserID }
func (u *User) Fields() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "id", Kind: KindString, Str: &u.UserID},
		{Name: "credit", Kind: KindInt, Int: &u.Credit},
		{Name: "committed_credit", Kind: KindInt, Int: &u.CommittedCredit},
	}
}

// Item holds a catalog entry's stock. Invariants: Stock >= 0 always;
// CommittedStock mirrors User.CommittedCredit for inventory.
type Item struct {
	ItemID         string
	Stock          int
	Price          int
	CommittedStock int
}

func (i *Item) Model() string { return "item" }
func (i *Item) ID() string    { return i.ItemID }
func (i *Item) Fields() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "id", Kind: KindString, Str: &i.ItemID},
		{Name: "stock", Kind: KindInt, Int: &i.Stock},
		{Name: "price", Kind: KindInt, Int: &i.Price},
		{Name: "committed_stock", Kind: KindInt, Int: &i.CommittedStock},
	}
}

// Order is a cart plus its checkout history. Paid is a counter (number of
// successful checkouts), not a boolean: idempotent commits
// increment it, finders compare to zero.
type Order struct {
	OrderID   string
	Paid      int
	Items     []string // "item:qty" pairs
	UserID    string
	TotalCost int
}

func (o *Order) Model() string { return "order" }
func (o *Order) ID() string    { return o.OrderID }
func (o *Order) Fields() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "id", Kind: KindString, Str: &o.OrderID},
		{Name: "paid", Kind: KindInt, Int: &o.Paid},
		{Name: "items", Kind: KindStringList, StrList: &o.Items},
		{Name: "user_id", Kind: KindString, Str: &o.UserID},
		{Name: "total_cost", Kind: KindInt, Int: &o.TotalCost},
	}
}

// Status is a Transaction's lifecycle state.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
	StatusStale   Status = "STALE"
)

// Transaction is the ground truth of one saga leg, owned exclusively by
// the service that created it until reconciliation deletes it.
// Details records the per-key deltas this leg applied, used for
// compensation. OrderID is set only on the Order service's own
// bookkeeping Transaction so /commit_checkout/<tid>
// can recover which order to finalize without consulting Stock or
// Payment's (already-deleted, by the time it runs) transaction records.
type Transaction struct {
	Tid       string
	Status    Status
	Details   map[string]int
	CreatedAt int64
	Locked    bool
	OrderID   string
}

func (t *Transaction) Model() string { return "transaction" }
func (t *Transaction) ID() string    { return t.Tid }
func (t *Transaction) Fields() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "id", Kind: KindString, Str: &t.Tid},
		{Name: "status", Kind: KindStatus, Status: &t.Status},
		{Name: "details", Kind: KindStringIntMap, StrIntMap: &t.Details},
		{Name: "created_at", Kind: KindInt64, Int64: &t.CreatedAt},
		{Name: "locked", Kind: KindBool, Bool: &t.Locked},
		{Name: "order_id", Kind: KindString, Str: &t.OrderID},
	}
}

// Counter is a bare named integer, used only by the snapshot protocol
// (halted_consumers_counter).
type Counter struct {
	CounterID string
	Count     int
}

func (c *Counter) Model() string { return "counter" }
func (c *Counter) ID() string    { return c.CounterID }
func (c *Counter) Fields() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "id", Kind: KindString, Str: &c.CounterID},
		{Name: "count", Kind: KindInt, Int: &c.Count},
	}
}

// Flag is a bare named boolean, used only for HALTED.
type Flag struct {
	FlagID  string
	Enabled bool
}

func (f *Flag) Model() string { return "flag" }
func (f *Flag) ID() string    { return f.FlagID }
func (f *Flag) Fields() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "id", Kind: KindString, Str: &f.FlagID},
		{Name: "enabled", Kind: KindBool, Bool: &f.Enabled},
	}
}

// HaltedFlagID and HaltedConsumersCounterID are the bit-stable ids
// shared by every service that touches the snapshot protocol.
const (
	HaltedFlagID             = "HALTED"
	HaltedConsumersCounterID = "halted_consumers_counter"
)

// ItemQty pairs an item id with a quantity, the unit of an Order's Items
// list and of a BulkOrder/BulkRefund request.
type ItemQty struct {
	ItemID   string
	Quantity int
}

// ParseItemQty decodes one "item:qty" entry of Order.Items.
func ParseItemQty(s string) (ItemQty, error) {
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return ItemQty{}, fmt.Errorf("malformed item entry %q", s)
	}
	qty, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return ItemQty{}, fmt.Errorf("malformed item entry %q: %w", s, err)
	}
	return ItemQty{ItemID: s[:idx], Quantity: qty}, nil
}

// FormatItemQty encodes one Order.Items entry.
func FormatItemQty(iq ItemQty) string {
	return iq.ItemID + ":" + strconv.Itoa(iq.Quantity)
}

// AggregateItems collapses an Order's raw Items list into per-item
// quantities, the input to the Stock fan-out leg.
func AggregateItems(items []string) ([]ItemQty, error) {
	totals := make(map[string]int)
	var order []string
	for _, entry := range items {
		iq, err := ParseItemQty(entry)
		if err != nil {
			return nil, err
		}
		if _, seen := totals[iq.ItemID]; !seen {
			order = append(order, iq.ItemID)
		}
		totals[iq.ItemID] += iq.Quantity
	}
	out := make([]ItemQty, 0, len(order))
	for _, id := range order {
		out = append(out, ItemQty{ItemID: id, Quantity: totals[id]})
	}
	return out, nil
}
