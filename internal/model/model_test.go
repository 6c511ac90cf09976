package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseItemQty(t *testing.T) {
	iq, err := ParseItemQty("widget:3")
	require.NoError(t, err)
	require.Equal(t, ItemQty{ItemID: "widget", Quantity: 3}, iq)

	_, err = ParseItemQty("no-colon-here")
	require.Error(t, err)

	_, err = ParseItemQty("widget:not-a-number")
	require.Error(t, err)
}

func TestFormatItemQty(t *testing.T) {
	require.Equal(t, "widget:3", FormatItemQty(ItemQty{ItemID: "widget", Quantity: 3}))
}

func TestAggregateItems(t *testing.T) {
	items := []string{"a:1", "b:2", "a:3"}
	agg, err := AggregateItems(items)
	require.NoError(t, err)
	require.Equal(t, []ItemQty{{ItemID: "a", Quantity: 4}, {ItemID: "b", Quantity: 2}}, agg)
}

func TestAggregateItemsMalformed(t *testing.T) {
	_, err := AggregateItems([]string{"bad-entry"})
	require.Error(t, err)
}

func TestTransactionFields(t *testing.T) {
	txn := &Transaction{
		Tid:       "tid-1",
		Status:    StatusPending,
		Details:   map[string]int{"item-1": 2},
		CreatedAt: 123,
		OrderID:   "order-1",
	}
	fields := txn.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	require.Equal(t, []string{"id", "status", "details", "created_at", "locked", "order_id"}, names)
	require.Equal(t, "transaction", txn.Model())
	require.Equal(t, "tid-1", txn.ID())
}

func TestOrderFields(t *testing.T) {
	order := &Order{OrderID: "o-1", UserID: "u-1", Items: []string{"a:1"}, TotalCost: 10}
	require.Equal(t, "order", order.Model())
	require.Equal(t, "o-1", order.ID())
	require.Len(t, order.Fields(), 5)
}
