package kv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cedbanana/dds25-2/internal/model"
)

func TestFieldKey(t *testing.T) {
	require.Equal(t, "model:item-1:stock", fieldKey("item-1", "stock"))
}

func TestEncodeDecodeFieldRoundTrip(t *testing.T) {
	item := &model.Item{ItemID: "item-1", Stock: 7, Price: 250, CommittedStock: 2}
	decoded := model.Item{}
	for _, f := range item.Fields() {
		raw, err := encodeField(f)
		require.NoError(t, err)

		for _, df := range decoded.Fields() {
			if df.Name == f.Name {
				require.NoError(t, decodeField(df, raw))
			}
		}
	}
	require.Equal(t, *item, decoded)
}

func TestEncodeDecodeTransactionDetails(t *testing.T) {
	txn := &model.Transaction{
		Tid:     "tid-1",
		Status:  model.StatusPending,
		Details: map[string]int{"item-1": 3, "item-2": 1},
	}
	fields := txn.Fields()

	var detailsField model.FieldDescriptor
	for _, f := range fields {
		if f.Name == "details" {
			detailsField = f
		}
	}
	raw, err := encodeField(detailsField)
	require.NoError(t, err)

	var decoded model.Transaction
	for _, f := range decoded.Fields() {
		if f.Name == "details" {
			require.NoError(t, decodeField(f, raw))
		}
	}
	require.Equal(t, txn.Details, decoded.Details)
}

func TestDecodeFieldRejectsNonNumeric(t *testing.T) {
	var i int
	f := model.FieldDescriptor{Name: "stock", Kind: model.KindInt, Int: &i}
	err := decodeField(f, "not-a-number")
	require.ErrorIs(t, err, errNotNumeric)
}

func TestFieldByName(t *testing.T) {
	item := &model.Item{ItemID: "item-1"}
	f, ok := fieldByName(item, "price")
	require.True(t, ok)
	require.Equal(t, model.KindInt, f.Kind)

	_, ok = fieldByName(item, "nonexistent")
	require.False(t, ok)
}
