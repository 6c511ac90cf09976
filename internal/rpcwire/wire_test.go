package rpcwire

import (
	"encoding/json"
	"testing"

	"github.com/nsf/jsondiff"
	"github.com/stretchr/testify/require"
)

// TestMessageWireShapes locks down the JSON shape of the hand-written
// message types against the field names the Python original used, since
// there's no .proto file generating them for us.
func TestMessageWireShapes(t *testing.T) {
	opts := jsondiff.DefaultConsoleOptions()

	cases := []struct {
		name     string
		msg      any
		expected string
	}{
		{
			name:     "RemoveStockRequest",
			msg:      RemoveStockRequest{ItemID: "item-1", Quantity: 3, Tid: "tid-1"},
			expected: `{"item_id":"item-1","quantity":3,"tid":"tid-1"}`,
		},
		{
			name:     "OperationResponse",
			msg:      OperationResponse{Success: false, Error: "insufficient stock"},
			expected: `{"success":false,"error":"insufficient stock"}`,
		},
		{
			name:     "ProcessPaymentRequest",
			msg:      ProcessPaymentRequest{UserID: "user-1", Amount: 500, Tid: "tid-1"},
			expected: `{"user_id":"user-1","amount":500,"tid":"tid-1"}`,
		},
		{
			name:     "VibeCheckRequest",
			msg:      VibeCheckRequest{Tid: "tid-1", Success: true},
			expected: `{"tid":"tid-1","success":true}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := json.Marshal(tc.msg)
			require.NoError(t, err)

			mode, diff := jsondiff.Compare(actual, []byte(tc.expected), &opts)
			require.Containsf(t, []jsondiff.Difference{jsondiff.FullMatch, jsondiff.SupersetMatch}, mode,
				"wire shape mismatch for %s: %s", tc.name, diff)
		})
	}
}

func TestJSONCodecRoundTrip(t *testing.T) {
	codec := jsonCodec{}
	in := FindItemRequest{ItemID: "item-7"}

	b, err := codec.Marshal(in)
	require.NoError(t, err)

	var out FindItemRequest
	require.NoError(t, codec.Unmarshal(b, &out))
	require.Equal(t, in, out)
	require.Equal(t, "json", codec.Name())
}
