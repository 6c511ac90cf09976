// Package rpcwire carries the Stock and Payment RPC surface over real
// google.golang.org/grpc transport — deadlines, codes/status, unary
// interceptors — without protobuf wire framing. Messages are plain Go
// structs with JSON tags, carried by a small custom grpc codec instead
// of generated .pb.go types.
package rpcwire

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec implements google.golang.org/grpc/encoding.Codec, registered
// under the "json" content-subtype so both ends negotiate it via the
// standard grpc+<subtype> content-type header.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpcwire: marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpcwire: unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string { return codecName }

// CodecName is the content-subtype clients must select (via
// grpc.CallContentSubtype) to match the server's registered codec.
const CodecName = codecName
