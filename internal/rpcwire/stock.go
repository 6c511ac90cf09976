package rpcwire

import (
	"context"

	"google.golang.org/grpc"
)

// Message types for the Stock RPC surface. Plain JSON-tagged
// structs in place of generated protobuf messages (see package doc).

type FindItemRequest struct {
	ItemID string `json:"item_id"`
}

type Item struct {
	ID    string `json:"id"`
	Stock int    `json:"stock"`
	Price int    `json:"price"`
}

type AddStockRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type StockAdjustmentResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Price   int    `json:"price"`
}

type RemoveStockRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Tid      string `json:"tid"`
}

type OperationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Price   int    `json:"price,omitempty"`
}

type ItemQtyMsg struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type BulkOrderRequest struct {
	Items []ItemQtyMsg `json:"items"`
	Tid   string       `json:"tid"`
}

type BulkStockAdjustmentResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	TotalCost int    `json:"total_cost"`
}

type BulkRefundRequest struct {
	Items []ItemQtyMsg `json:"items"`
}

type VibeCheckRequest struct {
	Tid     string `json:"tid"`
	Success bool   `json:"success"`
}

type TransactionStatus struct {
	Tid     string `json:"tid"`
	Success bool   `json:"success"`
	Stale   bool   `json:"stale"`
}

type Empty struct{}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// StockServer is the server-side interface implemented by
// internal/stockservice.
type StockServer interface {
	FindItem(context.Context, *FindItemRequest) (*Item, error)
	AddStock(context.Context, *AddStockRequest) (*StockAdjustmentResponse, error)
	RemoveStock(context.Context, *RemoveStockRequest) (*OperationResponse, error)
	BulkOrder(context.Context, *BulkOrderRequest) (*BulkStockAdjustmentResponse, error)
	BulkRefund(context.Context, *BulkRefundRequest) (*OperationResponse, error)
	VibeCheckTransactionStatus(context.Context, *VibeCheckRequest) (*TransactionStatus, error)
	PrepareSnapshot(context.Context, *Empty) (*SuccessResponse, error)
	CheckSnapshotReady(context.Context, *Empty) (*SuccessResponse, error)
	Snapshot(context.Context, *Empty) (*SuccessResponse, error)
	Continue(context.Context, *Empty) (*SuccessResponse, error)
}

// StockClient is the client-side interface, dialed over a real
// *grpc.ClientConn.
type StockClient interface {
	FindItem(ctx context.Context, in *FindItemRequest, opts ...grpc.CallOption) (*Item, error)
	AddStock(ctx context.Context, in *AddStockRequest, opts ...grpc.CallOption) (*StockAdjustmentResponse, error)
	RemoveStock(ctx context.Context, in *RemoveStockRequest, opts ...grpc.CallOption) (*OperationResponse, error)
	BulkOrder(ctx context.Context, in *BulkOrderRequest, opts ...grpc.CallOption) (*BulkStockAdjustmentResponse, error)
	BulkRefund(ctx context.Context, in *BulkRefundRequest, opts ...grpc.CallOption) (*OperationResponse, error)
	VibeCheckTransactionStatus(ctx context.Context, in *VibeCheckRequest, opts ...grpc.CallOption) (*TransactionStatus, error)
	PrepareSnapshot(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error)
	CheckSnapshotReady(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error)
	Snapshot(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error)
	Continue(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error)
}

type stockClient struct {
	cc grpc.ClientConnInterface
}

// NewStockClient builds a StockClient over cc, forcing the JSON codec
// (see codec.go) on every call so it matches the server regardless of
// what the caller's dial options otherwise negotiate.
func NewStockClient(cc grpc.ClientConnInterface) StockClient {
	return &stockClient{cc: cc}
}

func withJSON(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *stockClient) FindItem(ctx context.Context, in *FindItemRequest, opts ...grpc.CallOption) (*Item, error) {
	out := new(Item)
	if err := c.cc.Invoke(ctx, "/stock.Stock/FindItem", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stockClient) AddStock(ctx context.Context, in *AddStockRequest, opts ...grpc.CallOption) (*StockAdjustmentResponse, error) {
	out := new(StockAdjustmentResponse)
	if err := c.cc.Invoke(ctx, "/stock.Stock/AddStock", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stockClient) RemoveStock(ctx context.Context, in *RemoveStockRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	out := new(OperationResponse)
	if err := c.cc.Invoke(ctx, "/stock.Stock/RemoveStock", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stockClient) BulkOrder(ctx context.Context, in *BulkOrderRequest, opts ...grpc.CallOption) (*BulkStockAdjustmentResponse, error) {
	out := new(BulkStockAdjustmentResponse)
	if err := c.cc.Invoke(ctx, "/stock.Stock/BulkOrder", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stockClient) BulkRefund(ctx context.Context, in *BulkRefundRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	out := new(OperationResponse)
	if err := c.cc.Invoke(ctx, "/stock.Stock/BulkRefund", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stockClient) VibeCheckTransactionStatus(ctx context.Context, in *VibeCheckRequest, opts ...grpc.CallOption) (*TransactionStatus, error) {
	out := new(TransactionStatus)
	if err := c.cc.Invoke(ctx, "/stock.Stock/VibeCheckTransactionStatus", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stockClient) PrepareSnapshot(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error) {
	out := new(SuccessResponse)
	if err := c.cc.Invoke(ctx, "/stock.Stock/PrepareSnapshot", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stockClient) CheckSnapshotReady(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error) {
	out := new(SuccessResponse)
	if err := c.cc.Invoke(ctx, "/stock.Stock/CheckSnapshotReady", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stockClient) Snapshot(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error) {
	out := new(SuccessResponse)
	if err := c.cc.Invoke(ctx, "/stock.Stock/Snapshot", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stockClient) Continue(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error) {
	out := new(SuccessResponse)
	if err := c.cc.Invoke(ctx, "/stock.Stock/Continue", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Stock_FindItem_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FindItemRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).FindItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/FindItem"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).FindItem(ctx, req.(*FindItemRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Stock_AddStock_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddStockRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).AddStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/AddStock"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).AddStock(ctx, req.(*AddStockRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Stock_RemoveStock_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RemoveStockRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).RemoveStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/RemoveStock"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).RemoveStock(ctx, req.(*RemoveStockRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Stock_BulkOrder_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BulkOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).BulkOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/BulkOrder"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).BulkOrder(ctx, req.(*BulkOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Stock_BulkRefund_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BulkRefundRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).BulkRefund(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/BulkRefund"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).BulkRefund(ctx, req.(*BulkRefundRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Stock_VibeCheckTransactionStatus_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(VibeCheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).VibeCheckTransactionStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/VibeCheckTransactionStatus"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).VibeCheckTransactionStatus(ctx, req.(*VibeCheckRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Stock_PrepareSnapshot_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).PrepareSnapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/PrepareSnapshot"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).PrepareSnapshot(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Stock_CheckSnapshotReady_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).CheckSnapshotReady(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/CheckSnapshotReady"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).CheckSnapshotReady(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Stock_Snapshot_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/Snapshot"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).Snapshot(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Stock_Continue_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServer).Continue(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stock.Stock/Continue"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StockServer).Continue(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// StockServiceDesc is the hand-written equivalent of a protoc-gen-go-grpc
// generated _ServiceDesc: enough for grpc.Server.RegisterService to route
// by method name without any protobuf reflection.
var StockServiceDesc = grpc.ServiceDesc{
	ServiceName: "stock.Stock",
	HandlerType: (*StockServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindItem", Handler: _Stock_FindItem_Handler},
		{MethodName: "AddStock", Handler: _Stock_AddStock_Handler},
		{MethodName: "RemoveStock", Handler: _Stock_RemoveStock_Handler},
		{MethodName: "BulkOrder", Handler: _Stock_BulkOrder_Handler},
		{MethodName: "BulkRefund", Handler: _Stock_BulkRefund_Handler},
		{MethodName: "VibeCheckTransactionStatus", Handler: _Stock_VibeCheckTransactionStatus_Handler},
		{MethodName: "PrepareSnapshot", Handler: _Stock_PrepareSnapshot_Handler},
		{MethodName: "CheckSnapshotReady", Handler: _Stock_CheckSnapshotReady_Handler},
		{MethodName: "Snapshot", Handler: _Stock_Snapshot_Handler},
		{MethodName: "Continue", Handler: _Stock_Continue_Handler},
	},
	Metadata: "stock.proto",
}

// RegisterStockServer registers srv on s under StockServiceDesc.
func RegisterStockServer(s grpc.ServiceRegistrar, srv StockServer) {
	s.RegisterService(&StockServiceDesc, srv)
}
