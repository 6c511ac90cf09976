package rpcwire

import (
	"context"

	"google.golang.org/grpc"
)

// Message types for the Payment RPC surface, symmetric to Stock.

type FindUserRequest struct {
	UserID string `json:"user_id"`
}

type User struct {
	ID     string `json:"id"`
	Credit int    `json:"credit"`
}

type AddFundsRequest struct {
	UserID string `json:"user_id"`
	Amount int    `json:"amount"`
}

type PaymentResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ProcessPaymentRequest struct {
	UserID string `json:"user_id"`
	Amount int    `json:"amount"`
	Tid    string `json:"tid"`
}

// PaymentServer is the server-side interface implemented by
// internal/paymentservice.
type PaymentServer interface {
	FindUser(context.Context, *FindUserRequest) (*User, error)
	AddFunds(context.Context, *AddFundsRequest) (*PaymentResponse, error)
	ProcessPayment(context.Context, *ProcessPaymentRequest) (*PaymentResponse, error)
	VibeCheckTransactionStatus(context.Context, *VibeCheckRequest) (*TransactionStatus, error)
	PrepareSnapshot(context.Context, *Empty) (*SuccessResponse, error)
	CheckSnapshotReady(context.Context, *Empty) (*SuccessResponse, error)
	Snapshot(context.Context, *Empty) (*SuccessResponse, error)
	Continue(context.Context, *Empty) (*SuccessResponse, error)
}

// PaymentClient is the client-side interface.
type PaymentClient interface {
	FindUser(ctx context.Context, in *FindUserRequest, opts ...grpc.CallOption) (*User, error)
	AddFunds(ctx context.Context, in *AddFundsRequest, opts ...grpc.CallOption) (*PaymentResponse, error)
	ProcessPayment(ctx context.Context, in *ProcessPaymentRequest, opts ...grpc.CallOption) (*PaymentResponse, error)
	VibeCheckTransactionStatus(ctx context.Context, in *VibeCheckRequest, opts ...grpc.CallOption) (*TransactionStatus, error)
	PrepareSnapshot(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error)
	CheckSnapshotReady(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error)
	Snapshot(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error)
	Continue(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error)
}

type paymentClient struct {
	cc grpc.ClientConnInterface
}

// NewPaymentClient builds a PaymentClient over cc, forcing the JSON codec.
func NewPaymentClient(cc grpc.ClientConnInterface) PaymentClient {
	return &paymentClient{cc: cc}
}

func (c *paymentClient) FindUser(ctx context.Context, in *FindUserRequest, opts ...grpc.CallOption) (*User, error) {
	out := new(User)
	if err := c.cc.Invoke(ctx, "/payment.Payment/FindUser", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentClient) AddFunds(ctx context.Context, in *AddFundsRequest, opts ...grpc.CallOption) (*PaymentResponse, error) {
	out := new(PaymentResponse)
	if err := c.cc.Invoke(ctx, "/payment.Payment/AddFunds", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentClient) ProcessPayment(ctx context.Context, in *ProcessPaymentRequest, opts ...grpc.CallOption) (*PaymentResponse, error) {
	out := new(PaymentResponse)
	if err := c.cc.Invoke(ctx, "/payment.Payment/ProcessPayment", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentClient) VibeCheckTransactionStatus(ctx context.Context, in *VibeCheckRequest, opts ...grpc.CallOption) (*TransactionStatus, error) {
	out := new(TransactionStatus)
	if err := c.cc.Invoke(ctx, "/payment.Payment/VibeCheckTransactionStatus", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentClient) PrepareSnapshot(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error) {
	out := new(SuccessResponse)
	if err := c.cc.Invoke(ctx, "/payment.Payment/PrepareSnapshot", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentClient) CheckSnapshotReady(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error) {
	out := new(SuccessResponse)
	if err := c.cc.Invoke(ctx, "/payment.Payment/CheckSnapshotReady", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentClient) Snapshot(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error) {
	out := new(SuccessResponse)
	if err := c.cc.Invoke(ctx, "/payment.Payment/Snapshot", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentClient) Continue(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessResponse, error) {
	out := new(SuccessResponse)
	if err := c.cc.Invoke(ctx, "/payment.Payment/Continue", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Payment_FindUser_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FindUserRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).FindUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/payment.Payment/FindUser"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).FindUser(ctx, req.(*FindUserRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Payment_AddFunds_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddFundsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).AddFunds(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/payment.Payment/AddFunds"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).AddFunds(ctx, req.(*AddFundsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Payment_ProcessPayment_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ProcessPaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).ProcessPayment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/payment.Payment/ProcessPayment"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).ProcessPayment(ctx, req.(*ProcessPaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Payment_VibeCheckTransactionStatus_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(VibeCheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).VibeCheckTransactionStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/payment.Payment/VibeCheckTransactionStatus"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).VibeCheckTransactionStatus(ctx, req.(*VibeCheckRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Payment_PrepareSnapshot_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).PrepareSnapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/payment.Payment/PrepareSnapshot"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).PrepareSnapshot(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Payment_CheckSnapshotReady_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).CheckSnapshotReady(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/payment.Payment/CheckSnapshotReady"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).CheckSnapshotReady(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Payment_Snapshot_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/payment.Payment/Snapshot"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).Snapshot(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Payment_Continue_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).Continue(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/payment.Payment/Continue"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).Continue(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// PaymentServiceDesc is the hand-written equivalent of a generated
// _ServiceDesc for the Payment service.
var PaymentServiceDesc = grpc.ServiceDesc{
	ServiceName: "payment.Payment",
	HandlerType: (*PaymentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindUser", Handler: _Payment_FindUser_Handler},
		{MethodName: "AddFunds", Handler: _Payment_AddFunds_Handler},
		{MethodName: "ProcessPayment", Handler: _Payment_ProcessPayment_Handler},
		{MethodName: "VibeCheckTransactionStatus", Handler: _Payment_VibeCheckTransactionStatus_Handler},
		{MethodName: "PrepareSnapshot", Handler: _Payment_PrepareSnapshot_Handler},
		{MethodName: "CheckSnapshotReady", Handler: _Payment_CheckSnapshotReady_Handler},
		{MethodName: "Snapshot", Handler: _Payment_Snapshot_Handler},
		{MethodName: "Continue", Handler: _Payment_Continue_Handler},
	},
	Metadata: "payment.proto",
}

// RegisterPaymentServer registers srv on s under PaymentServiceDesc.
func RegisterPaymentServer(s grpc.ServiceRegistrar, srv PaymentServer) {
	s.RegisterService(&PaymentServiceDesc, srv)
}
