package deliveryv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	RiderService_ListOrders_FullMethodName                = "/delivery.v1.RiderService/ListOrders"
	RiderService_ClaimOrder_FullMethodName                = "/delivery.v1.RiderService/ClaimOrder"
	RiderService_DepartOrder_FullMethodName               = "/delivery.v1.RiderService/DepartOrder"
	RiderService_DeliverOrder_FullMethodName              = "/delivery.v1.RiderService/DeliverOrder"
	RiderService_FailOrder_FullMethodName                 = "/delivery.v1.RiderService/FailOrder"
	RiderService_ReportLocation_FullMethodName            = "/delivery.v1.RiderService/ReportLocation"
	RiderService_GetWallet_FullMethodName                 = "/delivery.v1.RiderService/GetWallet"
	RiderService_RequestPayout_FullMethodName             = "/delivery.v1.RiderService/RequestPayout"
	RiderService_ListPickups_FullMethodName               = "/delivery.v1.RiderService/ListPickups"
	RiderService_MarkReturnPickedUp_FullMethodName        = "/delivery.v1.RiderService/MarkReturnPickedUp"
	RiderService_MarkReturnDeliveredToShop_FullMethodName = "/delivery.v1.RiderService/MarkReturnDeliveredToShop"
)

// RiderServiceServer is the server API of delivery.v1.RiderService. It serves the rider app: order list, delivery actions, location reports, wallet and return pickups.
type RiderServiceServer interface {
	ListOrders(context.Context, *ListRiderOrdersRequest) (*ListRiderOrdersResponse, error)
	ClaimOrder(context.Context, *OrderIDRequest) (*AssignmentResponse, error)
	DepartOrder(context.Context, *DepartOrderRequest) (*OrderResponse, error)
	DeliverOrder(context.Context, *OrderIDRequest) (*DeliverOrderResponse, error)
	FailOrder(context.Context, *FailOrderRequest) (*OrderResponse, error)
	ReportLocation(context.Context, *ReportLocationRequest) (*LiveLocationResponse, error)
	GetWallet(context.Context, *GetWalletRequest) (*GetWalletResponse, error)
	RequestPayout(context.Context, *RequestPayoutRequest) (*RequestPayoutResponse, error)
	ListPickups(context.Context, *ListReturnsRequest) (*ListReturnsResponse, error)
	MarkReturnPickedUp(context.Context, *ReturnIDRequest) (*ReturnResponse, error)
	MarkReturnDeliveredToShop(context.Context, *ReturnIDRequest) (*ReturnResponse, error)
}

// UnimplementedRiderServiceServer answers every method with codes.Unimplemented.
type UnimplementedRiderServiceServer struct{}

func (UnimplementedRiderServiceServer) ListOrders(context.Context, *ListRiderOrdersRequest) (*ListRiderOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListOrders not implemented")
}

func (UnimplementedRiderServiceServer) ClaimOrder(context.Context, *OrderIDRequest) (*AssignmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClaimOrder not implemented")
}

func (UnimplementedRiderServiceServer) DepartOrder(context.Context, *DepartOrderRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DepartOrder not implemented")
}

func (UnimplementedRiderServiceServer) DeliverOrder(context.Context, *OrderIDRequest) (*DeliverOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeliverOrder not implemented")
}

func (UnimplementedRiderServiceServer) FailOrder(context.Context, *FailOrderRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FailOrder not implemented")
}

func (UnimplementedRiderServiceServer) ReportLocation(context.Context, *ReportLocationRequest) (*LiveLocationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReportLocation not implemented")
}

func (UnimplementedRiderServiceServer) GetWallet(context.Context, *GetWalletRequest) (*GetWalletResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWallet not implemented")
}

func (UnimplementedRiderServiceServer) RequestPayout(context.Context, *RequestPayoutRequest) (*RequestPayoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RequestPayout not implemented")
}

func (UnimplementedRiderServiceServer) ListPickups(context.Context, *ListReturnsRequest) (*ListReturnsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPickups not implemented")
}

func (UnimplementedRiderServiceServer) MarkReturnPickedUp(context.Context, *ReturnIDRequest) (*ReturnResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkReturnPickedUp not implemented")
}

func (UnimplementedRiderServiceServer) MarkReturnDeliveredToShop(context.Context, *ReturnIDRequest) (*ReturnResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkReturnDeliveredToShop not implemented")
}

var RiderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "delivery.v1.RiderService",
	HandlerType: (*RiderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListOrders", Handler: unary(RiderService_ListOrders_FullMethodName, func(srv any, ctx context.Context, in *ListRiderOrdersRequest) (*ListRiderOrdersResponse, error) {
			return srv.(RiderServiceServer).ListOrders(ctx, in)
		})},
		{MethodName: "ClaimOrder", Handler: unary(RiderService_ClaimOrder_FullMethodName, func(srv any, ctx context.Context, in *OrderIDRequest) (*AssignmentResponse, error) {
			return srv.(RiderServiceServer).ClaimOrder(ctx, in)
		})},
		{MethodName: "DepartOrder", Handler: unary(RiderService_DepartOrder_FullMethodName, func(srv any, ctx context.Context, in *DepartOrderRequest) (*OrderResponse, error) {
			return srv.(RiderServiceServer).DepartOrder(ctx, in)
		})},
		{MethodName: "DeliverOrder", Handler: unary(RiderService_DeliverOrder_FullMethodName, func(srv any, ctx context.Context, in *OrderIDRequest) (*DeliverOrderResponse, error) {
			return srv.(RiderServiceServer).DeliverOrder(ctx, in)
		})},
		{MethodName: "FailOrder", Handler: unary(RiderService_FailOrder_FullMethodName, func(srv any, ctx context.Context, in *FailOrderRequest) (*OrderResponse, error) {
			return srv.(RiderServiceServer).FailOrder(ctx, in)
		})},
		{MethodName: "ReportLocation", Handler: unary(RiderService_ReportLocation_FullMethodName, func(srv any, ctx context.Context, in *ReportLocationRequest) (*LiveLocationResponse, error) {
			return srv.(RiderServiceServer).ReportLocation(ctx, in)
		})},
		{MethodName: "GetWallet", Handler: unary(RiderService_GetWallet_FullMethodName, func(srv any, ctx context.Context, in *GetWalletRequest) (*GetWalletResponse, error) {
			return srv.(RiderServiceServer).GetWallet(ctx, in)
		})},
		{MethodName: "RequestPayout", Handler: unary(RiderService_RequestPayout_FullMethodName, func(srv any, ctx context.Context, in *RequestPayoutRequest) (*RequestPayoutResponse, error) {
			return srv.(RiderServiceServer).RequestPayout(ctx, in)
		})},
		{MethodName: "ListPickups", Handler: unary(RiderService_ListPickups_FullMethodName, func(srv any, ctx context.Context, in *ListReturnsRequest) (*ListReturnsResponse, error) {
			return srv.(RiderServiceServer).ListPickups(ctx, in)
		})},
		{MethodName: "MarkReturnPickedUp", Handler: unary(RiderService_MarkReturnPickedUp_FullMethodName, func(srv any, ctx context.Context, in *ReturnIDRequest) (*ReturnResponse, error) {
			return srv.(RiderServiceServer).MarkReturnPickedUp(ctx, in)
		})},
		{MethodName: "MarkReturnDeliveredToShop", Handler: unary(RiderService_MarkReturnDeliveredToShop_FullMethodName, func(srv any, ctx context.Context, in *ReturnIDRequest) (*ReturnResponse, error) {
			return srv.(RiderServiceServer).MarkReturnDeliveredToShop(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "delivery/v1/rider.json",
}

func RegisterRiderServiceServer(s grpc.ServiceRegistrar, srv RiderServiceServer) {
	s.RegisterService(&RiderService_ServiceDesc, srv)
}

type RiderServiceClient interface {
	ListOrders(ctx context.Context, in *ListRiderOrdersRequest, opts ...grpc.CallOption) (*ListRiderOrdersResponse, error)
	ClaimOrder(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*AssignmentResponse, error)
	DepartOrder(ctx context.Context, in *DepartOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	DeliverOrder(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*DeliverOrderResponse, error)
	FailOrder(ctx context.Context, in *FailOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	ReportLocation(ctx context.Context, in *ReportLocationRequest, opts ...grpc.CallOption) (*LiveLocationResponse, error)
	GetWallet(ctx context.Context, in *GetWalletRequest, opts ...grpc.CallOption) (*GetWalletResponse, error)
	RequestPayout(ctx context.Context, in *RequestPayoutRequest, opts ...grpc.CallOption) (*RequestPayoutResponse, error)
	ListPickups(ctx context.Context, in *ListReturnsRequest, opts ...grpc.CallOption) (*ListReturnsResponse, error)
	MarkReturnPickedUp(ctx context.Context, in *ReturnIDRequest, opts ...grpc.CallOption) (*ReturnResponse, error)
	MarkReturnDeliveredToShop(ctx context.Context, in *ReturnIDRequest, opts ...grpc.CallOption) (*ReturnResponse, error)
}

type riderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRiderServiceClient(cc grpc.ClientConnInterface) RiderServiceClient {
	return &riderServiceClient{cc: cc}
}

func (c *riderServiceClient) ListOrders(ctx context.Context, in *ListRiderOrdersRequest, opts ...grpc.CallOption) (*ListRiderOrdersResponse, error) {
	return invoke[ListRiderOrdersResponse](ctx, c.cc, RiderService_ListOrders_FullMethodName, in, opts)
}

func (c *riderServiceClient) ClaimOrder(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*AssignmentResponse, error) {
	return invoke[AssignmentResponse](ctx, c.cc, RiderService_ClaimOrder_FullMethodName, in, opts)
}

func (c *riderServiceClient) DepartOrder(ctx context.Context, in *DepartOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, RiderService_DepartOrder_FullMethodName, in, opts)
}

func (c *riderServiceClient) DeliverOrder(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*DeliverOrderResponse, error) {
	return invoke[DeliverOrderResponse](ctx, c.cc, RiderService_DeliverOrder_FullMethodName, in, opts)
}

func (c *riderServiceClient) FailOrder(ctx context.Context, in *FailOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, RiderService_FailOrder_FullMethodName, in, opts)
}

func (c *riderServiceClient) ReportLocation(ctx context.Context, in *ReportLocationRequest, opts ...grpc.CallOption) (*LiveLocationResponse, error) {
	return invoke[LiveLocationResponse](ctx, c.cc, RiderService_ReportLocation_FullMethodName, in, opts)
}

func (c *riderServiceClient) GetWallet(ctx context.Context, in *GetWalletRequest, opts ...grpc.CallOption) (*GetWalletResponse, error) {
	return invoke[GetWalletResponse](ctx, c.cc, RiderService_GetWallet_FullMethodName, in, opts)
}

func (c *riderServiceClient) RequestPayout(ctx context.Context, in *RequestPayoutRequest, opts ...grpc.CallOption) (*RequestPayoutResponse, error) {
	return invoke[RequestPayoutResponse](ctx, c.cc, RiderService_RequestPayout_FullMethodName, in, opts)
}

func (c *riderServiceClient) ListPickups(ctx context.Context, in *ListReturnsRequest, opts ...grpc.CallOption) (*ListReturnsResponse, error) {
	return invoke[ListReturnsResponse](ctx, c.cc, RiderService_ListPickups_FullMethodName, in, opts)
}

func (c *riderServiceClient) MarkReturnPickedUp(ctx context.Context, in *ReturnIDRequest, opts ...grpc.CallOption) (*ReturnResponse, error) {
	return invoke[ReturnResponse](ctx, c.cc, RiderService_MarkReturnPickedUp_FullMethodName, in, opts)
}

func (c *riderServiceClient) MarkReturnDeliveredToShop(ctx context.Context, in *ReturnIDRequest, opts ...grpc.CallOption) (*ReturnResponse, error) {
	return invoke[ReturnResponse](ctx, c.cc, RiderService_MarkReturnDeliveredToShop_FullMethodName, in, opts)
}
