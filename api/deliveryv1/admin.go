package deliveryv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	AdminService_ListOrders_FullMethodName         = "/delivery.v1.AdminService/ListOrders"
	AdminService_CancelOrder_FullMethodName        = "/delivery.v1.AdminService/CancelOrder"
	AdminService_FailOrder_FullMethodName          = "/delivery.v1.AdminService/FailOrder"
	AdminService_ReassignOrder_FullMethodName      = "/delivery.v1.AdminService/ReassignOrder"
	AdminService_InspectLocation_FullMethodName    = "/delivery.v1.AdminService/InspectLocation"
	AdminService_ListReturns_FullMethodName        = "/delivery.v1.AdminService/ListReturns"
	AdminService_AcceptReturn_FullMethodName       = "/delivery.v1.AdminService/AcceptReturn"
	AdminService_AssignReturnPickup_FullMethodName = "/delivery.v1.AdminService/AssignReturnPickup"
	AdminService_RejectReturn_FullMethodName       = "/delivery.v1.AdminService/RejectReturn"
	AdminService_MarkRefunded_FullMethodName       = "/delivery.v1.AdminService/MarkRefunded"
	AdminService_GetRiderOverview_FullMethodName   = "/delivery.v1.AdminService/GetRiderOverview"
	AdminService_ListRiderBalances_FullMethodName  = "/delivery.v1.AdminService/ListRiderBalances"
	AdminService_VerifyRider_FullMethodName        = "/delivery.v1.AdminService/VerifyRider"
)

// AdminServiceServer is the server API of delivery.v1.AdminService. It serves operations staff: order oversight, returns and refunds, and the rider cash dashboard.
type AdminServiceServer interface {
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	CancelOrder(context.Context, *AdminCancelOrderRequest) (*OrderResponse, error)
	FailOrder(context.Context, *FailOrderRequest) (*OrderResponse, error)
	ReassignOrder(context.Context, *ReassignOrderRequest) (*AssignmentResponse, error)
	InspectLocation(context.Context, *OrderIDRequest) (*LiveLocationResponse, error)
	ListReturns(context.Context, *ListReturnsRequest) (*ListReturnsResponse, error)
	AcceptReturn(context.Context, *AcceptReturnRequest) (*ReturnResponse, error)
	AssignReturnPickup(context.Context, *AssignPickupRequest) (*ReturnResponse, error)
	RejectReturn(context.Context, *RejectReturnRequest) (*ReturnResponse, error)
	MarkRefunded(context.Context, *MarkRefundedRequest) (*ReturnResponse, error)
	GetRiderOverview(context.Context, *GetRiderOverviewRequest) (*GetRiderOverviewResponse, error)
	ListRiderBalances(context.Context, *ListRiderBalancesRequest) (*ListRiderBalancesResponse, error)
	VerifyRider(context.Context, *VerifyRiderRequest) (*VerifyRiderResponse, error)
}

// UnimplementedAdminServiceServer answers every method with codes.Unimplemented.
type UnimplementedAdminServiceServer struct{}

func (UnimplementedAdminServiceServer) ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListOrders not implemented")
}

func (UnimplementedAdminServiceServer) CancelOrder(context.Context, *AdminCancelOrderRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelOrder not implemented")
}

func (UnimplementedAdminServiceServer) FailOrder(context.Context, *FailOrderRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FailOrder not implemented")
}

func (UnimplementedAdminServiceServer) ReassignOrder(context.Context, *ReassignOrderRequest) (*AssignmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReassignOrder not implemented")
}

func (UnimplementedAdminServiceServer) InspectLocation(context.Context, *OrderIDRequest) (*LiveLocationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method InspectLocation not implemented")
}

func (UnimplementedAdminServiceServer) ListReturns(context.Context, *ListReturnsRequest) (*ListReturnsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReturns not implemented")
}

func (UnimplementedAdminServiceServer) AcceptReturn(context.Context, *AcceptReturnRequest) (*ReturnResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AcceptReturn not implemented")
}

func (UnimplementedAdminServiceServer) AssignReturnPickup(context.Context, *AssignPickupRequest) (*ReturnResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AssignReturnPickup not implemented")
}

func (UnimplementedAdminServiceServer) RejectReturn(context.Context, *RejectReturnRequest) (*ReturnResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RejectReturn not implemented")
}

func (UnimplementedAdminServiceServer) MarkRefunded(context.Context, *MarkRefundedRequest) (*ReturnResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkRefunded not implemented")
}

func (UnimplementedAdminServiceServer) GetRiderOverview(context.Context, *GetRiderOverviewRequest) (*GetRiderOverviewResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRiderOverview not implemented")
}

func (UnimplementedAdminServiceServer) ListRiderBalances(context.Context, *ListRiderBalancesRequest) (*ListRiderBalancesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRiderBalances not implemented")
}

func (UnimplementedAdminServiceServer) VerifyRider(context.Context, *VerifyRiderRequest) (*VerifyRiderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyRider not implemented")
}

var AdminService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "delivery.v1.AdminService",
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListOrders", Handler: unary(AdminService_ListOrders_FullMethodName, func(srv any, ctx context.Context, in *ListOrdersRequest) (*ListOrdersResponse, error) {
			return srv.(AdminServiceServer).ListOrders(ctx, in)
		})},
		{MethodName: "CancelOrder", Handler: unary(AdminService_CancelOrder_FullMethodName, func(srv any, ctx context.Context, in *AdminCancelOrderRequest) (*OrderResponse, error) {
			return srv.(AdminServiceServer).CancelOrder(ctx, in)
		})},
		{MethodName: "FailOrder", Handler: unary(AdminService_FailOrder_FullMethodName, func(srv any, ctx context.Context, in *FailOrderRequest) (*OrderResponse, error) {
			return srv.(AdminServiceServer).FailOrder(ctx, in)
		})},
		{MethodName: "ReassignOrder", Handler: unary(AdminService_ReassignOrder_FullMethodName, func(srv any, ctx context.Context, in *ReassignOrderRequest) (*AssignmentResponse, error) {
			return srv.(AdminServiceServer).ReassignOrder(ctx, in)
		})},
		{MethodName: "InspectLocation", Handler: unary(AdminService_InspectLocation_FullMethodName, func(srv any, ctx context.Context, in *OrderIDRequest) (*LiveLocationResponse, error) {
			return srv.(AdminServiceServer).InspectLocation(ctx, in)
		})},
		{MethodName: "ListReturns", Handler: unary(AdminService_ListReturns_FullMethodName, func(srv any, ctx context.Context, in *ListReturnsRequest) (*ListReturnsResponse, error) {
			return srv.(AdminServiceServer).ListReturns(ctx, in)
		})},
		{MethodName: "AcceptReturn", Handler: unary(AdminService_AcceptReturn_FullMethodName, func(srv any, ctx context.Context, in *AcceptReturnRequest) (*ReturnResponse, error) {
			return srv.(AdminServiceServer).AcceptReturn(ctx, in)
		})},
		{MethodName: "AssignReturnPickup", Handler: unary(AdminService_AssignReturnPickup_FullMethodName, func(srv any, ctx context.Context, in *AssignPickupRequest) (*ReturnResponse, error) {
			return srv.(AdminServiceServer).AssignReturnPickup(ctx, in)
		})},
		{MethodName: "RejectReturn", Handler: unary(AdminService_RejectReturn_FullMethodName, func(srv any, ctx context.Context, in *RejectReturnRequest) (*ReturnResponse, error) {
			return srv.(AdminServiceServer).RejectReturn(ctx, in)
		})},
		{MethodName: "MarkRefunded", Handler: unary(AdminService_MarkRefunded_FullMethodName, func(srv any, ctx context.Context, in *MarkRefundedRequest) (*ReturnResponse, error) {
			return srv.(AdminServiceServer).MarkRefunded(ctx, in)
		})},
		{MethodName: "GetRiderOverview", Handler: unary(AdminService_GetRiderOverview_FullMethodName, func(srv any, ctx context.Context, in *GetRiderOverviewRequest) (*GetRiderOverviewResponse, error) {
			return srv.(AdminServiceServer).GetRiderOverview(ctx, in)
		})},
		{MethodName: "ListRiderBalances", Handler: unary(AdminService_ListRiderBalances_FullMethodName, func(srv any, ctx context.Context, in *ListRiderBalancesRequest) (*ListRiderBalancesResponse, error) {
			return srv.(AdminServiceServer).ListRiderBalances(ctx, in)
		})},
		{MethodName: "VerifyRider", Handler: unary(AdminService_VerifyRider_FullMethodName, func(srv any, ctx context.Context, in *VerifyRiderRequest) (*VerifyRiderResponse, error) {
			return srv.(AdminServiceServer).VerifyRider(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "delivery/v1/admin.json",
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminService_ServiceDesc, srv)
}

type AdminServiceClient interface {
	ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error)
	CancelOrder(ctx context.Context, in *AdminCancelOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	FailOrder(ctx context.Context, in *FailOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	ReassignOrder(ctx context.Context, in *ReassignOrderRequest, opts ...grpc.CallOption) (*AssignmentResponse, error)
	InspectLocation(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*LiveLocationResponse, error)
	ListReturns(ctx context.Context, in *ListReturnsRequest, opts ...grpc.CallOption) (*ListReturnsResponse, error)
	AcceptReturn(ctx context.Context, in *AcceptReturnRequest, opts ...grpc.CallOption) (*ReturnResponse, error)
	AssignReturnPickup(ctx context.Context, in *AssignPickupRequest, opts ...grpc.CallOption) (*ReturnResponse, error)
	RejectReturn(ctx context.Context, in *RejectReturnRequest, opts ...grpc.CallOption) (*ReturnResponse, error)
	MarkRefunded(ctx context.Context, in *MarkRefundedRequest, opts ...grpc.CallOption) (*ReturnResponse, error)
	GetRiderOverview(ctx context.Context, in *GetRiderOverviewRequest, opts ...grpc.CallOption) (*GetRiderOverviewResponse, error)
	ListRiderBalances(ctx context.Context, in *ListRiderBalancesRequest, opts ...grpc.CallOption) (*ListRiderBalancesResponse, error)
	VerifyRider(ctx context.Context, in *VerifyRiderRequest, opts ...grpc.CallOption) (*VerifyRiderResponse, error)
}

type adminServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminServiceClient(cc grpc.ClientConnInterface) AdminServiceClient {
	return &adminServiceClient{cc: cc}
}

func (c *adminServiceClient) ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, AdminService_ListOrders_FullMethodName, in, opts)
}

func (c *adminServiceClient) CancelOrder(ctx context.Context, in *AdminCancelOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, AdminService_CancelOrder_FullMethodName, in, opts)
}

func (c *adminServiceClient) FailOrder(ctx context.Context, in *FailOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, AdminService_FailOrder_FullMethodName, in, opts)
}

func (c *adminServiceClient) ReassignOrder(ctx context.Context, in *ReassignOrderRequest, opts ...grpc.CallOption) (*AssignmentResponse, error) {
	return invoke[AssignmentResponse](ctx, c.cc, AdminService_ReassignOrder_FullMethodName, in, opts)
}

func (c *adminServiceClient) InspectLocation(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*LiveLocationResponse, error) {
	return invoke[LiveLocationResponse](ctx, c.cc, AdminService_InspectLocation_FullMethodName, in, opts)
}

func (c *adminServiceClient) ListReturns(ctx context.Context, in *ListReturnsRequest, opts ...grpc.CallOption) (*ListReturnsResponse, error) {
	return invoke[ListReturnsResponse](ctx, c.cc, AdminService_ListReturns_FullMethodName, in, opts)
}

func (c *adminServiceClient) AcceptReturn(ctx context.Context, in *AcceptReturnRequest, opts ...grpc.CallOption) (*ReturnResponse, error) {
	return invoke[ReturnResponse](ctx, c.cc, AdminService_AcceptReturn_FullMethodName, in, opts)
}

func (c *adminServiceClient) AssignReturnPickup(ctx context.Context, in *AssignPickupRequest, opts ...grpc.CallOption) (*ReturnResponse, error) {
	return invoke[ReturnResponse](ctx, c.cc, AdminService_AssignReturnPickup_FullMethodName, in, opts)
}

func (c *adminServiceClient) RejectReturn(ctx context.Context, in *RejectReturnRequest, opts ...grpc.CallOption) (*ReturnResponse, error) {
	return invoke[ReturnResponse](ctx, c.cc, AdminService_RejectReturn_FullMethodName, in, opts)
}

func (c *adminServiceClient) MarkRefunded(ctx context.Context, in *MarkRefundedRequest, opts ...grpc.CallOption) (*ReturnResponse, error) {
	return invoke[ReturnResponse](ctx, c.cc, AdminService_MarkRefunded_FullMethodName, in, opts)
}

func (c *adminServiceClient) GetRiderOverview(ctx context.Context, in *GetRiderOverviewRequest, opts ...grpc.CallOption) (*GetRiderOverviewResponse, error) {
	return invoke[GetRiderOverviewResponse](ctx, c.cc, AdminService_GetRiderOverview_FullMethodName, in, opts)
}

func (c *adminServiceClient) ListRiderBalances(ctx context.Context, in *ListRiderBalancesRequest, opts ...grpc.CallOption) (*ListRiderBalancesResponse, error) {
	return invoke[ListRiderBalancesResponse](ctx, c.cc, AdminService_ListRiderBalances_FullMethodName, in, opts)
}

func (c *adminServiceClient) VerifyRider(ctx context.Context, in *VerifyRiderRequest, opts ...grpc.CallOption) (*VerifyRiderResponse, error) {
	return invoke[VerifyRiderResponse](ctx, c.cc, AdminService_VerifyRider_FullMethodName, in, opts)
}
