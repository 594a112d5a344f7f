package deliveryv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	CustomerService_PlaceOrder_FullMethodName        = "/delivery.v1.CustomerService/PlaceOrder"
	CustomerService_GetOrder_FullMethodName          = "/delivery.v1.CustomerService/GetOrder"
	CustomerService_ListOrders_FullMethodName        = "/delivery.v1.CustomerService/ListOrders"
	CustomerService_CancelOrder_FullMethodName       = "/delivery.v1.CustomerService/CancelOrder"
	CustomerService_ListCancelReasons_FullMethodName = "/delivery.v1.CustomerService/ListCancelReasons"
	CustomerService_GetLiveLocation_FullMethodName   = "/delivery.v1.CustomerService/GetLiveLocation"
	CustomerService_RequestReturn_FullMethodName     = "/delivery.v1.CustomerService/RequestReturn"
	CustomerService_ListReturns_FullMethodName       = "/delivery.v1.CustomerService/ListReturns"
)

// CustomerServiceServer is the server API of delivery.v1.CustomerService. It serves the customer app: ordering, polling, cancellation and returns.
type CustomerServiceServer interface {
	PlaceOrder(context.Context, *PlaceOrderRequest) (*OrderResponse, error)
	GetOrder(context.Context, *OrderIDRequest) (*GetOrderResponse, error)
	ListOrders(context.Context, *ListMyOrdersRequest) (*ListMyOrdersResponse, error)
	CancelOrder(context.Context, *CancelOrderRequest) (*OrderResponse, error)
	ListCancelReasons(context.Context, *ListCancelReasonsRequest) (*ListCancelReasonsResponse, error)
	GetLiveLocation(context.Context, *OrderIDRequest) (*LiveLocationResponse, error)
	RequestReturn(context.Context, *RequestReturnRequest) (*ReturnResponse, error)
	ListReturns(context.Context, *ListReturnsRequest) (*ListReturnsResponse, error)
}

// UnimplementedCustomerServiceServer answers every method with codes.Unimplemented.
type UnimplementedCustomerServiceServer struct{}

func (UnimplementedCustomerServiceServer) PlaceOrder(context.Context, *PlaceOrderRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PlaceOrder not implemented")
}

func (UnimplementedCustomerServiceServer) GetOrder(context.Context, *OrderIDRequest) (*GetOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOrder not implemented")
}

func (UnimplementedCustomerServiceServer) ListOrders(context.Context, *ListMyOrdersRequest) (*ListMyOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListOrders not implemented")
}

func (UnimplementedCustomerServiceServer) CancelOrder(context.Context, *CancelOrderRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelOrder not implemented")
}

func (UnimplementedCustomerServiceServer) ListCancelReasons(context.Context, *ListCancelReasonsRequest) (*ListCancelReasonsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCancelReasons not implemented")
}

func (UnimplementedCustomerServiceServer) GetLiveLocation(context.Context, *OrderIDRequest) (*LiveLocationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLiveLocation not implemented")
}

func (UnimplementedCustomerServiceServer) RequestReturn(context.Context, *RequestReturnRequest) (*ReturnResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RequestReturn not implemented")
}

func (UnimplementedCustomerServiceServer) ListReturns(context.Context, *ListReturnsRequest) (*ListReturnsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReturns not implemented")
}

var CustomerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "delivery.v1.CustomerService",
	HandlerType: (*CustomerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PlaceOrder", Handler: unary(CustomerService_PlaceOrder_FullMethodName, func(srv any, ctx context.Context, in *PlaceOrderRequest) (*OrderResponse, error) {
			return srv.(CustomerServiceServer).PlaceOrder(ctx, in)
		})},
		{MethodName: "GetOrder", Handler: unary(CustomerService_GetOrder_FullMethodName, func(srv any, ctx context.Context, in *OrderIDRequest) (*GetOrderResponse, error) {
			return srv.(CustomerServiceServer).GetOrder(ctx, in)
		})},
		{MethodName: "ListOrders", Handler: unary(CustomerService_ListOrders_FullMethodName, func(srv any, ctx context.Context, in *ListMyOrdersRequest) (*ListMyOrdersResponse, error) {
			return srv.(CustomerServiceServer).ListOrders(ctx, in)
		})},
		{MethodName: "CancelOrder", Handler: unary(CustomerService_CancelOrder_FullMethodName, func(srv any, ctx context.Context, in *CancelOrderRequest) (*OrderResponse, error) {
			return srv.(CustomerServiceServer).CancelOrder(ctx, in)
		})},
		{MethodName: "ListCancelReasons", Handler: unary(CustomerService_ListCancelReasons_FullMethodName, func(srv any, ctx context.Context, in *ListCancelReasonsRequest) (*ListCancelReasonsResponse, error) {
			return srv.(CustomerServiceServer).ListCancelReasons(ctx, in)
		})},
		{MethodName: "GetLiveLocation", Handler: unary(CustomerService_GetLiveLocation_FullMethodName, func(srv any, ctx context.Context, in *OrderIDRequest) (*LiveLocationResponse, error) {
			return srv.(CustomerServiceServer).GetLiveLocation(ctx, in)
		})},
		{MethodName: "RequestReturn", Handler: unary(CustomerService_RequestReturn_FullMethodName, func(srv any, ctx context.Context, in *RequestReturnRequest) (*ReturnResponse, error) {
			return srv.(CustomerServiceServer).RequestReturn(ctx, in)
		})},
		{MethodName: "ListReturns", Handler: unary(CustomerService_ListReturns_FullMethodName, func(srv any, ctx context.Context, in *ListReturnsRequest) (*ListReturnsResponse, error) {
			return srv.(CustomerServiceServer).ListReturns(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "delivery/v1/customer.json",
}

func RegisterCustomerServiceServer(s grpc.ServiceRegistrar, srv CustomerServiceServer) {
	s.RegisterService(&CustomerService_ServiceDesc, srv)
}

type CustomerServiceClient interface {
	PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	GetOrder(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*GetOrderResponse, error)
	ListOrders(ctx context.Context, in *ListMyOrdersRequest, opts ...grpc.CallOption) (*ListMyOrdersResponse, error)
	CancelOrder(ctx context.Context, in *CancelOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	ListCancelReasons(ctx context.Context, in *ListCancelReasonsRequest, opts ...grpc.CallOption) (*ListCancelReasonsResponse, error)
	GetLiveLocation(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*LiveLocationResponse, error)
	RequestReturn(ctx context.Context, in *RequestReturnRequest, opts ...grpc.CallOption) (*ReturnResponse, error)
	ListReturns(ctx context.Context, in *ListReturnsRequest, opts ...grpc.CallOption) (*ListReturnsResponse, error)
}

type customerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCustomerServiceClient(cc grpc.ClientConnInterface) CustomerServiceClient {
	return &customerServiceClient{cc: cc}
}

func (c *customerServiceClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, CustomerService_PlaceOrder_FullMethodName, in, opts)
}

func (c *customerServiceClient) GetOrder(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*GetOrderResponse, error) {
	return invoke[GetOrderResponse](ctx, c.cc, CustomerService_GetOrder_FullMethodName, in, opts)
}

func (c *customerServiceClient) ListOrders(ctx context.Context, in *ListMyOrdersRequest, opts ...grpc.CallOption) (*ListMyOrdersResponse, error) {
	return invoke[ListMyOrdersResponse](ctx, c.cc, CustomerService_ListOrders_FullMethodName, in, opts)
}

func (c *customerServiceClient) CancelOrder(ctx context.Context, in *CancelOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, CustomerService_CancelOrder_FullMethodName, in, opts)
}

func (c *customerServiceClient) ListCancelReasons(ctx context.Context, in *ListCancelReasonsRequest, opts ...grpc.CallOption) (*ListCancelReasonsResponse, error) {
	return invoke[ListCancelReasonsResponse](ctx, c.cc, CustomerService_ListCancelReasons_FullMethodName, in, opts)
}

func (c *customerServiceClient) GetLiveLocation(ctx context.Context, in *OrderIDRequest, opts ...grpc.CallOption) (*LiveLocationResponse, error) {
	return invoke[LiveLocationResponse](ctx, c.cc, CustomerService_GetLiveLocation_FullMethodName, in, opts)
}

func (c *customerServiceClient) RequestReturn(ctx context.Context, in *RequestReturnRequest, opts ...grpc.CallOption) (*ReturnResponse, error) {
	return invoke[ReturnResponse](ctx, c.cc, CustomerService_RequestReturn_FullMethodName, in, opts)
}

func (c *customerServiceClient) ListReturns(ctx context.Context, in *ListReturnsRequest, opts ...grpc.CallOption) (*ListReturnsResponse, error) {
	return invoke[ListReturnsResponse](ctx, c.cc, CustomerService_ListReturns_FullMethodName, in, opts)
}
