package grpcserver

import (
	"context"
	"slices"

	deliveryv1 "riderDelivery/api/deliveryv1"
	"riderDelivery/models"
)

// CustomerServer implements delivery.v1.CustomerService.
type CustomerServer struct {
	deliveryv1.UnimplementedCustomerServiceServer
	Deps
}

// PlaceOrder stores a new order for the caller.
func (s *CustomerServer) PlaceOrder(ctx context.Context, req *deliveryv1.PlaceOrderRequest) (*deliveryv1.OrderResponse, error) {
	u, err := s.currentCustomer(ctx)
	if err != nil {
		return nil, err
	}
	o, err := s.Orders.Place(ctx, &models.Order{
		CustomerID:           u.ID,
		ItemsPrice:           req.ItemsPrice,
		ShippingPrice:        req.ShippingPrice,
		ShippingExtraPrice:   req.ShippingExtraPrice,
		CouponDiscountAmount: req.CouponDiscountAmount,
		TotalPrice:           req.TotalPrice,
		PaymentMethod:        models.PaymentMethod(req.PaymentMethod),
		DeliverySpeed:        models.DeliverySpeed(req.DeliverySpeed),
		ShopLat:              req.Shop.Lat,
		ShopLng:              req.Shop.Lng,
		ShippingLat:          req.Shipping.Lat,
		ShippingLng:          req.Shipping.Lng,
	})
	if err != nil {
		return nil, err
	}
	return &deliveryv1.OrderResponse{Order: o}, nil
}

// GetOrder is the polled order detail. PollIntervalMs drops to zero once the order is terminal.
func (s *CustomerServer) GetOrder(ctx context.Context, req *deliveryv1.OrderIDRequest) (*deliveryv1.GetOrderResponse, error) {
	u, err := s.currentCustomer(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.Orders.Detail(ctx, u.ID, req.OrderID)
	if err != nil {
		return nil, err
	}
	resp := &deliveryv1.GetOrderResponse{Detail: d}
	if !d.Order.DeliveryStatus.Terminal() {
		resp.PollIntervalMs = pollMs(s.Polling.OrderInterval)
	}
	return resp, nil
}

func (s *CustomerServer) ListOrders(ctx context.Context, _ *deliveryv1.ListMyOrdersRequest) (*deliveryv1.ListMyOrdersResponse, error) {
	u, err := s.currentCustomer(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.Orders.ListForCustomer(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ListMyOrdersResponse{Orders: list}, nil
}

// CancelOrder cancels an order nobody has accepted yet.
func (s *CustomerServer) CancelOrder(ctx context.Context, req *deliveryv1.CancelOrderRequest) (*deliveryv1.OrderResponse, error) {
	u, err := s.currentCustomer(ctx)
	if err != nil {
		return nil, err
	}
	o, err := s.Orders.Cancel(ctx, u.ID, req.OrderID, req.Reason, req.Detail)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.OrderResponse{Order: o}, nil
}

func (s *CustomerServer) ListCancelReasons(ctx context.Context, _ *deliveryv1.ListCancelReasonsRequest) (*deliveryv1.ListCancelReasonsResponse, error) {
	if _, err := s.currentCustomer(ctx); err != nil {
		return nil, err
	}
	return &deliveryv1.ListCancelReasonsResponse{Reasons: slices.Clone(models.CancelReasons)}, nil
}

// GetLiveLocation answers the tracking poll. Terminal orders come back closed with PollIntervalMs 0.
func (s *CustomerServer) GetLiveLocation(ctx context.Context, req *deliveryv1.OrderIDRequest) (*deliveryv1.LiveLocationResponse, error) {
	u, err := s.currentCustomer(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := s.Relay.Poll(ctx, u.ID, req.OrderID)
	if err != nil {
		return nil, err
	}
	return s.locationResponse(loc), nil
}

func (s *CustomerServer) RequestReturn(ctx context.Context, req *deliveryv1.RequestReturnRequest) (*deliveryv1.ReturnResponse, error) {
	u, err := s.currentCustomer(ctx)
	if err != nil {
		return nil, err
	}
	rr, err := s.Returns.RequestReturn(ctx, u.ID, req.OrderID, req.Reason)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ReturnResponse{Return: rr}, nil
}

func (s *CustomerServer) ListReturns(ctx context.Context, _ *deliveryv1.ListReturnsRequest) (*deliveryv1.ListReturnsResponse, error) {
	u, err := s.currentCustomer(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.Returns.ListForCustomer(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ListReturnsResponse{Returns: list}, nil
}

func (d Deps) locationResponse(loc *models.LiveLocation) *deliveryv1.LiveLocationResponse {
	resp := &deliveryv1.LiveLocationResponse{Location: loc}
	if loc.State != models.TrackingClosed {
		resp.PollIntervalMs = pollMs(d.Polling.LocationInterval)
	}
	return resp
}
