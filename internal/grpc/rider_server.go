package grpcserver

import (
	"context"

	deliveryv1 "riderDelivery/api/deliveryv1"
	"riderDelivery/models"
)

// RiderServer implements delivery.v1.RiderService. Every call acts on behalf of the
// rider named in the token.
type RiderServer struct {
	deliveryv1.UnimplementedRiderServiceServer
	Deps
}

// ListOrders returns the rider home screen and the cadence to refresh it at.
func (s *RiderServer) ListOrders(ctx context.Context, _ *deliveryv1.ListRiderOrdersRequest) (*deliveryv1.ListRiderOrdersResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	home, err := s.Orders.RiderOrders(ctx, rd.ID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ListRiderOrdersResponse{Orders: home, PollIntervalMs: pollMs(s.Polling.RiderInterval)}, nil
}

func (s *RiderServer) ClaimOrder(ctx context.Context, req *deliveryv1.OrderIDRequest) (*deliveryv1.AssignmentResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.Orders.Claim(ctx, rd.ID, req.OrderID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.AssignmentResponse{Assignment: a}, nil
}

func (s *RiderServer) DepartOrder(ctx context.Context, req *deliveryv1.DepartOrderRequest) (*deliveryv1.OrderResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	o, err := s.Orders.Depart(ctx, rd.ID, req.OrderID, models.DeliveryStatus(req.Status))
	if err != nil {
		return nil, err
	}
	return &deliveryv1.OrderResponse{Order: o}, nil
}

// DeliverOrder confirms delivery. Repeating the call reports Repeated instead of failing.
func (s *RiderServer) DeliverOrder(ctx context.Context, req *deliveryv1.OrderIDRequest) (*deliveryv1.DeliverOrderResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.Orders.MarkDelivered(ctx, rd.ID, req.OrderID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.DeliverOrderResponse{Order: out.Order, COD: out.COD, Repeated: out.Repeated}, nil
}

func (s *RiderServer) FailOrder(ctx context.Context, req *deliveryv1.FailOrderRequest) (*deliveryv1.OrderResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	o, err := s.Orders.MarkFailed(ctx, req.OrderID, &rd.ID, req.Reason)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.OrderResponse{Order: o}, nil
}

func (s *RiderServer) ReportLocation(ctx context.Context, req *deliveryv1.ReportLocationRequest) (*deliveryv1.LiveLocationResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := s.Relay.ReportLocation(ctx, rd.ID, req.OrderID, req.Lat, req.Lng)
	if err != nil {
		return nil, err
	}
	return s.locationResponse(loc), nil
}

func (s *RiderServer) GetWallet(ctx context.Context, _ *deliveryv1.GetWalletRequest) (*deliveryv1.GetWalletResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	w, err := s.Ledger.Wallet(ctx, rd.ID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.GetWalletResponse{Wallet: w}, nil
}

// RequestPayout settles the rider's oldest full batch of collections.
func (s *RiderServer) RequestPayout(ctx context.Context, req *deliveryv1.RequestPayoutRequest) (*deliveryv1.RequestPayoutResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.Ledger.RequestPayout(ctx, rd.ID, req.Method, req.Reference)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.RequestPayoutResponse{Settlement: st}, nil
}

func (s *RiderServer) ListPickups(ctx context.Context, _ *deliveryv1.ListReturnsRequest) (*deliveryv1.ListReturnsResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.Returns.ListRiderPickups(ctx, rd.ID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ListReturnsResponse{Returns: list}, nil
}

func (s *RiderServer) MarkReturnPickedUp(ctx context.Context, req *deliveryv1.ReturnIDRequest) (*deliveryv1.ReturnResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	rr, err := s.Returns.MarkPickedUp(ctx, rd.ID, req.ReturnID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ReturnResponse{Return: rr}, nil
}

func (s *RiderServer) MarkReturnDeliveredToShop(ctx context.Context, req *deliveryv1.ReturnIDRequest) (*deliveryv1.ReturnResponse, error) {
	rd, err := s.currentRider(ctx)
	if err != nil {
		return nil, err
	}
	rr, err := s.Returns.MarkDeliveredToShop(ctx, rd.ID, req.ReturnID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ReturnResponse{Return: rr}, nil
}
