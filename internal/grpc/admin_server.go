package grpcserver

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	deliveryv1 "riderDelivery/api/deliveryv1"
	"riderDelivery/models"
	"riderDelivery/repository"
)

// AdminServer implements delivery.v1.AdminService. Every method requires an admin
// token whose user row has the admin role.
type AdminServer struct {
	deliveryv1.UnimplementedAdminServiceServer
	Deps
}

// ListOrders lists orders with optional filters and cursor pagination.
func (s *AdminServer) ListOrders(ctx context.Context, req *deliveryv1.ListOrdersRequest) (*deliveryv1.ListOrdersResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	size := pageSize(req.PageSize)
	var afterID int64
	if tok := strings.TrimSpace(req.PageToken); tok != "" {
		id, err := decodeCursor(tok)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid page_token: %v", err)
		}
		afterID = id
	}
	statuses := make([]models.DeliveryStatus, 0, len(req.Statuses))
	for _, st := range req.Statuses {
		statuses = append(statuses, models.DeliveryStatus(strings.ToLower(strings.TrimSpace(st))))
	}

	list, err := s.Orders.ListAdmin(ctx, repository.ListOrdersAdminParams{
		Statuses:    statuses,
		CustomerID:  req.CustomerID,
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
		PageSize:    size,
		AfterID:     afterID,
	})
	if err != nil {
		return nil, err
	}
	resp := &deliveryv1.ListOrdersResponse{Orders: list}
	if resp.Orders == nil {
		resp.Orders = []models.Order{}
	}
	if len(list) == size {
		resp.NextPageToken = encodeCursor(list[len(list)-1].ID)
	}
	return resp, nil
}

// CancelOrder cancels an order no rider has accepted yet; accepted orders are failed instead.
func (s *AdminServer) CancelOrder(ctx context.Context, req *deliveryv1.AdminCancelOrderRequest) (*deliveryv1.OrderResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	o, err := s.Orders.AdminCancel(ctx, req.OrderID, req.Reason)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.OrderResponse{Order: o}, nil
}

// FailOrder fails any non-terminal order.
func (s *AdminServer) FailOrder(ctx context.Context, req *deliveryv1.FailOrderRequest) (*deliveryv1.OrderResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	o, err := s.Orders.MarkFailed(ctx, req.OrderID, nil, req.Reason)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.OrderResponse{Order: o}, nil
}

func (s *AdminServer) ReassignOrder(ctx context.Context, req *deliveryv1.ReassignOrderRequest) (*deliveryv1.AssignmentResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	a, err := s.Orders.Reassign(ctx, req.OrderID, req.RiderID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.AssignmentResponse{Assignment: a}, nil
}

func (s *AdminServer) InspectLocation(ctx context.Context, req *deliveryv1.OrderIDRequest) (*deliveryv1.LiveLocationResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	loc, err := s.Relay.Inspect(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	return s.locationResponse(loc), nil
}

func (s *AdminServer) ListReturns(ctx context.Context, req *deliveryv1.ListReturnsRequest) (*deliveryv1.ListReturnsResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	list, err := s.Returns.ListAdmin(ctx, models.ReturnStatus(req.Status))
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ListReturnsResponse{Returns: list}, nil
}

func (s *AdminServer) AcceptReturn(ctx context.Context, req *deliveryv1.AcceptReturnRequest) (*deliveryv1.ReturnResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	rr, err := s.Returns.Accept(ctx, req.ReturnID, req.PickupRiderID, req.Note)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ReturnResponse{Return: rr}, nil
}

func (s *AdminServer) AssignReturnPickup(ctx context.Context, req *deliveryv1.AssignPickupRequest) (*deliveryv1.ReturnResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	rr, err := s.Returns.AssignPickup(ctx, req.ReturnID, req.RiderID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ReturnResponse{Return: rr}, nil
}

func (s *AdminServer) RejectReturn(ctx context.Context, req *deliveryv1.RejectReturnRequest) (*deliveryv1.ReturnResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	rr, err := s.Returns.Reject(ctx, req.ReturnID, req.Note)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ReturnResponse{Return: rr}, nil
}

// MarkRefunded records a (possibly partial) refund and completes the return.
func (s *AdminServer) MarkRefunded(ctx context.Context, req *deliveryv1.MarkRefundedRequest) (*deliveryv1.ReturnResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	rr, err := s.Returns.MarkRefunded(ctx, req.ReturnID, models.Refund{
		Amount:    req.Amount,
		Mode:      models.RefundMode(req.Mode),
		Reference: req.Reference,
		Note:      req.Note,
	})
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ReturnResponse{Return: rr}, nil
}

func (s *AdminServer) GetRiderOverview(ctx context.Context, req *deliveryv1.GetRiderOverviewRequest) (*deliveryv1.GetRiderOverviewResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	ov, err := s.Ledger.RiderOverview(ctx, req.RiderID, models.DateRange(req.Range))
	if err != nil {
		return nil, err
	}
	return &deliveryv1.GetRiderOverviewResponse{Overview: ov}, nil
}

// ListRiderBalances is the cash-in-hand table across riders.
func (s *AdminServer) ListRiderBalances(ctx context.Context, req *deliveryv1.ListRiderBalancesRequest) (*deliveryv1.ListRiderBalancesResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	rows, err := s.Ledger.ListRiderBalances(ctx, req.Search, models.DateRange(req.Range))
	if err != nil {
		return nil, err
	}
	return &deliveryv1.ListRiderBalancesResponse{Balances: rows}, nil
}

func (s *AdminServer) VerifyRider(ctx context.Context, req *deliveryv1.VerifyRiderRequest) (*deliveryv1.VerifyRiderResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	issues, err := s.Ledger.VerifyRider(ctx, req.RiderID)
	if err != nil {
		return nil, err
	}
	return &deliveryv1.VerifyRiderResponse{Issues: issues}, nil
}
