// Package returns runs the post-delivery return and refund workflow.
package returns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"riderDelivery/internal/apperr"
	"riderDelivery/models"
	"riderDelivery/repository"
)

const (
	maxReasonLen    = 500
	maxReferenceLen = 100
)

// Config holds the return window.
type Config struct {
	Window time.Duration // how long after delivery a return may be requested
}

// Service runs the return and refund workflow.
type Service struct {
	returns repository.ReturnRepositoryI
	orders  repository.OrderRepositoryI
	riders  repository.RiderRepositoryI
	cfg     Config
	log     *zap.Logger
	now     func() time.Time
}

// NewService builds a returns service. A nil log discards output.
func NewService(returns repository.ReturnRepositoryI, orders repository.OrderRepositoryI, riders repository.RiderRepositoryI, cfg Config, log *zap.Logger, now func() time.Time) *Service {
	if cfg.Window <= 0 {
		cfg.Window = 7 * 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{returns: returns, orders: orders, riders: riders, cfg: cfg, log: log, now: now}
}

// RequestReturn opens a return for a delivered order of the customer. It fails with
// models.ErrNotEligible when the order is not delivered, the window has passed or
// the order already has a return that was not rejected.
func (s *Service) RequestReturn(ctx context.Context, customerID, orderID int64, reason string) (*models.ReturnRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > maxReasonLen {
		return nil, fmt.Errorf("%w: return reason is required (max %d chars)", models.ErrValidation, maxReasonLen)
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o == nil || o.CustomerID != customerID {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
	}
	if o.DeliveryStatus != models.StatusDelivered {
		return nil, fmt.Errorf("%w: order is %s", models.ErrNotEligible, o.DeliveryStatus)
	}
	deliveredAt := o.UpdatedAt
	if o.DeliveredAt != nil {
		deliveredAt = *o.DeliveredAt
	}
	if s.now().Sub(deliveredAt) > s.cfg.Window {
		return nil, fmt.Errorf("%w: return window closed", models.ErrNotEligible)
	}
	live, err := s.returns.GetLiveByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get live return: %w", err)
	}
	if live != nil {
		return nil, fmt.Errorf("%w: return %d already %s", models.ErrNotEligible, live.ID, live.Status)
	}

	rr, err := s.returns.Create(ctx, &models.ReturnRequest{OrderID: orderID, CustomerID: customerID, Reason: reason}, s.now())
	if err != nil {
		return nil, fmt.Errorf("create return: %w", err)
	}
	s.log.Info("return requested", zap.Int64("return_id", rr.ID), zap.Int64("order_id", orderID))
	return rr, nil
}

// Accept approves a pending return, optionally tasking a pickup rider.
func (s *Service) Accept(ctx context.Context, id int64, pickupRiderID *int64, note string) (*models.ReturnRequest, error) {
	note, err := cleanNote(note)
	if err != nil {
		return nil, err
	}
	if pickupRiderID != nil {
		if err := s.requireActiveRider(ctx, *pickupRiderID); err != nil {
			return nil, err
		}
	}
	rr, err := s.returns.Accept(ctx, id, pickupRiderID, note, s.now())
	if err != nil {
		return nil, fmt.Errorf("accept return %d: %w", id, err)
	}
	s.log.Info("return accepted", zap.Int64("return_id", id))
	return rr, nil
}

// AssignPickup tasks a rider with collecting the parcel of a pending or accepted return.
func (s *Service) AssignPickup(ctx context.Context, id, riderID int64) (*models.ReturnRequest, error) {
	if err := s.requireActiveRider(ctx, riderID); err != nil {
		return nil, err
	}
	rr, err := s.returns.AssignPickup(ctx, id, riderID, s.now())
	if err != nil {
		return nil, fmt.Errorf("assign pickup %d: %w", id, err)
	}
	return rr, nil
}

// MarkPickedUp is reported by the pickup rider.
func (s *Service) MarkPickedUp(ctx context.Context, riderID, id int64) (*models.ReturnRequest, error) {
	return s.advance(ctx, riderID, id, models.ReturnPickedUp)
}

// MarkDeliveredToShop is reported by the pickup rider.
func (s *Service) MarkDeliveredToShop(ctx context.Context, riderID, id int64) (*models.ReturnRequest, error) {
	return s.advance(ctx, riderID, id, models.ReturnDeliveredToShop)
}

func (s *Service) advance(ctx context.Context, riderID, id int64, to models.ReturnStatus) (*models.ReturnRequest, error) {
	rr, err := s.returns.Advance(ctx, id, riderID, to, s.now())
	if err != nil {
		return nil, fmt.Errorf("return %d -> %s: %w", id, to, err)
	}
	s.log.Info("return advanced", zap.Int64("return_id", id), zap.Int64("rider_id", riderID), zap.String("status", string(to)))
	return rr, nil
}

// Reject closes any non-terminal return. The customer may then request again.
func (s *Service) Reject(ctx context.Context, id int64, note string) (*models.ReturnRequest, error) {
	note, err := cleanNote(note)
	if err != nil {
		return nil, err
	}
	rr, err := s.returns.Reject(ctx, id, note, s.now())
	if err != nil {
		return nil, fmt.Errorf("reject return %d: %w", id, err)
	}
	s.log.Info("return rejected", zap.Int64("return_id", id))
	return rr, nil
}

// MarkRefunded records the refund and completes the return. Partial refunds are
// allowed up to the order total. A finalized return is never overwritten.
func (s *Service) MarkRefunded(ctx context.Context, id int64, refund models.Refund) (*models.ReturnRequest, error) {
	rr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rr.Status.Terminal() {
		return nil, fmt.Errorf("%w: return %d is %s", models.ErrAlreadyFinalized, id, rr.Status)
	}
	if !rr.Status.Refundable() {
		return nil, fmt.Errorf("%w: return %d is %s", models.ErrInvalidTransition, id, rr.Status)
	}

	o, err := s.orders.GetByID(ctx, rr.OrderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %d of return %d is missing", models.ErrIntegrity, rr.OrderID, id)
	}
	if !refund.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: refund amount must be positive", models.ErrValidation)
	}
	if refund.Amount.GreaterThan(o.TotalPrice) {
		return nil, fmt.Errorf("%w: refund %s exceeds order total %s", models.ErrValidation, refund.Amount, o.TotalPrice)
	}
	if !refund.Mode.Valid() {
		return nil, fmt.Errorf("%w: unknown refund mode %q", models.ErrValidation, refund.Mode)
	}
	refund.Reference = strings.TrimSpace(refund.Reference)
	if len(refund.Reference) > maxReferenceLen {
		return nil, fmt.Errorf("%w: refund reference too long", models.ErrValidation)
	}
	if refund.Note, err = cleanNote(refund.Note); err != nil {
		return nil, err
	}

	done, err := s.returns.CompleteRefund(ctx, id, refund, s.now())
	if err != nil {
		apperr.Log(s.log, "refund not recorded", err, zap.Int64("return_id", id))
		return nil, fmt.Errorf("complete refund %d: %w", id, err)
	}
	s.log.Info("return refunded",
		zap.Int64("return_id", id),
		zap.Int64("order_id", rr.OrderID),
		zap.String("amount", refund.Amount.String()),
		zap.String("mode", string(refund.Mode)),
	)
	return done, nil
}

// Get returns the return request or models.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*models.ReturnRequest, error) {
	rr, err := s.returns.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get return: %w", err)
	}
	if rr == nil {
		return nil, fmt.Errorf("%w: return %d", models.ErrNotFound, id)
	}
	return rr, nil
}

// ListForCustomer lists the customer's returns, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]models.ReturnRequest, error) {
	list, err := s.returns.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	return nonNil(list), nil
}

// ListRiderPickups lists the unfinished returns the rider has to collect.
func (s *Service) ListRiderPickups(ctx context.Context, riderID int64) ([]models.ReturnRequest, error) {
	list, err := s.returns.ListPickupsForRider(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("list pickups: %w", err)
	}
	return nonNil(list), nil
}

// ListAdmin lists all returns, optionally in one status.
func (s *Service) ListAdmin(ctx context.Context, status models.ReturnStatus) ([]models.ReturnRequest, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown return status %q", models.ErrValidation, status)
	}
	list, err := s.returns.ListAdmin(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	return nonNil(list), nil
}

func (s *Service) requireActiveRider(ctx context.Context, riderID int64) error {
	rd, err := s.riders.GetByID(ctx, riderID)
	if err != nil {
		return fmt.Errorf("get rider: %w", err)
	}
	if rd == nil {
		return fmt.Errorf("%w: rider %d", models.ErrNotFound, riderID)
	}
	if !rd.Active {
		return fmt.Errorf("%w: rider %d is inactive", models.ErrValidation, riderID)
	}
	return nil
}

func cleanNote(note string) (string, error) {
	note = strings.TrimSpace(note)
	if len(note) > maxReasonLen {
		return "", fmt.Errorf("%w: note too long", models.ErrValidation)
	}
	return note, nil
}

func nonNil(list []models.ReturnRequest) []models.ReturnRequest {
	if list == nil {
		return []models.ReturnRequest{}
	}
	return list
}
