package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"riderDelivery/internal/apperr"
	"riderDelivery/internal/geo"
	"riderDelivery/models"
	"riderDelivery/repository"
)

const (
	maxReasonLen      = 500
	availableListSize = 100
)

// RiderLookup resolves rider profiles.
type RiderLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Rider, error)
}

// Config tunes the service.
type Config struct {
	RadiusKm float64 // new orders farther than this from the rider are hidden; <= 0 shows all
}

// Service runs the order state machine: placement, cancellation, rider assignment,
// departure, delivery and failure. Every transition is a compare-and-transition
// against the stored status.
type Service struct {
	orders      repository.OrderRepositoryI
	assignments repository.AssignmentRepositoryI
	riders      RiderLookup
	cfg         Config
	log         *zap.Logger
	now         func() time.Time
}

// NewService wires the service. A nil clock means time.Now.
func NewService(orders repository.OrderRepositoryI, assignments repository.AssignmentRepositoryI, riders RiderLookup, cfg Config, log *zap.Logger, now func() time.Time) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{orders: orders, assignments: assignments, riders: riders, cfg: cfg, log: log, now: now}
}

// Place validates and stores a new order.
func (s *Service) Place(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: order is required", models.ErrValidation)
	}
	if !o.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", models.ErrValidation, o.PaymentMethod)
	}
	if o.DeliverySpeed == "" {
		o.DeliverySpeed = models.SpeedNormal
	}
	if !o.DeliverySpeed.Valid() {
		return nil, fmt.Errorf("%w: unknown delivery speed %q", models.ErrValidation, o.DeliverySpeed)
	}
	if !geo.ValidCoordinates(o.ShopLat, o.ShopLng) || !geo.ValidCoordinates(o.ShippingLat, o.ShippingLng) {
		return nil, fmt.Errorf("%w: invalid shop or shipping coordinates", models.ErrValidation)
	}
	if err := o.ValidatePricing(); err != nil {
		return nil, err
	}
	if o.PaymentMethod == models.PaymentCOD {
		o.PaidAt = nil
	}
	created, err := s.orders.Create(ctx, o, s.now())
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.Info("order placed", zap.Int64("order_id", created.ID), zap.String("payment_method", string(created.PaymentMethod)),
		zap.String("speed", string(created.DeliverySpeed)), zap.String("total", created.TotalPrice.String()))
	return created, nil
}

// Get returns the order or models.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	return o, nil
}

// GetOwned returns an order of customerID; other customers' orders are reported as missing.
func (s *Service) GetOwned(ctx context.Context, customerID, id int64) (*models.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	return o, nil
}

// Detail is the polled order screen: order plus paid / delivered / cancelable flags.
func (s *Service) Detail(ctx context.Context, customerID, id int64) (*models.OrderDetail, error) {
	o, err := s.GetOwned(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	return Detail(o), nil
}

// ListForCustomer lists the customer's orders, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]models.OrderDetail, error) {
	list, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]models.OrderDetail, 0, len(list))
	for i := range list {
		out = append(out, *Detail(&list[i]))
	}
	return out, nil
}

// ListAdmin is the operations order list with keyset pagination.
func (s *Service) ListAdmin(ctx context.Context, p repository.ListOrdersAdminParams) ([]models.Order, error) {
	for _, st := range p.Statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, st)
		}
	}
	if p.CreatedFrom != nil && p.CreatedTo != nil && p.CreatedFrom.After(*p.CreatedTo) {
		return nil, fmt.Errorf("%w: created_from is after created_to", models.ErrValidation)
	}
	list, err := s.orders.ListAdmin(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

// Cancel applies the customer cancellation policy. The stored status decides,
// not the status the app last saw: an order accepted in the meantime yields
// models.ErrNotCancelable.
func (s *Service) Cancel(ctx context.Context, customerID, id int64, reason, detail string) (*models.Order, error) {
	stored, err := models.NormalizeCancelReason(reason, detail)
	if err != nil {
		return nil, err
	}
	o, err := s.GetOwned(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	if !CanCancel(o) {
		return nil, fmt.Errorf("%w: order is %s", models.ErrNotCancelable, o.DeliveryStatus)
	}
	return s.cancel(ctx, id, customerCancelFrom, stored)
}

// AdminCancel cancels an order on behalf of operations. The same policy as for
// customers applies: once a rider has accepted, the order can only be failed.
func (s *Service) AdminCancel(ctx context.Context, id int64, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > maxReasonLen {
		return nil, fmt.Errorf("%w: cancel reason is required (max %d chars)", models.ErrValidation, maxReasonLen)
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanCancel(o) {
		return nil, fmt.Errorf("%w: order is %s", models.ErrNotCancelable, o.DeliveryStatus)
	}
	return s.cancel(ctx, id, customerCancelFrom, reason)
}

func (s *Service) cancel(ctx context.Context, id int64, from []models.DeliveryStatus, reason string) (*models.Order, error) {
	changed, err := s.orders.Cancel(ctx, id, from, reason, s.now())
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: order is %s", models.ErrNotCancelable, o.DeliveryStatus)
	}
	s.log.Info("order cancelled", zap.Int64("order_id", id), zap.String("reason", reason))
	return o, nil
}

// Claim assigns a new order to the rider and accepts it.
func (s *Service) Claim(ctx context.Context, riderID, orderID int64) (*models.DeliveryAssignment, error) {
	if err := s.requireActiveRider(ctx, riderID); err != nil {
		return nil, err
	}
	a, err := s.assignments.Claim(ctx, orderID, riderID, s.now())
	if err != nil {
		return nil, fmt.Errorf("claim order %d: %w", orderID, err)
	}
	s.log.Info("order claimed", zap.Int64("order_id", orderID), zap.Int64("rider_id", riderID))
	return a, nil
}

// Reassign explicitly replaces the rider of a non-terminal order (admin).
func (s *Service) Reassign(ctx context.Context, orderID, riderID int64) (*models.DeliveryAssignment, error) {
	if err := s.requireActiveRider(ctx, riderID); err != nil {
		return nil, err
	}
	a, err := s.assignments.Replace(ctx, orderID, riderID, s.now())
	if err != nil {
		return nil, fmt.Errorf("reassign order %d: %w", orderID, err)
	}
	s.log.Info("order reassigned", zap.Int64("order_id", orderID), zap.Int64("rider_id", riderID))
	return a, nil
}

// Depart records that the rider left the shop. to defaults to enroute;
// older rider apps send onway.
func (s *Service) Depart(ctx context.Context, riderID, orderID int64, to models.DeliveryStatus) (*models.Order, error) {
	if to == "" {
		to = models.StatusEnRoute
	}
	if !to.InTransit() {
		return nil, fmt.Errorf("%w: %q is not an in-transit status", models.ErrValidation, to)
	}
	ok, err := s.orders.Depart(ctx, orderID, riderID, to, s.now())
	if err != nil {
		return nil, fmt.Errorf("depart: %w", err)
	}
	if !ok {
		return nil, s.explain(ctx, orderID, riderID, to)
	}
	return s.Get(ctx, orderID)
}

// DeliveryOutcome is the result of MarkDelivered.
type DeliveryOutcome struct {
	Order *models.Order
	COD   *models.CODRecord // nil for Online orders and for repeated confirmations
	// Repeated is set when the order was already delivered by this rider.
	Repeated bool
}

// MarkDelivered completes an in-transit order. For COD orders the ledger record is
// created in the same transaction. Confirming twice is a no-op.
func (s *Service) MarkDelivered(ctx context.Context, riderID, orderID int64) (*DeliveryOutcome, error) {
	res, err := s.orders.Deliver(ctx, orderID, riderID, s.now())
	if err != nil {
		apperr.Log(s.log, "mark delivered failed", err, zap.Int64("order_id", orderID), zap.Int64("rider_id", riderID))
		return nil, fmt.Errorf("deliver order %d: %w", orderID, err)
	}
	if res.Changed {
		o, err := s.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}
		fields := []zap.Field{zap.Int64("order_id", orderID), zap.Int64("rider_id", riderID)}
		if res.COD != nil {
			fields = append(fields, zap.String("cod_amount", res.COD.Amount.String()))
		}
		s.log.Info("order delivered", fields...)
		return &DeliveryOutcome{Order: o, COD: res.COD}, nil
	}

	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.DeliveryStatus == models.StatusDelivered {
		last, err := s.assignments.GetLatestByOrder(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("get assignment: %w", err)
		}
		if last != nil && last.RiderID == riderID {
			return &DeliveryOutcome{Order: o, Repeated: true}, nil
		}
		return nil, fmt.Errorf("%w: order %d was delivered by another rider", models.ErrForbidden, orderID)
	}
	return nil, s.explain(ctx, orderID, riderID, models.StatusDelivered)
}

// MarkFailed ends a delivery as failed. With riderID set the rider must hold the
// order and it must be accepted or in transit; with riderID nil (operations) any
// non-terminal order may be failed. A reason is required.
func (s *Service) MarkFailed(ctx context.Context, orderID int64, riderID *int64, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > maxReasonLen {
		return nil, fmt.Errorf("%w: failure reason is required (max %d chars)", models.ErrValidation, maxReasonLen)
	}
	from := models.SourcesFor(models.StatusFailed)
	if riderID != nil {
		from = riderFailFrom
	}
	changed, err := s.orders.Fail(ctx, orderID, from, riderID, reason, s.now())
	if err != nil {
		return nil, fmt.Errorf("fail order: %w", err)
	}
	if !changed {
		var rid int64
		if riderID != nil {
			rid = *riderID
		}
		return nil, s.explain(ctx, orderID, rid, models.StatusFailed)
	}
	fields := []zap.Field{zap.Int64("order_id", orderID), zap.String("reason", reason)}
	if riderID != nil {
		fields = append(fields, zap.Int64("rider_id", *riderID))
	}
	s.log.Info("order failed", fields...)
	return s.Get(ctx, orderID)
}

// RiderOrders is the rider home screen: held orders and claimable new orders,
// each split into fast and normal lanes. New orders are limited to the
// configured radius around the rider's last reported position, or home.
func (s *Service) RiderOrders(ctx context.Context, riderID int64) (*models.RiderOrders, error) {
	rd, err := s.riders.GetByID(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("get rider: %w", err)
	}
	if rd == nil {
		return nil, fmt.Errorf("%w: rider %d", models.ErrNotFound, riderID)
	}
	active, err := s.orders.ListActiveForRider(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("list active: %w", err)
	}
	out := &models.RiderOrders{
		ActiveFast:   []models.Order{},
		ActiveNormal: []models.Order{},
		NewFast:      []models.Order{},
		NewNormal:    []models.Order{},
	}
	for _, o := range active {
		if o.DeliverySpeed == models.SpeedFast {
			out.ActiveFast = append(out.ActiveFast, o)
		} else {
			out.ActiveNormal = append(out.ActiveNormal, o)
		}
	}
	if !rd.Active {
		return out, nil
	}

	available, err := s.orders.ListAvailable(ctx, availableListSize)
	if err != nil {
		return nil, fmt.Errorf("list available: %w", err)
	}
	origin := models.Coordinates{Lat: rd.HomeLat, Lng: rd.HomeLng}
	if pos, err := s.assignments.LastRiderPosition(ctx, riderID); err != nil {
		return nil, fmt.Errorf("last position: %w", err)
	} else if pos != nil {
		origin = pos.Rider
	}
	for _, o := range available {
		if s.cfg.RadiusKm > 0 && !geo.IsWithinRadiusKm(origin.Lat, origin.Lng, o.ShopLat, o.ShopLng, s.cfg.RadiusKm) {
			continue
		}
		if o.DeliverySpeed == models.SpeedFast {
			out.NewFast = append(out.NewFast, o)
		} else {
			out.NewNormal = append(out.NewNormal, o)
		}
	}
	return out, nil
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
		return fmt.Errorf("%w: rider %d is inactive", models.ErrForbidden, riderID)
	}
	return nil
}

// explain turns a conditional update that matched nothing into a precise error.
func (s *Service) explain(ctx context.Context, orderID, riderID int64, to models.DeliveryStatus) error {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if !models.CanTransition(o.DeliveryStatus, to) {
		return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, o.DeliveryStatus, to)
	}
	if riderID != 0 {
		a, err := s.assignments.GetActiveByOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("get assignment: %w", err)
		}
		if a == nil || a.RiderID != riderID {
			return fmt.Errorf("%w: order %d is not assigned to rider %d", models.ErrForbidden, orderID, riderID)
		}
		if to == models.StatusFailed && o.DeliveryStatus == models.StatusNew {
			return fmt.Errorf("%w: riders can only fail orders they accepted", models.ErrInvalidTransition)
		}
	}
	return fmt.Errorf("%w: order changed concurrently", models.ErrConcurrentUpdate)
}
