package tracking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"riderDelivery/internal/geo"
	"riderDelivery/models"
	"riderDelivery/repository"
)

// Config tunes phase and ETA derivation.
type Config struct {
	Freshness time.Duration // samples older than this are reported as stale
	SpeedKmh  float64
}

// Relay stores rider position reports and answers live-location polls. Only the
// latest sample per assignment is kept.
type Relay struct {
	orders      repository.OrderRepositoryI
	assignments repository.AssignmentRepositoryI
	cfg         Config
	log         *zap.Logger
	now         func() time.Time
}

func NewRelay(orders repository.OrderRepositoryI, assignments repository.AssignmentRepositoryI, cfg Config, log *zap.Logger, now func() time.Time) *Relay {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Relay{orders: orders, assignments: assignments, cfg: cfg, log: log, now: now}
}

// ReportLocation records the rider's current position for an order they hold and
// returns what a customer poll would now see.
func (r *Relay) ReportLocation(ctx context.Context, riderID, orderID int64, lat, lng float64) (*models.LiveLocation, error) {
	if !geo.ValidCoordinates(lat, lng) {
		return nil, fmt.Errorf("%w: invalid coordinates", models.ErrValidation)
	}
	o, err := r.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.DeliveryStatus.Terminal() {
		return nil, fmt.Errorf("%w: order %d is %s", models.ErrInvalidTransition, orderID, o.DeliveryStatus)
	}
	a, err := r.assignments.GetActiveByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if a == nil || a.RiderID != riderID {
		return nil, fmt.Errorf("%w: order %d is not assigned to rider %d", models.ErrForbidden, orderID, riderID)
	}

	now := r.now()
	sample := models.LiveLocationSample{Rider: models.Coordinates{Lat: lat, Lng: lng}, At: now}
	sample.ETAMinutes = ETAMinutes(&sample, a.Customer(), r.cfg.SpeedKmh, now, r.cfg.Freshness)
	phase := InferPhase(sample.Rider, a.Shop(), a.Customer())

	ok, err := r.assignments.UpdateSample(ctx, a.ID, riderID, sample, phase)
	if err != nil {
		return nil, fmt.Errorf("update sample: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: assignment %d closed while reporting", models.ErrConcurrentUpdate, a.ID)
	}
	r.log.Debug("location reported", zap.Int64("order_id", orderID), zap.Int64("rider_id", riderID), zap.String("phase", string(phase)))

	a.RiderLat, a.RiderLng, a.SampledAt, a.ETAMinutes, a.Phase = &lat, &lng, &now, sample.ETAMinutes, phase
	return r.view(o, a, now), nil
}

// Poll answers a customer live-location poll. Polls against terminal orders return
// the closed state instead of an error so clients can stop.
func (r *Relay) Poll(ctx context.Context, customerID, orderID int64) (*models.LiveLocation, error) {
	o, err := r.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
	}
	return r.locate(ctx, o)
}

// Inspect is Poll without the ownership check, for operations staff.
func (r *Relay) Inspect(ctx context.Context, orderID int64) (*models.LiveLocation, error) {
	o, err := r.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return r.locate(ctx, o)
}

func (r *Relay) locate(ctx context.Context, o *models.Order) (*models.LiveLocation, error) {
	if o.DeliveryStatus.Terminal() {
		return &models.LiveLocation{OrderID: o.ID, Status: o.DeliveryStatus, State: models.TrackingClosed, Phase: models.PhaseUnknown}, nil
	}
	a, err := r.assignments.GetActiveByOrder(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return r.view(o, a, r.now()), nil
}

// view builds the poll answer. A missing or stale sample never yields a phase or ETA.
func (r *Relay) view(o *models.Order, a *models.DeliveryAssignment, now time.Time) *models.LiveLocation {
	shop, customer := o.Shop(), o.Shipping()
	out := &models.LiveLocation{
		OrderID:  o.ID,
		Status:   o.DeliveryStatus,
		State:    models.TrackingNoRider,
		Shop:     &shop,
		Customer: &customer,
		Phase:    models.PhaseUnknown,
	}
	if a == nil {
		return out
	}
	shop, customer = a.Shop(), a.Customer()
	out.RiderID = a.RiderID
	out.State = models.TrackingStale

	s := a.Sample()
	if s == nil {
		return out
	}
	at := s.At
	out.Rider, out.SampledAt = &s.Rider, &at
	if !s.Fresh(now, r.cfg.Freshness) {
		return out
	}
	out.State = models.TrackingActive
	out.Phase = InferPhase(s.Rider, shop, customer)
	out.ETAMinutes = ETAMinutes(s, customer, r.cfg.SpeedKmh, now, r.cfg.Freshness)
	return out
}

func (r *Relay) order(ctx context.Context, id int64) (*models.Order, error) {
	o, err := r.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	return o, nil
}
