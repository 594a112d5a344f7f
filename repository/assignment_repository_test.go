package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"riderDelivery/internal/testutil"
	"riderDelivery/models"
)

func TestAssignmentRepository_Claim(t *testing.T) {
	r := newRepos(t, "assign_claim")
	ctx := context.Background()

	o, _ := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100"), t0)
	a, err := r.assignments.Claim(ctx, o.ID, r.fx.RiderID, t0)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !a.Active || a.RiderID != r.fx.RiderID || a.Phase != models.PhaseUnknown {
		t.Fatalf("unexpected assignment: %+v", a)
	}
	if a.Shop() != testutil.Shop || a.Customer() != testutil.Home {
		t.Fatalf("coordinates not copied from order: %+v", a)
	}
	got, _ := r.orders.GetByID(ctx, o.ID)
	if got.DeliveryStatus != models.StatusAccepted {
		t.Fatalf("claim must accept the order, got %s", got.DeliveryStatus)
	}

	// Same rider again: idempotent
	again, err := r.assignments.Claim(ctx, o.ID, r.fx.RiderID, t0.Add(time.Minute))
	if err != nil || again.ID != a.ID {
		t.Fatalf("repeat claim should return the same assignment: %+v err=%v", again, err)
	}

	// Another rider: conflict
	if _, err := r.assignments.Claim(ctx, o.ID, r.fx.Rider2ID, t0); !errors.Is(err, models.ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}

	// Cancelled order cannot be claimed
	o2, _ := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100"), t0)
	_, _ = r.orders.Cancel(ctx, o2.ID, []models.DeliveryStatus{models.StatusNew}, "Changed my mind", t0)
	if _, err := r.assignments.Claim(ctx, o2.ID, r.fx.RiderID, t0); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for cancelled order, got %v", err)
	}
	if _, err := r.assignments.Claim(ctx, 9999, r.fx.RiderID, t0); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignmentRepository_ReplaceKeepsSingleActive(t *testing.T) {
	r := newRepos(t, "assign_replace")
	ctx := context.Background()

	o := createInTransit(t, r, models.PaymentCOD, "100", r.fx.RiderID, t0)
	a2, err := r.assignments.Replace(ctx, o.ID, r.fx.Rider2ID, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if a2.RiderID != r.fx.Rider2ID || !a2.Active {
		t.Fatalf("unexpected replacement: %+v", a2)
	}
	var active int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM delivery_assignments WHERE order_id = ? AND active = 1`, o.ID).Scan(&active); err != nil {
		t.Fatalf("count: %v", err)
	}
	if active != 1 {
		t.Fatalf("expected exactly one active assignment, got %d", active)
	}
	got, _ := r.orders.GetByID(ctx, o.ID)
	if got.DeliveryStatus != models.StatusEnRoute {
		t.Fatalf("replace must not change an in-transit status, got %s", got.DeliveryStatus)
	}

	// The old rider lost the order
	if ok, _ := r.orders.Depart(ctx, o.ID, r.fx.RiderID, models.StatusOnWay, t0); ok {
		t.Fatalf("old rider must not act on a reassigned order")
	}

	// A new order is accepted on replace
	o2, _ := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100"), t0)
	if _, err := r.assignments.Replace(ctx, o2.ID, r.fx.RiderID, t0); err != nil {
		t.Fatalf("replace on new order: %v", err)
	}
	got2, _ := r.orders.GetByID(ctx, o2.ID)
	if got2.DeliveryStatus != models.StatusAccepted {
		t.Fatalf("expected accepted, got %s", got2.DeliveryStatus)
	}

	// Terminal orders cannot be reassigned
	if _, err := r.orders.Deliver(ctx, o.ID, r.fx.Rider2ID, t0); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if _, err := r.assignments.Replace(ctx, o.ID, r.fx.RiderID, t0); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for delivered order, got %v", err)
	}
}

func TestAssignmentRepository_UpdateSample(t *testing.T) {
	r := newRepos(t, "assign_sample")
	ctx := context.Background()

	o := createInTransit(t, r, models.PaymentCOD, "100", r.fx.RiderID, t0)
	a, _ := r.assignments.GetActiveByOrder(ctx, o.ID)
	eta := 7
	s := models.LiveLocationSample{Rider: models.Coordinates{Lat: 41.32, Lng: 69.28}, At: t0.Add(time.Minute), ETAMinutes: &eta}

	if ok, _ := r.assignments.UpdateSample(ctx, a.ID, r.fx.Rider2ID, s, models.PhaseOnTheWay); ok {
		t.Fatalf("other rider must not report for this assignment")
	}
	ok, err := r.assignments.UpdateSample(ctx, a.ID, r.fx.RiderID, s, models.PhaseOnTheWay)
	if err != nil || !ok {
		t.Fatalf("update sample: ok=%v err=%v", ok, err)
	}
	got, _ := r.assignments.GetActiveByOrder(ctx, o.ID)
	sample := got.Sample()
	if sample == nil || sample.Rider != s.Rider || !sample.At.Equal(s.At) || *sample.ETAMinutes != 7 || got.Phase != models.PhaseOnTheWay {
		t.Fatalf("sample not stored: %+v", got)
	}

	pos, err := r.assignments.LastRiderPosition(ctx, r.fx.RiderID)
	if err != nil || pos == nil || pos.Rider != s.Rider {
		t.Fatalf("last rider position: %+v err=%v", pos, err)
	}
	none, err := r.assignments.LastRiderPosition(ctx, r.fx.Rider2ID)
	if err != nil || none != nil {
		t.Fatalf("rider2 never reported: %+v err=%v", none, err)
	}

	// Closed assignments ignore samples
	if _, err := r.orders.Deliver(ctx, o.ID, r.fx.RiderID, t0); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if ok, _ := r.assignments.UpdateSample(ctx, a.ID, r.fx.RiderID, s, models.PhaseNearCustomer); ok {
		t.Fatalf("closed assignment must not accept samples")
	}
	list, _ := r.assignments.ListActiveByRider(ctx, r.fx.RiderID)
	if len(list) != 0 {
		t.Fatalf("expected no active assignments, got %d", len(list))
	}
}
