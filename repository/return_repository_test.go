package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"riderDelivery/internal/testutil"
	"riderDelivery/models"
)

func deliveredOrder(t *testing.T, r repos, at time.Time) *models.Order {
	t.Helper()
	o := createInTransit(t, r, models.PaymentCOD, "250", r.fx.RiderID, at)
	if _, err := r.orders.Deliver(context.Background(), o.ID, r.fx.RiderID, at); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	return o
}

func TestReturnRepository_Lifecycle(t *testing.T) {
	r := newRepos(t, "returns_lifecycle")
	ctx := context.Background()

	o := deliveredOrder(t, r, t0)
	rr, err := r.returns.Create(ctx, &models.ReturnRequest{OrderID: o.ID, CustomerID: r.fx.CustomerID, Reason: "wrong size"}, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rr.Status != models.ReturnPending || rr.RefundAmount != nil || rr.CompletedAt != nil {
		t.Fatalf("unexpected new return: %+v", rr)
	}

	if _, err := r.returns.Create(ctx, &models.ReturnRequest{OrderID: o.ID, CustomerID: r.fx.CustomerID, Reason: "again"}, t0); !errors.Is(err, models.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible for a second live return, got %v", err)
	}

	// Refund is not allowed while pending
	refund := models.Refund{Amount: testutil.Dec(t, "120.50"), Mode: models.RefundCash, Reference: "R-1", Note: "partial"}
	if _, err := r.returns.CompleteRefund(ctx, rr.ID, refund, t0); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for pending refund, got %v", err)
	}

	rider := r.fx.Rider2ID
	rr, err = r.returns.Accept(ctx, rr.ID, &rider, "ok", t0.Add(2*time.Hour))
	if err != nil || rr.Status != models.ReturnAccepted || rr.PickupRiderID == nil || *rr.PickupRiderID != rider {
		t.Fatalf("accept: %+v err=%v", rr, err)
	}

	if _, err := r.returns.Advance(ctx, rr.ID, r.fx.RiderID, models.ReturnPickedUp, t0); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a rider without the pickup, got %v", err)
	}
	pickups, _ := r.returns.ListPickupsForRider(ctx, rider)
	if len(pickups) != 1 {
		t.Fatalf("expected one pickup for rider2, got %d", len(pickups))
	}
	if rr, err = r.returns.Advance(ctx, rr.ID, rider, models.ReturnPickedUp, t0.Add(3*time.Hour)); err != nil {
		t.Fatalf("picked up: %v", err)
	}
	if rr, err = r.returns.Advance(ctx, rr.ID, rider, models.ReturnDeliveredToShop, t0.Add(4*time.Hour)); err != nil {
		t.Fatalf("delivered to shop: %v", err)
	}

	rr, err = r.returns.CompleteRefund(ctx, rr.ID, refund, t0.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("complete refund: %v", err)
	}
	if rr.Status != models.ReturnCompleted || !rr.RefundAmount.Equal(refund.Amount) || rr.RefundMode != models.RefundCash || rr.RefundReference != "R-1" || rr.CompletedAt == nil {
		t.Fatalf("refund not stored: %+v", rr)
	}

	other := models.Refund{Amount: testutil.Dec(t, "1"), Mode: models.RefundStoreCredit, Reference: "R-2"}
	if _, err := r.returns.CompleteRefund(ctx, rr.ID, other, t0.Add(6*time.Hour)); !errors.Is(err, models.ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
	kept, _ := r.returns.GetByID(ctx, rr.ID)
	if kept.RefundReference != "R-1" || !kept.RefundAmount.Equal(refund.Amount) {
		t.Fatalf("refund data overwritten: %+v", kept)
	}
	pickups, _ = r.returns.ListPickupsForRider(ctx, rider)
	if len(pickups) != 0 {
		t.Fatalf("completed returns are not pickups, got %d", len(pickups))
	}

	// Completed blocks a new request too
	if _, err := r.returns.Create(ctx, &models.ReturnRequest{OrderID: o.ID, CustomerID: r.fx.CustomerID, Reason: "x"}, t0); !errors.Is(err, models.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible after completion, got %v", err)
	}
}

func TestReturnRepository_RejectAllowsNewRequest(t *testing.T) {
	r := newRepos(t, "returns_reject")
	ctx := context.Background()

	o := deliveredOrder(t, r, t0)
	rr, _ := r.returns.Create(ctx, &models.ReturnRequest{OrderID: o.ID, CustomerID: r.fx.CustomerID, Reason: "damaged"}, t0)
	rr, err := r.returns.Reject(ctx, rr.ID, "photos missing", t0.Add(time.Hour))
	if err != nil || rr.Status != models.ReturnRejected || rr.AdminNote != "photos missing" {
		t.Fatalf("reject: %+v err=%v", rr, err)
	}
	if _, err := r.returns.Reject(ctx, rr.ID, "again", t0); !errors.Is(err, models.ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}

	again, err := r.returns.Create(ctx, &models.ReturnRequest{OrderID: o.ID, CustomerID: r.fx.CustomerID, Reason: "damaged, with photos"}, t0.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("new request after rejection: %v", err)
	}
	live, _ := r.returns.GetLiveByOrder(ctx, o.ID)
	if live == nil || live.ID != again.ID {
		t.Fatalf("live return should be the new one: %+v", live)
	}

	mine, _ := r.returns.ListByCustomer(ctx, r.fx.CustomerID)
	if len(mine) != 2 {
		t.Fatalf("expected two returns for customer, got %d", len(mine))
	}
	rejected, _ := r.returns.ListAdmin(ctx, models.ReturnRejected)
	if len(rejected) != 1 {
		t.Fatalf("expected one rejected return, got %d", len(rejected))
	}
	if _, err := r.returns.AssignPickup(ctx, again.ID, r.fx.RiderID, t0); err != nil {
		t.Fatalf("assign pickup on pending: %v", err)
	}
}
