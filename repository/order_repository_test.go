package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"riderDelivery/internal/testutil"
	"riderDelivery/models"
)

type repos struct {
	db          *sql.DB
	fx          testutil.Fixture
	orders      *OrderRepository
	assignments *AssignmentRepository
	cod         *CODRepository
	returns     *ReturnRepository
	riders      *RiderRepository
}

func newRepos(t *testing.T, name string) repos {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	return repos{
		db:          d,
		fx:          testutil.Seed(t, d),
		orders:      NewOrderRepository(d),
		assignments: NewAssignmentRepository(d),
		cod:         NewCODRepository(d),
		returns:     NewReturnRepository(d),
		riders:      NewRiderRepository(d),
	}
}

var t0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// createInTransit places an order, has riderID claim it and leave the shop.
func createInTransit(t *testing.T, r repos, method models.PaymentMethod, total string, riderID int64, at time.Time) *models.Order {
	t.Helper()
	ctx := context.Background()
	o, err := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, method, total), at)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := r.assignments.Claim(ctx, o.ID, riderID, at); err != nil {
		t.Fatalf("claim: %v", err)
	}
	ok, err := r.orders.Depart(ctx, o.ID, riderID, models.StatusEnRoute, at)
	if err != nil || !ok {
		t.Fatalf("depart: ok=%v err=%v", ok, err)
	}
	return o
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	r := newRepos(t, "order_create")
	ctx := context.Background()

	in := testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "450")
	in.DeliverySpeed = models.SpeedFast
	in.ShippingPrice = testutil.Dec(t, "15")
	in.ShippingExtraPrice = testutil.Dec(t, "5")
	in.ItemsPrice = testutil.Dec(t, "445.50")
	in.CouponDiscountAmount = testutil.Dec(t, "10.50")

	o, err := r.orders.Create(ctx, in, t0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID == 0 || o.DeliveryStatus != models.StatusNew || o.DeliverySpeed != models.SpeedFast {
		t.Fatalf("unexpected created order: %+v", o)
	}
	if !o.TotalPrice.Equal(testutil.Dec(t, "450")) || !o.ItemsPrice.Equal(testutil.Dec(t, "445.50")) {
		t.Fatalf("prices not preserved: total=%s items=%s", o.TotalPrice, o.ItemsPrice)
	}
	if err := o.ValidatePricing(); err != nil {
		t.Fatalf("pricing invariant after create: %v", err)
	}
	if !o.CreatedAt.Equal(t0) || o.PaidAt != nil || o.CancelledAt != nil {
		t.Fatalf("unexpected timestamps: %+v", o)
	}

	missing, err := r.orders.GetByID(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing order, got %+v err=%v", missing, err)
	}
}

func TestOrderRepository_MarkPaidOnlineOnly(t *testing.T) {
	r := newRepos(t, "order_paid")
	ctx := context.Background()

	online, _ := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentOnline, "100"), t0)
	cod, _ := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100"), t0)

	if err := r.orders.MarkPaid(ctx, online.ID, t0); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	got, _ := r.orders.GetByID(ctx, online.ID)
	if !got.IsPaid() {
		t.Fatalf("online order should be paid: %+v", got)
	}
	if err := r.orders.MarkPaid(ctx, cod.ID, t0); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows for COD order, got %v", err)
	}
}

func TestOrderRepository_CancelComparesStoredStatus(t *testing.T) {
	r := newRepos(t, "order_cancel")
	ctx := context.Background()

	o, _ := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100"), t0)
	newOnly := []models.DeliveryStatus{models.StatusNew}

	ok, err := r.orders.Cancel(ctx, o.ID, newOnly, "Changed my mind", t0.Add(time.Minute))
	if err != nil || !ok {
		t.Fatalf("cancel: ok=%v err=%v", ok, err)
	}
	got, _ := r.orders.GetByID(ctx, o.ID)
	if got.DeliveryStatus != models.StatusCancelled || got.CancelReason != "Changed my mind" || got.CancelledAt == nil {
		t.Fatalf("cancel fields not recorded: %+v", got)
	}

	ok, err = r.orders.Cancel(ctx, o.ID, newOnly, "again", t0.Add(2*time.Minute))
	if err != nil || ok {
		t.Fatalf("second cancel must not change the order: ok=%v err=%v", ok, err)
	}
	got, _ = r.orders.GetByID(ctx, o.ID)
	if got.CancelReason != "Changed my mind" {
		t.Fatalf("cancel reason overwritten: %q", got.CancelReason)
	}

	// Accepted orders are not in the allowed set
	o2 := createInTransit(t, r, models.PaymentCOD, "100", r.fx.RiderID, t0)
	if ok, _ := r.orders.Cancel(ctx, o2.ID, newOnly, "late", t0); ok {
		t.Fatalf("cancel of in-transit order must fail")
	}
}

func TestOrderRepository_DeliverCreatesExactlyOneCODRecord(t *testing.T) {
	r := newRepos(t, "order_deliver_cod")
	ctx := context.Background()

	o := createInTransit(t, r, models.PaymentCOD, "450", r.fx.RiderID, t0)

	res, err := r.orders.Deliver(ctx, o.ID, r.fx.RiderID, t0.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if !res.Changed || res.COD == nil {
		t.Fatalf("expected a COD record on first delivery: %+v", res)
	}
	if !res.COD.Amount.Equal(testutil.Dec(t, "450")) || res.COD.Status != models.CODUnsettled || res.COD.RiderID != r.fx.RiderID {
		t.Fatalf("unexpected COD record: %+v", res.COD)
	}

	res, err = r.orders.Deliver(ctx, o.ID, r.fx.RiderID, t0.Add(31*time.Minute))
	if err != nil || res.Changed || res.COD != nil {
		t.Fatalf("second delivery must be a no-op: %+v err=%v", res, err)
	}
	n, err := r.cod.CountByOrder(ctx, o.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected exactly one COD record, got %d err=%v", n, err)
	}

	got, _ := r.orders.GetByID(ctx, o.ID)
	if !got.IsDelivered() || !got.IsPaid() || got.DeliveredAt == nil {
		t.Fatalf("order should be delivered and paid: %+v", got)
	}
	a, _ := r.assignments.GetActiveByOrder(ctx, o.ID)
	if a != nil {
		t.Fatalf("assignment should be closed after delivery: %+v", a)
	}
	last, _ := r.assignments.GetLatestByOrder(ctx, o.ID)
	if last == nil || last.CloseReason != "delivered" || last.ClosedAt == nil {
		t.Fatalf("latest assignment not closed as delivered: %+v", last)
	}
}

func TestOrderRepository_DeliverOnlineCreatesNoCOD(t *testing.T) {
	r := newRepos(t, "order_deliver_online")
	ctx := context.Background()

	o := createInTransit(t, r, models.PaymentOnline, "99.90", r.fx.RiderID, t0)
	res, err := r.orders.Deliver(ctx, o.ID, r.fx.RiderID, t0)
	if err != nil || !res.Changed || res.COD != nil {
		t.Fatalf("online delivery: %+v err=%v", res, err)
	}
	if n, _ := r.cod.CountByOrder(ctx, o.ID); n != 0 {
		t.Fatalf("online order must never get a COD record, got %d", n)
	}
}

func TestOrderRepository_DeliverRequiresAssignedRider(t *testing.T) {
	r := newRepos(t, "order_deliver_rider")
	ctx := context.Background()

	o := createInTransit(t, r, models.PaymentCOD, "100", r.fx.RiderID, t0)
	res, err := r.orders.Deliver(ctx, o.ID, r.fx.Rider2ID, t0)
	if err != nil || res.Changed {
		t.Fatalf("another rider must not deliver: %+v err=%v", res, err)
	}

	// Accepted but not departed cannot be delivered either
	o2, _ := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100"), t0)
	if _, err := r.assignments.Claim(ctx, o2.ID, r.fx.RiderID, t0); err != nil {
		t.Fatalf("claim: %v", err)
	}
	res, _ = r.orders.Deliver(ctx, o2.ID, r.fx.RiderID, t0)
	if res.Changed {
		t.Fatalf("accepted order must depart before delivery")
	}
}

func TestOrderRepository_DeliverDetectsPreexistingCODRecord(t *testing.T) {
	r := newRepos(t, "order_deliver_integrity")
	ctx := context.Background()

	o := createInTransit(t, r, models.PaymentCOD, "100", r.fx.RiderID, t0)
	// A stray record left by a broken import
	if _, err := r.db.Exec(`INSERT INTO cod_records (order_id, rider_id, amount, status, created_at) VALUES (?, ?, '100', 'unsettled', ?)`,
		o.ID, r.fx.RiderID, formatTime(t0)); err != nil {
		t.Fatalf("insert stray record: %v", err)
	}
	_, err := r.orders.Deliver(ctx, o.ID, r.fx.RiderID, t0)
	if !errors.Is(err, models.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
	got, _ := r.orders.GetByID(ctx, o.ID)
	if got.DeliveryStatus != models.StatusEnRoute {
		t.Fatalf("delivery must roll back, status=%s", got.DeliveryStatus)
	}
}

func TestOrderRepository_FailClosesAssignment(t *testing.T) {
	r := newRepos(t, "order_fail")
	ctx := context.Background()

	o := createInTransit(t, r, models.PaymentCOD, "100", r.fx.RiderID, t0)
	from := models.SourcesFor(models.StatusFailed)

	other := r.fx.Rider2ID
	if ok, _ := r.orders.Fail(ctx, o.ID, from, &other, "customer absent", t0); ok {
		t.Fatalf("rider without the assignment must not fail the order")
	}
	rider := r.fx.RiderID
	ok, err := r.orders.Fail(ctx, o.ID, from, &rider, "customer absent", t0)
	if err != nil || !ok {
		t.Fatalf("fail: ok=%v err=%v", ok, err)
	}
	got, _ := r.orders.GetByID(ctx, o.ID)
	if got.DeliveryStatus != models.StatusFailed || got.FailureReason != "customer absent" {
		t.Fatalf("failure not recorded: %+v", got)
	}
	if a, _ := r.assignments.GetActiveByOrder(ctx, o.ID); a != nil {
		t.Fatalf("assignment should be closed: %+v", a)
	}
	if n, _ := r.cod.CountByOrder(ctx, o.ID); n != 0 {
		t.Fatalf("failed order must not create COD records")
	}
}

func TestOrderRepository_ListAvailableFastFirst(t *testing.T) {
	r := newRepos(t, "order_available")
	ctx := context.Background()

	normal, _ := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100"), t0)
	fastIn := testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100")
	fastIn.DeliverySpeed = models.SpeedFast
	fast, _ := r.orders.Create(ctx, fastIn, t0.Add(time.Minute))
	taken, _ := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100"), t0)
	if _, err := r.assignments.Claim(ctx, taken.ID, r.fx.RiderID, t0); err != nil {
		t.Fatalf("claim: %v", err)
	}

	list, err := r.orders.ListAvailable(ctx, 10)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(list) != 2 || list[0].ID != fast.ID || list[1].ID != normal.ID {
		t.Fatalf("unexpected available list: %+v", list)
	}

	active, err := r.orders.ListActiveForRider(ctx, r.fx.RiderID)
	if err != nil || len(active) != 1 || active[0].ID != taken.ID {
		t.Fatalf("active for rider: %+v err=%v", active, err)
	}

	mine, err := r.orders.ListByCustomer(ctx, r.fx.CustomerID)
	if err != nil || len(mine) != 3 {
		t.Fatalf("list by customer: len=%d err=%v", len(mine), err)
	}
}

func TestOrderRepository_ListAdminFilters(t *testing.T) {
	r := newRepos(t, "order_admin_list")
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 5; i++ {
		o, err := r.orders.Create(ctx, testutil.NewOrder(t, r.fx.CustomerID, models.PaymentCOD, "100"), t0.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, o.ID)
	}
	if ok, _ := r.orders.Cancel(ctx, ids[0], []models.DeliveryStatus{models.StatusNew}, "Ordered by mistake", t0); !ok {
		t.Fatalf("cancel failed")
	}

	page, err := r.orders.ListAdmin(ctx, ListOrdersAdminParams{PageSize: 2})
	if err != nil || len(page) != 2 || page[0].ID != ids[4] {
		t.Fatalf("first page: %+v err=%v", page, err)
	}
	next, err := r.orders.ListAdmin(ctx, ListOrdersAdminParams{PageSize: 2, AfterID: page[1].ID})
	if err != nil || len(next) != 2 || next[0].ID != ids[2] {
		t.Fatalf("second page: %+v err=%v", next, err)
	}
	cancelled, err := r.orders.ListAdmin(ctx, ListOrdersAdminParams{Statuses: []models.DeliveryStatus{models.StatusCancelled}})
	if err != nil || len(cancelled) != 1 || cancelled[0].ID != ids[0] {
		t.Fatalf("status filter: %+v err=%v", cancelled, err)
	}
	from := t0.Add(3 * time.Hour)
	recent, err := r.orders.ListAdmin(ctx, ListOrdersAdminParams{CreatedFrom: &from})
	if err != nil || len(recent) != 2 {
		t.Fatalf("date filter: len=%d err=%v", len(recent), err)
	}
}
