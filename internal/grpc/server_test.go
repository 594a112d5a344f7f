package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	deliveryv1 "riderDelivery/api/deliveryv1"
	"riderDelivery/internal/auth"
	"riderDelivery/internal/config"
	"riderDelivery/internal/ledger"
	"riderDelivery/internal/orders"
	"riderDelivery/internal/returns"
	"riderDelivery/internal/testutil"
	"riderDelivery/internal/tracking"
	"riderDelivery/models"
	"riderDelivery/repository"
)

const testSecret = "test-secret"

type harness struct {
	fx       testutil.Fixture
	clock    *testutil.Clock
	conn     *grpc.ClientConn
	customer deliveryv1.CustomerServiceClient
	rider    deliveryv1.RiderServiceClient
	admin    deliveryv1.AdminServiceClient
	deps     Deps
}

func newHarness(t *testing.T, name string) *harness {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	fx := testutil.Seed(t, d)
	clock := testutil.NewClock()

	users := repository.NewUserRepository(d)
	riders := repository.NewRiderRepository(d)
	orderRepo := repository.NewOrderRepository(d)
	assignments := repository.NewAssignmentRepository(d)
	cod := repository.NewCODRepository(d)
	returnRepo := repository.NewReturnRepository(d)
	log := zap.NewNop()

	deps := Deps{
		Users:   users,
		Riders:  riders,
		Orders:  orders.NewService(orderRepo, assignments, riders, orders.Config{RadiusKm: 15}, log, clock.Now),
		Relay:   tracking.NewRelay(orderRepo, assignments, tracking.Config{Freshness: time.Minute, SpeedKmh: 20}, log, clock.Now),
		Ledger:  ledger.NewService(cod, orderRepo, riders, ledger.Config{BatchSize: 20}, log, clock.Now),
		Returns: returns.NewService(returnRepo, orderRepo, riders, returns.Config{Window: 7 * 24 * time.Hour}, log, clock.Now),
		Polling: config.PollingConfig{OrderInterval: 15 * time.Second, LocationInterval: 10 * time.Second, RiderInterval: 8 * time.Second},
	}

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(deps, testSecret, log)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &harness{
		fx:       fx,
		clock:    clock,
		conn:     conn,
		customer: deliveryv1.NewCustomerServiceClient(conn),
		rider:    deliveryv1.NewRiderServiceClient(conn),
		admin:    deliveryv1.NewAdminServiceClient(conn),
		deps:     deps,
	}
}

func (h *harness) as(t *testing.T, name, kind string) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return testutil.OutgoingBearer(ctx, testutil.GenerateJWTHS256(t, testSecret, name, kind))
}

func placeRequest(t *testing.T, total string) *deliveryv1.PlaceOrderRequest {
	o := testutil.NewOrder(t, 0, models.PaymentCOD, total)
	return &deliveryv1.PlaceOrderRequest{
		ItemsPrice:           o.ItemsPrice,
		ShippingPrice:        o.ShippingPrice,
		ShippingExtraPrice:   o.ShippingExtraPrice,
		CouponDiscountAmount: o.CouponDiscountAmount,
		TotalPrice:           o.TotalPrice,
		PaymentMethod:        string(o.PaymentMethod),
		DeliverySpeed:        string(o.DeliverySpeed),
		Shop:                 testutil.Shop,
		Shipping:             testutil.Home,
	}
}

func TestDeliveryFlowOverGRPC(t *testing.T) {
	h := newHarness(t, "grpc_flow")
	alice := h.as(t, "alice", auth.KindCustomer)
	rider1 := h.as(t, "rider1", auth.KindRider)
	rider2 := h.as(t, "rider2", auth.KindRider)
	root := h.as(t, "root", auth.KindAdmin)

	placed, err := h.customer.PlaceOrder(alice, placeRequest(t, "100"))
	require.NoError(t, err)
	orderID := placed.Order.ID

	got, err := h.customer.GetOrder(alice, &deliveryv1.OrderIDRequest{OrderID: orderID})
	require.NoError(t, err)
	assert.True(t, got.Detail.Cancelable)
	assert.EqualValues(t, 15000, got.PollIntervalMs)

	home, err := h.rider.ListOrders(rider1, &deliveryv1.ListRiderOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, home.Orders.NewNormal, 1)
	assert.EqualValues(t, 8000, home.PollIntervalMs)

	_, err = h.rider.ClaimOrder(rider1, &deliveryv1.OrderIDRequest{OrderID: orderID})
	require.NoError(t, err)
	_, err = h.rider.ClaimOrder(rider2, &deliveryv1.OrderIDRequest{OrderID: orderID})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = h.customer.CancelOrder(alice, &deliveryv1.CancelOrderRequest{OrderID: orderID, Reason: "Changed my mind"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = h.rider.DepartOrder(rider1, &deliveryv1.DepartOrderRequest{OrderID: orderID})
	require.NoError(t, err)
	_, err = h.rider.ReportLocation(rider1, &deliveryv1.ReportLocationRequest{OrderID: orderID, Lat: testutil.Home.Lat - 0.009, Lng: testutil.Home.Lng})
	require.NoError(t, err)

	loc, err := h.customer.GetLiveLocation(alice, &deliveryv1.OrderIDRequest{OrderID: orderID})
	require.NoError(t, err)
	assert.Equal(t, models.TrackingActive, loc.Location.State)
	assert.Equal(t, models.PhaseApproaching, loc.Location.Phase)
	assert.NotNil(t, loc.Location.ETAMinutes)
	assert.EqualValues(t, 10000, loc.PollIntervalMs)

	delivered, err := h.rider.DeliverOrder(rider1, &deliveryv1.OrderIDRequest{OrderID: orderID})
	require.NoError(t, err)
	require.NotNil(t, delivered.COD)
	assert.True(t, delivered.COD.Amount.Equal(testutil.Dec(t, "100")))
	again, err := h.rider.DeliverOrder(rider1, &deliveryv1.OrderIDRequest{OrderID: orderID})
	require.NoError(t, err)
	assert.True(t, again.Repeated)

	loc, err = h.customer.GetLiveLocation(alice, &deliveryv1.OrderIDRequest{OrderID: orderID})
	require.NoError(t, err)
	assert.Equal(t, models.TrackingClosed, loc.Location.State)
	assert.Zero(t, loc.PollIntervalMs)
	got, err = h.customer.GetOrder(alice, &deliveryv1.OrderIDRequest{OrderID: orderID})
	require.NoError(t, err)
	assert.True(t, got.Detail.Paid)
	assert.Zero(t, got.PollIntervalMs)

	wallet, err := h.rider.GetWallet(rider1, &deliveryv1.GetWalletRequest{})
	require.NoError(t, err)
	assert.True(t, wallet.Wallet.CashInHand.Equal(testutil.Dec(t, "100")))
	assert.False(t, wallet.Wallet.PayoutAvailable)
	_, err = h.rider.RequestPayout(rider1, &deliveryv1.RequestPayoutRequest{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	rr, err := h.customer.RequestReturn(alice, &deliveryv1.RequestReturnRequest{OrderID: orderID, Reason: "damaged"})
	require.NoError(t, err)
	_, err = h.admin.AcceptReturn(root, &deliveryv1.AcceptReturnRequest{ReturnID: rr.Return.ID, PickupRiderID: &h.fx.Rider2ID})
	require.NoError(t, err)
	pickups, err := h.rider.ListPickups(rider2, &deliveryv1.ListReturnsRequest{})
	require.NoError(t, err)
	require.Len(t, pickups.Returns, 1)
	_, err = h.rider.MarkReturnPickedUp(rider2, &deliveryv1.ReturnIDRequest{ReturnID: rr.Return.ID})
	require.NoError(t, err)

	refunded, err := h.admin.MarkRefunded(root, &deliveryv1.MarkRefundedRequest{ReturnID: rr.Return.ID, Amount: testutil.Dec(t, "40"), Mode: "cash"})
	require.NoError(t, err)
	assert.Equal(t, models.ReturnCompleted, refunded.Return.Status)
	_, err = h.admin.MarkRefunded(root, &deliveryv1.MarkRefundedRequest{ReturnID: rr.Return.ID, Amount: testutil.Dec(t, "60"), Mode: "cash"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	balances, err := h.admin.ListRiderBalances(root, &deliveryv1.ListRiderBalancesRequest{Range: "today"})
	require.NoError(t, err)
	require.Len(t, balances.Balances, 2)
	assert.Equal(t, h.fx.RiderID, balances.Balances[0].Rider.ID)
	assert.True(t, balances.Balances[0].CashInHand.Equal(testutil.Dec(t, "100")))

	ov, err := h.admin.GetRiderOverview(root, &deliveryv1.GetRiderOverviewRequest{RiderID: h.fx.RiderID, Range: "week"})
	require.NoError(t, err)
	assert.Len(t, ov.Overview.Orders, 1)
	assert.Equal(t, 1, ov.Overview.COD.RecordCount)

	issues, err := h.admin.VerifyRider(root, &deliveryv1.VerifyRiderRequest{RiderID: h.fx.RiderID})
	require.NoError(t, err)
	assert.Empty(t, issues.Issues)
}

func TestAuthAndErrors(t *testing.T) {
	h := newHarness(t, "grpc_auth")
	alice := h.as(t, "alice", auth.KindCustomer)

	_, err := h.customer.GetOrder(context.Background(), &deliveryv1.OrderIDRequest{OrderID: 1})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.admin.ListOrders(alice, &deliveryv1.ListOrdersRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	spoofed := h.as(t, "alice", auth.KindAdmin)
	_, err = h.admin.ListOrders(spoofed, &deliveryv1.ListOrdersRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err), "admin kind without admin role")

	_, err = h.customer.GetOrder(alice, &deliveryv1.OrderIDRequest{OrderID: 404})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.customer.CancelOrder(alice, &deliveryv1.CancelOrderRequest{OrderID: 1, Reason: "because"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	var header metadata.MD
	reasons, err := h.customer.ListCancelReasons(alice, &deliveryv1.ListCancelReasonsRequest{}, grpc.Header(&header))
	require.NoError(t, err)
	if diff := cmp.Diff(models.CancelReasons, reasons.Reasons); diff != "" {
		t.Errorf("cancel reasons mismatch (-want +got):\n%s", diff)
	}
	assert.NotEmpty(t, header.Get(requestIDHeader))

	hc, err := healthpb.NewHealthClient(h.conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.Status)
}

func TestAdminListOrdersPagination(t *testing.T) {
	h := newHarness(t, "grpc_admin_pages")
	alice := h.as(t, "alice", auth.KindCustomer)
	root := h.as(t, "root", auth.KindAdmin)

	var placed []int64
	for i := 0; i < 3; i++ {
		resp, err := h.customer.PlaceOrder(alice, placeRequest(t, "50"))
		require.NoError(t, err)
		placed = append(placed, resp.Order.ID)
	}
	_, err := h.admin.CancelOrder(root, &deliveryv1.AdminCancelOrderRequest{OrderID: placed[0], Reason: "duplicate"})
	require.NoError(t, err)

	var seen []int64
	token := ""
	for page := 0; page < 5; page++ {
		resp, err := h.admin.ListOrders(root, &deliveryv1.ListOrdersRequest{PageSize: 2, PageToken: token})
		require.NoError(t, err)
		for _, o := range resp.Orders {
			seen = append(seen, o.ID)
		}
		if resp.NextPageToken == "" {
			break
		}
		token = resp.NextPageToken
	}
	assert.Equal(t, []int64{placed[2], placed[1], placed[0]}, seen)

	resp, err := h.admin.ListOrders(root, &deliveryv1.ListOrdersRequest{Statuses: []string{"cancelled"}})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, placed[0], resp.Orders[0].ID)

	_, err = h.admin.ListOrders(root, &deliveryv1.ListOrdersRequest{PageToken: "!!"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = h.admin.ListOrders(root, &deliveryv1.ListOrdersRequest{Statuses: []string{"lost"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
