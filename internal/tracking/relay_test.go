package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riderDelivery/internal/testutil"
	"riderDelivery/models"
	"riderDelivery/repository"
)

func TestRelay_PollLifecycle(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "tracking_relay")
	fx := testutil.Seed(t, d)
	clock := testutil.NewClock()
	ctx := context.Background()

	orders := repository.NewOrderRepository(d)
	assignments := repository.NewAssignmentRepository(d)
	relay := NewRelay(orders, assignments, Config{Freshness: time.Minute, SpeedKmh: 20}, nil, clock.Now)

	o, err := orders.Create(ctx, testutil.NewOrder(t, fx.CustomerID, models.PaymentCOD, "75"), clock.Now())
	require.NoError(t, err)

	loc, err := relay.Poll(ctx, fx.CustomerID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrackingNoRider, loc.State)
	assert.Equal(t, models.PhaseUnknown, loc.Phase)
	assert.Nil(t, loc.Rider)
	assert.Nil(t, loc.ETAMinutes)

	_, err = relay.Poll(ctx, fx.CustomerID+42, o.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = assignments.Claim(ctx, o.ID, fx.RiderID, clock.Now())
	require.NoError(t, err)

	loc, err = relay.Poll(ctx, fx.CustomerID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrackingStale, loc.State, "assigned but never reported")
	assert.Equal(t, fx.RiderID, loc.RiderID)

	_, err = relay.ReportLocation(ctx, fx.Rider2ID, o.ID, testutil.Shop.Lat, testutil.Shop.Lng)
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = relay.ReportLocation(ctx, fx.RiderID, o.ID, 91, 0)
	assert.ErrorIs(t, err, models.ErrValidation)

	near := models.Coordinates{Lat: testutil.Home.Lat - 0.009, Lng: testutil.Home.Lng}
	rep, err := relay.ReportLocation(ctx, fx.RiderID, o.ID, near.Lat, near.Lng)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseApproaching, rep.Phase)

	clock.Advance(10 * time.Second)
	loc, err = relay.Poll(ctx, fx.CustomerID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrackingActive, loc.State)
	assert.Equal(t, models.PhaseApproaching, loc.Phase)
	require.NotNil(t, loc.ETAMinutes)
	assert.Greater(t, *loc.ETAMinutes, 0)
	require.NotNil(t, loc.Rider)
	assert.InDelta(t, near.Lat, loc.Rider.Lat, 1e-9)

	clock.Advance(2 * time.Minute)
	loc, err = relay.Poll(ctx, fx.CustomerID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrackingStale, loc.State)
	assert.Equal(t, models.PhaseUnknown, loc.Phase)
	assert.Nil(t, loc.ETAMinutes)
	assert.NotNil(t, loc.Rider, "last known position is still shown")

	changed, err := orders.Cancel(ctx, o.ID, models.SourcesFor(models.StatusCancelled), "shop closed", clock.Now())
	require.NoError(t, err)
	require.True(t, changed)

	loc, err = relay.Poll(ctx, fx.CustomerID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrackingClosed, loc.State)
	assert.Equal(t, models.StatusCancelled, loc.Status)

	_, err = relay.ReportLocation(ctx, fx.RiderID, o.ID, near.Lat, near.Lng)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	loc, err = relay.Inspect(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrackingClosed, loc.State)
}
