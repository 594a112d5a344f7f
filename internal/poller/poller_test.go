package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riderDelivery/models"
)

type fakeSource struct {
	mu        sync.Mutex
	statuses  []models.DeliveryStatus // consumed per order poll; the last one repeats
	locations []*models.LiveLocation
	locErr    error
	orderHits int
	locHits   int
}

func (f *fakeSource) OrderDetail(_ context.Context, orderID int64) (*models.OrderDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.statuses[min(f.orderHits, len(f.statuses)-1)]
	f.orderHits++
	return &models.OrderDetail{Order: &models.Order{ID: orderID, DeliveryStatus: st}}, nil
}

func (f *fakeSource) LiveLocation(_ context.Context, orderID int64) (*models.LiveLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locHits++
	if f.locErr != nil && f.locHits == 1 {
		return nil, f.locErr
	}
	if len(f.locations) == 0 {
		return &models.LiveLocation{OrderID: orderID, State: models.TrackingNoRider}, nil
	}
	loc := f.locations[min(f.locHits-1, len(f.locations)-1)]
	return loc, nil
}

func TestCoordinator_StopsOnTerminalOrder(t *testing.T) {
	src := &fakeSource{
		statuses: []models.DeliveryStatus{models.StatusAccepted, models.StatusEnRoute, models.StatusDelivered},
		locErr:   errors.New("network down"),
	}
	var errs atomic.Int32
	var orders atomic.Int32
	c, err := New(Config{OrderPollInterval: 5 * time.Millisecond, LocationPollInterval: 5 * time.Millisecond}, src, 7, Handlers{
		Order: func(*models.OrderDetail) { orders.Add(1) },
		Error: func(kind string, err error) {
			assert.Equal(t, "location", kind)
			errs.Add(1)
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	assert.EqualValues(t, 3, orders.Load())
	assert.EqualValues(t, 1, errs.Load(), "a failed poll is reported once and polling continues")
	last := c.Last()
	require.NotNil(t, last.Order)
	assert.Equal(t, models.StatusDelivered, last.Order.Order.DeliveryStatus)
}

func TestCoordinator_StopsOnClosedLocation(t *testing.T) {
	src := &fakeSource{
		statuses: []models.DeliveryStatus{models.StatusEnRoute},
		locations: []*models.LiveLocation{
			{OrderID: 3, State: models.TrackingActive, Phase: models.PhaseApproaching},
			{OrderID: 3, State: models.TrackingClosed},
		},
	}
	c, err := New(Config{OrderPollInterval: time.Hour, LocationPollInterval: 5 * time.Millisecond}, src, 3, Handlers{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx))
	assert.Equal(t, models.TrackingClosed, c.Last().Location.State)
}

func TestCoordinator_ParentCancel(t *testing.T) {
	src := &fakeSource{statuses: []models.DeliveryStatus{models.StatusNew}}
	c, err := New(Config{OrderPollInterval: 5 * time.Millisecond}, src, 1, Handlers{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Run(ctx), context.DeadlineExceeded)

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Greater(t, src.orderHits, 1)
	assert.Zero(t, src.locHits, "location polling disabled")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{}, &fakeSource{}, 1, Handlers{})
	assert.Error(t, err)
	_, err = New(Config{OrderPollInterval: time.Second, LocationPollInterval: -1}, &fakeSource{}, 1, Handlers{})
	assert.Error(t, err)
	_, err = New(Config{OrderPollInterval: time.Second}, nil, 1, Handlers{})
	assert.Error(t, err)
}

func TestEvery_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Every(context.Background(), time.Millisecond, func(context.Context) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}
