// Package poller drives client-side polling of an order and its live location.
// One Coordinator serves one screen or session; cancelling its context tears down
// every loop it started.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"riderDelivery/models"
)

// Config holds the poll cadence. A zero LocationPollInterval disables location polling.
type Config struct {
	OrderPollInterval    time.Duration
	LocationPollInterval time.Duration
}

// Source fetches the state being polled.
type Source interface {
	OrderDetail(ctx context.Context, orderID int64) (*models.OrderDetail, error)
	LiveLocation(ctx context.Context, orderID int64) (*models.LiveLocation, error)
}

// Handlers receive poll results. Any of them may be nil.
type Handlers struct {
	Order    func(*models.OrderDetail)
	Location func(*models.LiveLocation)
	// Error is told about failed polls; the loop keeps going on its next tick.
	Error func(kind string, err error)
}

// Snapshot is the last successfully polled state.
type Snapshot struct {
	Order    *models.OrderDetail
	Location *models.LiveLocation
}

type Coordinator struct {
	cfg     Config
	src     Source
	orderID int64
	h       Handlers

	mu   sync.Mutex
	last Snapshot
}

func New(cfg Config, src Source, orderID int64, h Handlers) (*Coordinator, error) {
	if cfg.OrderPollInterval <= 0 {
		return nil, errors.New("poller: order poll interval must be positive")
	}
	if cfg.LocationPollInterval < 0 {
		return nil, errors.New("poller: location poll interval must not be negative")
	}
	if src == nil {
		return nil, errors.New("poller: source is required")
	}
	return &Coordinator{cfg: cfg, src: src, orderID: orderID, h: h}, nil
}

// Run polls until the order becomes terminal (returns nil) or ctx ends (returns ctx.Err()).
func (c *Coordinator) Run(ctx context.Context) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return Every(gctx, c.cfg.OrderPollInterval, func(ctx context.Context) error {
			d, err := c.src.OrderDetail(ctx, c.orderID)
			if err != nil {
				c.report("order", err)
				return nil
			}
			c.mu.Lock()
			c.last.Order = d
			c.mu.Unlock()
			if c.h.Order != nil {
				c.h.Order(d)
			}
			if d != nil && d.Order != nil && d.Order.DeliveryStatus.Terminal() {
				stop()
			}
			return nil
		})
	})
	if c.cfg.LocationPollInterval > 0 {
		g.Go(func() error {
			return Every(gctx, c.cfg.LocationPollInterval, func(ctx context.Context) error {
				loc, err := c.src.LiveLocation(ctx, c.orderID)
				if err != nil {
					c.report("location", err)
					return nil
				}
				c.mu.Lock()
				c.last.Location = loc
				c.mu.Unlock()
				if c.h.Location != nil {
					c.h.Location(loc)
				}
				if loc != nil && loc.State == models.TrackingClosed {
					stop()
				}
				return nil
			})
		})
	}

	err := g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Last returns the most recent successful poll results.
func (c *Coordinator) Last() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Coordinator) report(kind string, err error) {
	if c.h.Error != nil && !errors.Is(err, context.Canceled) {
		c.h.Error(kind, err)
	}
}

// Every calls fn immediately and then on every tick until ctx ends or fn returns an
// error. It returns ctx.Err() on cancellation.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return err
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := fn(ctx); err != nil {
				return err
			}
		}
	}
}
