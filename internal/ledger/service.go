// Package ledger exposes the rider COD ledger: cash in hand, wallet, batched payouts,
// the admin cash dashboard and reconciliation.
package ledger

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"riderDelivery/internal/apperr"
	"riderDelivery/models"
	"riderDelivery/repository"
)

const (
	DefaultPayoutMethod = "cash"
	recentCODLimit      = 10
	recentSettlements   = 5
	maxMethodLen        = 50
)

// Config holds the payout rules.
type Config struct {
	BatchSize int
}

// Service owns the COD ledger and the admin views over it.
type Service struct {
	cod    repository.CODRepositoryI
	orders repository.OrderRepositoryI
	riders repository.RiderRepositoryI
	cfg    Config
	log    *zap.Logger
	now    func() time.Time
}

// NewService builds a ledger service. A nil log discards output.
func NewService(cod repository.CODRepositoryI, orders repository.OrderRepositoryI, riders repository.RiderRepositoryI, cfg Config, log *zap.Logger, now func() time.Time) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{cod: cod, orders: orders, riders: riders, cfg: cfg, log: log, now: now}
}

// BatchSize is the number of records one payout settles.
func (s *Service) BatchSize() int { return s.cfg.BatchSize }

// CashInHand is the sum of the rider's unsettled COD records and their count.
func (s *Service) CashInHand(ctx context.Context, riderID int64) (decimal.Decimal, int, error) {
	if _, err := s.rider(ctx, riderID); err != nil {
		return decimal.Zero, 0, err
	}
	cash, n, err := s.cod.CashInHand(ctx, riderID)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("cash in hand: %w", err)
	}
	return cash, n, nil
}

// Wallet builds the rider wallet screen.
func (s *Service) Wallet(ctx context.Context, riderID int64) (*models.Wallet, error) {
	cash, n, err := s.CashInHand(ctx, riderID)
	if err != nil {
		return nil, err
	}
	recent, err := s.cod.ListRecent(ctx, riderID, recentCODLimit)
	if err != nil {
		return nil, fmt.Errorf("recent cod: %w", err)
	}
	settlements, err := s.cod.ListSettlements(ctx, riderID, nil, recentSettlements)
	if err != nil {
		return nil, fmt.Errorf("recent settlements: %w", err)
	}
	if recent == nil {
		recent = []models.CODRecord{}
	}
	if settlements == nil {
		settlements = []models.Settlement{}
	}
	return &models.Wallet{
		RiderID:           riderID,
		CashInHand:        cash,
		UnpaidOrdersCount: n,
		BatchSize:         s.cfg.BatchSize,
		PayoutAvailable:   n >= s.cfg.BatchSize,
		RecentCOD:         recent,
		RecentSettlements: settlements,
	}, nil
}

// RequestPayout settles the rider's oldest batch of unsettled collections. Method
// defaults to cash and reference to a generated "PO-" id.
func (s *Service) RequestPayout(ctx context.Context, riderID int64, method, reference string) (*models.Settlement, error) {
	if _, err := s.rider(ctx, riderID); err != nil {
		return nil, err
	}
	method = strings.TrimSpace(method)
	if method == "" {
		method = DefaultPayoutMethod
	}
	if len(method) > maxMethodLen {
		return nil, fmt.Errorf("%w: payout method too long", models.ErrValidation)
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		reference = "PO-" + uuid.NewString()
	}

	st, batch, err := s.cod.CreateSettlement(ctx, riderID, s.cfg.BatchSize, method, reference, s.now())
	if err != nil {
		apperr.Log(s.log, "payout failed", err, zap.Int64("rider_id", riderID))
		return nil, fmt.Errorf("payout: %w", err)
	}
	s.log.Info("payout settled",
		zap.Int64("rider_id", riderID),
		zap.Int64("settlement_id", st.ID),
		zap.Int("records", len(batch)),
		zap.String("total", st.TotalAmount.String()),
		zap.String("reference", st.Reference),
	)
	return st, nil
}

// Settlements lists the rider's settlements in the range, newest first.
func (s *Service) Settlements(ctx context.Context, riderID int64, rng models.DateRange) ([]models.Settlement, error) {
	since, err := s.since(rng)
	if err != nil {
		return nil, err
	}
	if _, err := s.rider(ctx, riderID); err != nil {
		return nil, err
	}
	list, err := s.cod.ListSettlements(ctx, riderID, since, 0)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	return list, nil
}

// RiderOverview is the admin drill-down for one rider in a date range.
func (s *Service) RiderOverview(ctx context.Context, riderID int64, rng models.DateRange) (*models.RiderOverview, error) {
	since, err := s.since(rng)
	if err != nil {
		return nil, err
	}
	rd, err := s.rider(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if rng == "" {
		rng = models.RangeLifetime
	}
	out := &models.RiderOverview{Rider: *rd, Range: rng}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cash, _, err := s.cod.CashInHand(gctx, riderID)
		out.CashInHand = cash
		return err
	})
	g.Go(func() error {
		list, err := s.orders.ListForRider(gctx, riderID, since)
		out.Orders = list
		return err
	})
	g.Go(func() error {
		sum, err := s.cod.Summary(gctx, riderID, since)
		out.COD = sum
		return err
	})
	g.Go(func() error {
		list, err := s.cod.ListSettlements(gctx, riderID, since, 0)
		out.Settlements = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rider overview: %w", err)
	}
	if out.Orders == nil {
		out.Orders = []models.Order{}
	}
	if out.Settlements == nil {
		out.Settlements = []models.Settlement{}
	}
	return out, nil
}

// ListRiderBalances is the admin cash table. Cash in hand is always current;
// settled totals and delivered counts honour the range. Riders holding the most
// cash come first.
func (s *Service) ListRiderBalances(ctx context.Context, search string, rng models.DateRange) ([]models.RiderBalance, error) {
	since, err := s.since(rng)
	if err != nil {
		return nil, err
	}
	var (
		riders    []models.Rider
		totals    map[int64]*repository.RiderTotals
		delivered map[int64]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		riders, err = s.riders.Search(gctx, search)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.cod.TotalsByRider(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		delivered, err = s.orders.DeliveredCountByRider(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rider balances: %w", err)
	}

	out := make([]models.RiderBalance, 0, len(riders))
	for _, rd := range riders {
		b := models.RiderBalance{Rider: rd, CashInHand: decimal.Zero, SettledTotal: decimal.Zero, DeliveredCount: delivered[rd.ID]}
		if t := totals[rd.ID]; t != nil {
			b.CashInHand = t.CashInHand
			b.UnsettledCount = t.UnsettledCount
			b.SettledTotal = t.SettledTotal
			b.LastSettlement = t.LastSettlement
		}
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b models.RiderBalance) int {
		if c := b.CashInHand.Cmp(a.CashInHand); c != 0 {
			return c
		}
		return cmp.Compare(a.Rider.Name, b.Rider.Name)
	})
	return out, nil
}

// VerifyRider runs the reconciliation checks for one rider. Problems are logged for
// follow-up and returned; nothing is corrected.
func (s *Service) VerifyRider(ctx context.Context, riderID int64) ([]models.IntegrityIssue, error) {
	if _, err := s.rider(ctx, riderID); err != nil {
		return nil, err
	}
	issues, err := s.cod.IntegrityIssues(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("integrity check: %w", err)
	}
	for _, is := range issues {
		s.log.Error("ledger integrity issue",
			zap.Bool("integrity", true),
			zap.Int64("rider_id", riderID),
			zap.String("issue", is.Kind),
			zap.Int64("order_id", is.OrderID),
			zap.String("detail", is.Detail),
		)
	}
	if issues == nil {
		issues = []models.IntegrityIssue{}
	}
	return issues, nil
}

func (s *Service) since(rng models.DateRange) (*time.Time, error) {
	if !rng.Valid() {
		return nil, fmt.Errorf("%w: unknown date range %q", models.ErrValidation, rng)
	}
	return rng.Since(s.now()), nil
}

func (s *Service) rider(ctx context.Context, id int64) (*models.Rider, error) {
	rd, err := s.riders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get rider: %w", err)
	}
	if rd == nil {
		return nil, fmt.Errorf("%w: rider %d", models.ErrNotFound, id)
	}
	return rd, nil
}
