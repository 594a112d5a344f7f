package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"riderDelivery/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username string, role models.Role) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	SetRole(ctx context.Context, username string, role models.Role) error
}

// RiderRepositoryI defines operations on Rider entities.
type RiderRepositoryI interface {
	Create(ctx context.Context, rd *models.Rider) (*models.Rider, error)
	GetByID(ctx context.Context, id int64) (*models.Rider, error)
	GetByUsername(ctx context.Context, username string) (*models.Rider, error)
	Search(ctx context.Context, query string) ([]models.Rider, error)
}

// OrderRepositoryI defines operations on Order entities.
type OrderRepositoryI interface {
	Create(ctx context.Context, o *models.Order, now time.Time) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	MarkPaid(ctx context.Context, id int64, at time.Time) error
	Depart(ctx context.Context, id, riderID int64, to models.DeliveryStatus, now time.Time) (bool, error)
	Cancel(ctx context.Context, id int64, allowedFrom []models.DeliveryStatus, reason string, now time.Time) (bool, error)
	Fail(ctx context.Context, id int64, allowedFrom []models.DeliveryStatus, riderID *int64, reason string, now time.Time) (bool, error)
	Deliver(ctx context.Context, id, riderID int64, now time.Time) (DeliverResult, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
	ListAvailable(ctx context.Context, limit int) ([]models.Order, error)
	ListActiveForRider(ctx context.Context, riderID int64) ([]models.Order, error)
	ListForRider(ctx context.Context, riderID int64, since *time.Time) ([]models.Order, error)
	DeliveredCountByRider(ctx context.Context, since *time.Time) (map[int64]int, error)
	ListAdmin(ctx context.Context, p ListOrdersAdminParams) ([]models.Order, error)
}

// AssignmentRepositoryI defines operations on DeliveryAssignment entities.
type AssignmentRepositoryI interface {
	Claim(ctx context.Context, orderID, riderID int64, now time.Time) (*models.DeliveryAssignment, error)
	Replace(ctx context.Context, orderID, newRiderID int64, now time.Time) (*models.DeliveryAssignment, error)
	GetActiveByOrder(ctx context.Context, orderID int64) (*models.DeliveryAssignment, error)
	GetLatestByOrder(ctx context.Context, orderID int64) (*models.DeliveryAssignment, error)
	ListActiveByRider(ctx context.Context, riderID int64) ([]models.DeliveryAssignment, error)
	LastRiderPosition(ctx context.Context, riderID int64) (*models.LiveLocationSample, error)
	UpdateSample(ctx context.Context, id, riderID int64, s models.LiveLocationSample, phase models.Phase) (bool, error)
}

// CODRepositoryI defines operations on the COD ledger.
type CODRepositoryI interface {
	GetByOrder(ctx context.Context, orderID int64) (*models.CODRecord, error)
	ListUnsettled(ctx context.Context, riderID int64) ([]models.CODRecord, error)
	ListRecent(ctx context.Context, riderID int64, limit int) ([]models.CODRecord, error)
	CashInHand(ctx context.Context, riderID int64) (decimal.Decimal, int, error)
	Summary(ctx context.Context, riderID int64, since *time.Time) (models.CODSummary, error)
	TotalsByRider(ctx context.Context, since *time.Time) (map[int64]*RiderTotals, error)
	CreateSettlement(ctx context.Context, riderID int64, batchSize int, method, reference string, now time.Time) (*models.Settlement, []models.CODRecord, error)
	ListSettlements(ctx context.Context, riderID int64, since *time.Time, limit int) ([]models.Settlement, error)
	IntegrityIssues(ctx context.Context, riderID int64) ([]models.IntegrityIssue, error)
}

// ReturnRepositoryI defines operations on ReturnRequest entities.
type ReturnRepositoryI interface {
	Create(ctx context.Context, rr *models.ReturnRequest, now time.Time) (*models.ReturnRequest, error)
	GetByID(ctx context.Context, id int64) (*models.ReturnRequest, error)
	GetLiveByOrder(ctx context.Context, orderID int64) (*models.ReturnRequest, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.ReturnRequest, error)
	ListPickupsForRider(ctx context.Context, riderID int64) ([]models.ReturnRequest, error)
	ListAdmin(ctx context.Context, status models.ReturnStatus) ([]models.ReturnRequest, error)
	Accept(ctx context.Context, id int64, pickupRiderID *int64, note string, now time.Time) (*models.ReturnRequest, error)
	AssignPickup(ctx context.Context, id, riderID int64, now time.Time) (*models.ReturnRequest, error)
	Advance(ctx context.Context, id, riderID int64, to models.ReturnStatus, now time.Time) (*models.ReturnRequest, error)
	Reject(ctx context.Context, id int64, note string, now time.Time) (*models.ReturnRequest, error)
	CompleteRefund(ctx context.Context, id int64, refund models.Refund, now time.Time) (*models.ReturnRequest, error)
}

var (
	_ UserRepositoryI       = (*UserRepository)(nil)
	_ RiderRepositoryI      = (*RiderRepository)(nil)
	_ OrderRepositoryI      = (*OrderRepository)(nil)
	_ AssignmentRepositoryI = (*AssignmentRepository)(nil)
	_ CODRepositoryI        = (*CODRepository)(nil)
	_ ReturnRepositoryI     = (*ReturnRepository)(nil)
)
