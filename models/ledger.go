package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CODStatus tracks whether collected cash has been handed over to the platform.
type CODStatus string

const (
	CODUnsettled CODStatus = "unsettled"
	CODSettled   CODStatus = "settled"
)

// CODRecord is the cash a rider collected for one delivered COD order.
// Amount is a snapshot of the order total at delivery and never changes.
type CODRecord struct {
	ID           int64           `db:"id" json:"id"`
	OrderID      int64           `db:"order_id" json:"order_id"`
	RiderID      int64           `db:"rider_id" json:"rider_id"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Status       CODStatus       `db:"status" json:"status"`
	SettlementID *int64          `db:"settlement_id" json:"settlement_id,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Settlement clears a fixed-size batch of a rider's oldest unsettled COD records.
type Settlement struct {
	ID          int64           `db:"id" json:"id"`
	RiderID     int64           `db:"rider_id" json:"rider_id"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	RecordCount int             `db:"record_count" json:"record_count"`
	Method      string          `db:"method" json:"method"`
	Reference   string          `db:"reference" json:"reference"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Wallet is the rider wallet screen.
type Wallet struct {
	RiderID           int64           `json:"rider_id"`
	CashInHand        decimal.Decimal `json:"cash_in_hand"`
	UnpaidOrdersCount int             `json:"unpaid_orders_count"`
	BatchSize         int             `json:"batch_size"`
	PayoutAvailable   bool            `json:"payout_available"`
	RecentCOD         []CODRecord     `json:"recent_cod"`
	RecentSettlements []Settlement    `json:"recent_settlements"`
}

// RiderBalance is one row of the admin cash-in-hand table.
type RiderBalance struct {
	Rider          Rider           `json:"rider"`
	CashInHand     decimal.Decimal `json:"cash_in_hand"`
	UnsettledCount int             `json:"unsettled_count"`
	SettledTotal   decimal.Decimal `json:"settled_total"`
	DeliveredCount int             `json:"delivered_count"`
	LastSettlement *time.Time      `json:"last_settlement,omitempty"`
}

// CODSummary aggregates a rider's COD records in a date range.
type CODSummary struct {
	Collected      decimal.Decimal `json:"collected"`
	Settled        decimal.Decimal `json:"settled"`
	Unsettled      decimal.Decimal `json:"unsettled"`
	RecordCount    int             `json:"record_count"`
	UnsettledCount int             `json:"unsettled_count"`
}

// RiderOverview is the admin drill-down for one rider.
type RiderOverview struct {
	Rider       Rider           `json:"rider"`
	Range       DateRange       `json:"range"`
	CashInHand  decimal.Decimal `json:"cash_in_hand"`
	Orders      []Order         `json:"orders"`
	COD         CODSummary      `json:"cod"`
	Settlements []Settlement    `json:"settlements"`
}

// DateRange names the admin dashboard date filters.
type DateRange string

const (
	RangeToday    DateRange = "today"
	RangeWeek     DateRange = "week"
	RangeMonth    DateRange = "month"
	RangeLifetime DateRange = "lifetime"
)

// Since returns the inclusive lower bound of the range, or nil for lifetime.
// Days start at midnight in now's location; a week is the last seven days.
func (r DateRange) Since(now time.Time) *time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var t time.Time
	switch r {
	case RangeToday:
		t = midnight
	case RangeWeek:
		t = midnight.AddDate(0, 0, -6)
	case RangeMonth:
		t = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return nil
	}
	return &t
}

// Valid reports whether r is a known range. The empty range means lifetime.
func (r DateRange) Valid() bool {
	switch r {
	case "", RangeToday, RangeWeek, RangeMonth, RangeLifetime:
		return true
	}
	return false
}

// IntegrityIssue is a ledger inconsistency found by reconciliation. Issues are
// reported for manual follow-up and never corrected automatically.
type IntegrityIssue struct {
	Kind         string `json:"kind"`
	OrderID      int64  `json:"order_id,omitempty"`
	RecordID     int64  `json:"record_id,omitempty"`
	SettlementID int64  `json:"settlement_id,omitempty"`
	Detail       string `json:"detail"`
}

// Integrity issue kinds.
const (
	IssueMissingCODRecord   = "missing_cod_record"
	IssueCODOnOnlineOrder   = "cod_on_online_order"
	IssueCODAmountMismatch  = "cod_amount_mismatch"
	IssueSettlementMismatch = "settlement_mismatch"
)
