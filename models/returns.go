package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundMode is how a refund was paid back.
type RefundMode string

const (
	RefundCash         RefundMode = "cash"
	RefundBankTransfer RefundMode = "bank_transfer"
	RefundMobileWallet RefundMode = "mobile_wallet"
	RefundStoreCredit  RefundMode = "store_credit"
)

// Valid reports whether m is a known refund mode.
func (m RefundMode) Valid() bool {
	switch m {
	case RefundCash, RefundBankTransfer, RefundMobileWallet, RefundStoreCredit:
		return true
	}
	return false
}

// ReturnRequest is a post-delivery return. Refund fields are set only on completion.
type ReturnRequest struct {
	ID            int64        `db:"id" json:"id"`
	OrderID       int64        `db:"order_id" json:"order_id"`
	CustomerID    int64        `db:"customer_id" json:"customer_id"`
	PickupRiderID *int64       `db:"pickup_rider_id" json:"pickup_rider_id,omitempty"`
	Reason        string       `db:"reason" json:"reason"`
	Status        ReturnStatus `db:"status" json:"status"`

	RefundAmount    *decimal.Decimal `db:"refund_amount" json:"refund_amount,omitempty"`
	RefundMode      RefundMode       `db:"refund_mode" json:"refund_mode,omitempty"`
	RefundReference string           `db:"refund_reference" json:"refund_reference,omitempty"`
	AdminNote       string           `db:"admin_note" json:"admin_note,omitempty"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Refund carries the admin's refund reconciliation data.
type Refund struct {
	Amount    decimal.Decimal
	Mode      RefundMode
	Reference string
	Note      string
}
