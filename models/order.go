package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "Online"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

// DeliverySpeed selects the normal or the fast (surcharged) delivery lane.
type DeliverySpeed string

const (
	SpeedNormal DeliverySpeed = "normal"
	SpeedFast   DeliverySpeed = "fast"
)

// Valid reports whether s is a known delivery speed.
func (s DeliverySpeed) Valid() bool {
	return s == SpeedNormal || s == SpeedFast
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Order is a customer purchase. It is never deleted; terminal orders stay as history.
//
// Prices are a snapshot taken at checkout. ShippingPrice already contains
// ShippingExtraPrice (the fast-delivery surcharge), so
// TotalPrice == ItemsPrice + ShippingPrice - CouponDiscountAmount.
type Order struct {
	ID         int64 `db:"id" json:"id"`
	CustomerID int64 `db:"customer_id" json:"customer_id"`

	ItemsPrice           decimal.Decimal `db:"items_price" json:"items_price"`
	ShippingPrice        decimal.Decimal `db:"shipping_price" json:"shipping_price"`
	ShippingExtraPrice   decimal.Decimal `db:"shipping_extra_price" json:"shipping_extra_price"`
	CouponDiscountAmount decimal.Decimal `db:"coupon_discount_amount" json:"coupon_discount_amount"`
	TotalPrice           decimal.Decimal `db:"total_price" json:"total_price"`

	PaymentMethod PaymentMethod `db:"payment_method" json:"payment_method"`
	// PaidAt is only meaningful for Online orders. COD orders are paid on delivery.
	PaidAt *time.Time `db:"paid_at" json:"paid_at,omitempty"`

	DeliveryStatus DeliveryStatus `db:"delivery_status" json:"delivery_status"`
	DeliverySpeed  DeliverySpeed  `db:"delivery_speed" json:"delivery_speed"`

	ShopLat     float64 `db:"shop_lat" json:"shop_lat"`
	ShopLng     float64 `db:"shop_lng" json:"shop_lng"`
	ShippingLat float64 `db:"shipping_lat" json:"shipping_lat"`
	ShippingLng float64 `db:"shipping_lng" json:"shipping_lng"`

	CancelReason  string     `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CancelledAt   *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	FailureReason string     `db:"failure_reason" json:"failure_reason,omitempty"`
	DeliveredAt   *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Shop returns the pickup point.
func (o *Order) Shop() Coordinates {
	return Coordinates{Lat: o.ShopLat, Lng: o.ShopLng}
}

// Shipping returns the drop-off point.
func (o *Order) Shipping() Coordinates {
	return Coordinates{Lat: o.ShippingLat, Lng: o.ShippingLng}
}

// IsPaid derives the paid state. Online orders are paid once PaidAt is set,
// COD orders once they are delivered. It is never stored.
func (o *Order) IsPaid() bool {
	if o == nil {
		return false
	}
	switch o.PaymentMethod {
	case PaymentOnline:
		return o.PaidAt != nil
	case PaymentCOD:
		return o.DeliveryStatus == StatusDelivered
	}
	return false
}

// IsDelivered reports whether the order reached the customer.
func (o *Order) IsDelivered() bool {
	return o != nil && o.DeliveryStatus == StatusDelivered
}

// ExpectedTotal recomputes the total from the price components.
func (o *Order) ExpectedTotal() decimal.Decimal {
	return o.ItemsPrice.Add(o.ShippingPrice).Sub(o.CouponDiscountAmount)
}

// ValidatePricing checks the pricing snapshot invariants.
func (o *Order) ValidatePricing() error {
	for name, v := range map[string]decimal.Decimal{
		"items_price":            o.ItemsPrice,
		"shipping_price":         o.ShippingPrice,
		"shipping_extra_price":   o.ShippingExtraPrice,
		"coupon_discount_amount": o.CouponDiscountAmount,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, name)
		}
	}
	if o.ShippingExtraPrice.GreaterThan(o.ShippingPrice) {
		return fmt.Errorf("%w: shipping_price must include shipping_extra_price", ErrValidation)
	}
	if o.DeliverySpeed == SpeedNormal && !o.ShippingExtraPrice.IsZero() {
		return fmt.Errorf("%w: fast-delivery surcharge on a normal order", ErrValidation)
	}
	if !o.TotalPrice.Equal(o.ExpectedTotal()) {
		return fmt.Errorf("%w: total_price %s != items + shipping - coupon (%s)", ErrValidation, o.TotalPrice, o.ExpectedTotal())
	}
	if o.TotalPrice.IsNegative() {
		return fmt.Errorf("%w: total_price must not be negative", ErrValidation)
	}
	return nil
}

// OrderDetail is what the customer app polls: the order plus derived flags.
type OrderDetail struct {
	Order      *Order `json:"order"`
	Paid       bool   `json:"paid"`
	Delivered  bool   `json:"delivered"`
	Cancelable bool   `json:"cancelable"`
}
