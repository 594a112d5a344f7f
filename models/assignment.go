package models

import "time"

// Phase is a coarse, human-readable stage of an in-progress delivery.
type Phase string

const (
	PhaseUnknown      Phase = "unknown"
	PhaseAtShop       Phase = "at_shop"
	PhaseOnTheWay     Phase = "on_the_way"
	PhaseApproaching  Phase = "approaching"
	PhaseNearCustomer Phase = "near_customer"
)

// DeliveryAssignment binds an order to a rider. At most one assignment per order is
// active; reassignment closes the old row and opens a new one.
//
// Shop and customer coordinates are copied from the order at assignment time so the
// tracking map does not move if the order is edited later. The rider position is the
// last LiveLocationSample and is overwritten on every report.
type DeliveryAssignment struct {
	ID      int64 `db:"id" json:"id"`
	OrderID int64 `db:"order_id" json:"order_id"`
	RiderID int64 `db:"rider_id" json:"rider_id"`
	Active  bool  `db:"active" json:"active"`

	ShopLat     float64 `db:"shop_lat" json:"shop_lat"`
	ShopLng     float64 `db:"shop_lng" json:"shop_lng"`
	CustomerLat float64 `db:"customer_lat" json:"customer_lat"`
	CustomerLng float64 `db:"customer_lng" json:"customer_lng"`

	RiderLat   *float64   `db:"rider_lat" json:"rider_lat,omitempty"`
	RiderLng   *float64   `db:"rider_lng" json:"rider_lng,omitempty"`
	SampledAt  *time.Time `db:"sampled_at" json:"sampled_at,omitempty"`
	ETAMinutes *int       `db:"eta_minutes" json:"eta_minutes,omitempty"`
	Phase      Phase      `db:"phase" json:"phase"`

	AssignedAt  time.Time  `db:"assigned_at" json:"assigned_at"`
	ClosedAt    *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	CloseReason string     `db:"close_reason" json:"close_reason,omitempty"`
}

// Shop returns the pickup point captured at assignment time.
func (a *DeliveryAssignment) Shop() Coordinates {
	return Coordinates{Lat: a.ShopLat, Lng: a.ShopLng}
}

// Customer returns the drop-off point captured at assignment time.
func (a *DeliveryAssignment) Customer() Coordinates {
	return Coordinates{Lat: a.CustomerLat, Lng: a.CustomerLng}
}

// Sample returns the last reported rider position, or nil if the rider never reported.
func (a *DeliveryAssignment) Sample() *LiveLocationSample {
	if a == nil || a.RiderLat == nil || a.RiderLng == nil || a.SampledAt == nil {
		return nil
	}
	return &LiveLocationSample{
		Rider:      Coordinates{Lat: *a.RiderLat, Lng: *a.RiderLng},
		At:         *a.SampledAt,
		ETAMinutes: a.ETAMinutes,
	}
}

// LiveLocationSample is an ephemeral rider position. Each report replaces the previous one.
type LiveLocationSample struct {
	Rider      Coordinates `json:"rider"`
	At         time.Time   `json:"at"`
	ETAMinutes *int        `json:"eta_minutes,omitempty"`
}

// Fresh reports whether the sample is recent enough to drive phase inference.
func (s *LiveLocationSample) Fresh(now time.Time, maxAge time.Duration) bool {
	if s == nil {
		return false
	}
	return now.Sub(s.At) <= maxAge
}

// RiderOrders is the rider home screen: orders already held by the rider and new
// orders they could claim, each split into the fast and normal lanes.
type RiderOrders struct {
	ActiveFast   []Order `json:"active_fast"`
	ActiveNormal []Order `json:"active_normal"`
	NewFast      []Order `json:"new_fast"`
	NewNormal    []Order `json:"new_normal"`
}

// TrackingState tells the customer app how to render a live-location poll.
type TrackingState string

const (
	TrackingActive  TrackingState = "active"   // fresh sample, phase and ETA are meaningful
	TrackingStale   TrackingState = "stale"    // last sample is too old; phase and ETA unknown
	TrackingNoRider TrackingState = "no_rider" // nobody holds the order yet
	TrackingClosed  TrackingState = "closed"   // order is terminal; stop polling
)

// LiveLocation is the answer to a live-location poll.
type LiveLocation struct {
	OrderID    int64          `json:"order_id"`
	Status     DeliveryStatus `json:"status"`
	State      TrackingState  `json:"state"`
	RiderID    int64          `json:"rider_id,omitempty"`
	Rider      *Coordinates   `json:"rider,omitempty"`
	Shop       *Coordinates   `json:"shop,omitempty"`
	Customer   *Coordinates   `json:"customer,omitempty"`
	Phase      Phase          `json:"phase"`
	ETAMinutes *int           `json:"eta_minutes,omitempty"`
	SampledAt  *time.Time     `json:"sampled_at,omitempty"`
}
