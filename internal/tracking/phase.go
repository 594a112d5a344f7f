// Package tracking derives delivery phase and ETA from rider positions and relays
// the latest sample to polling customers.
package tracking

import (
	"math"
	"time"

	"riderDelivery/internal/geo"
	"riderDelivery/models"
)

// Distance thresholds in kilometres.
const (
	AtShopKm       = 0.3
	NearCustomerKm = 0.3
	ApproachingKm  = 1.5
)

// InferPhase classifies a rider position relative to the shop and the customer.
// The shop check wins when both points are within range, so a parcel that has not
// left yet is never reported as arriving.
func InferPhase(rider, shop, customer models.Coordinates) models.Phase {
	if geo.HaversineKm(rider.Lat, rider.Lng, shop.Lat, shop.Lng) < AtShopKm {
		return models.PhaseAtShop
	}
	toCustomer := geo.HaversineKm(rider.Lat, rider.Lng, customer.Lat, customer.Lng)
	switch {
	case toCustomer < NearCustomerKm:
		return models.PhaseNearCustomer
	case toCustomer < ApproachingKm:
		return models.PhaseApproaching
	default:
		return models.PhaseOnTheWay
	}
}

// ETAMinutes estimates minutes to the customer at speedKmh. It returns nil when the
// sample is missing or older than maxAge, or when the speed is not positive.
func ETAMinutes(s *models.LiveLocationSample, customer models.Coordinates, speedKmh float64, now time.Time, maxAge time.Duration) *int {
	if s == nil || speedKmh <= 0 || !s.Fresh(now, maxAge) {
		return nil
	}
	km := geo.HaversineKm(s.Rider.Lat, s.Rider.Lng, customer.Lat, customer.Lng)
	m := int(math.Ceil(km / speedKmh * 60))
	return &m
}
