package orders

import "riderDelivery/models"

// CanCancel is the customer cancellation policy: only orders no rider has
// accepted yet may be cancelled.
func CanCancel(o *models.Order) bool {
	return o != nil && o.DeliveryStatus == models.StatusNew
}

// customerCancelFrom is the stored-status guard for customer cancellation.
// It must agree with CanCancel.
var customerCancelFrom = []models.DeliveryStatus{models.StatusNew}

// riderFailFrom lists the statuses a rider may fail their own order from.
var riderFailFrom = []models.DeliveryStatus{models.StatusAccepted, models.StatusEnRoute, models.StatusOnWay}

// Detail derives the flags the customer order screen shows.
func Detail(o *models.Order) *models.OrderDetail {
	return &models.OrderDetail{
		Order:      o,
		Paid:       o.IsPaid(),
		Delivered:  o.IsDelivered(),
		Cancelable: CanCancel(o),
	}
}
