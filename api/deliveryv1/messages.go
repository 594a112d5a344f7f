package deliveryv1

import (
	"time"

	"github.com/shopspring/decimal"

	"riderDelivery/models"
)

// Shared messages.

type OrderIDRequest struct {
	OrderID int64 `json:"order_id"`
}

type ReturnIDRequest struct {
	ReturnID int64 `json:"return_id"`
}

type OrderResponse struct {
	Order *models.Order `json:"order"`
}

type AssignmentResponse struct {
	Assignment *models.DeliveryAssignment `json:"assignment"`
}

type LiveLocationResponse struct {
	Location *models.LiveLocation `json:"location"`
	// PollIntervalMs is the cadence the client should keep polling at; 0 means stop.
	PollIntervalMs int64 `json:"poll_interval_ms"`
}

type ReturnResponse struct {
	Return *models.ReturnRequest `json:"return"`
}

type ListReturnsRequest struct {
	Status string `json:"status,omitempty"` // admin filter; ignored for customers and riders
}

type ListReturnsResponse struct {
	Returns []models.ReturnRequest `json:"returns"`
}

type FailOrderRequest struct {
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

// Customer messages.

type PlaceOrderRequest struct {
	ItemsPrice           decimal.Decimal    `json:"items_price"`
	ShippingPrice        decimal.Decimal    `json:"shipping_price"`
	ShippingExtraPrice   decimal.Decimal    `json:"shipping_extra_price"`
	CouponDiscountAmount decimal.Decimal    `json:"coupon_discount_amount"`
	TotalPrice           decimal.Decimal    `json:"total_price"`
	PaymentMethod        string             `json:"payment_method"`
	DeliverySpeed        string             `json:"delivery_speed"`
	Shop                 models.Coordinates `json:"shop"`
	Shipping             models.Coordinates `json:"shipping"`
}

type GetOrderResponse struct {
	Detail *models.OrderDetail `json:"detail"`
	// PollIntervalMs is the cadence the client should keep polling at; 0 means stop.
	PollIntervalMs int64 `json:"poll_interval_ms"`
}

type ListMyOrdersRequest struct{}

type ListMyOrdersResponse struct {
	Orders []models.OrderDetail `json:"orders"`
}

type CancelOrderRequest struct {
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
	Detail  string `json:"detail,omitempty"` // free text when Reason is "Other"
}

type ListCancelReasonsRequest struct{}

type ListCancelReasonsResponse struct {
	Reasons []string `json:"reasons"`
}

type RequestReturnRequest struct {
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

// Rider messages.

type ListRiderOrdersRequest struct{}

type ListRiderOrdersResponse struct {
	Orders         *models.RiderOrders `json:"orders"`
	PollIntervalMs int64               `json:"poll_interval_ms"`
}

type DepartOrderRequest struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status,omitempty"` // enroute (default) or onway
}

type DeliverOrderResponse struct {
	Order    *models.Order     `json:"order"`
	COD      *models.CODRecord `json:"cod,omitempty"`
	Repeated bool              `json:"repeated"`
}

type ReportLocationRequest struct {
	OrderID int64   `json:"order_id"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type GetWalletRequest struct{}

type GetWalletResponse struct {
	Wallet *models.Wallet `json:"wallet"`
}

type RequestPayoutRequest struct {
	Method    string `json:"method,omitempty"`
	Reference string `json:"reference,omitempty"`
}

type RequestPayoutResponse struct {
	Settlement *models.Settlement `json:"settlement"`
}

// Admin messages.

type ListOrdersRequest struct {
	Statuses    []string   `json:"statuses,omitempty"`
	CustomerID  *int64     `json:"customer_id,omitempty"`
	CreatedFrom *time.Time `json:"created_from,omitempty"`
	CreatedTo   *time.Time `json:"created_to,omitempty"`
	PageSize    int32      `json:"page_size,omitempty"`
	PageToken   string     `json:"page_token,omitempty"`
}

type ListOrdersResponse struct {
	Orders        []models.Order `json:"orders"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

type AdminCancelOrderRequest struct {
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

type ReassignOrderRequest struct {
	OrderID int64 `json:"order_id"`
	RiderID int64 `json:"rider_id"`
}

type AcceptReturnRequest struct {
	ReturnID      int64  `json:"return_id"`
	PickupRiderID *int64 `json:"pickup_rider_id,omitempty"`
	Note          string `json:"note,omitempty"`
}

type AssignPickupRequest struct {
	ReturnID int64 `json:"return_id"`
	RiderID  int64 `json:"rider_id"`
}

type RejectReturnRequest struct {
	ReturnID int64  `json:"return_id"`
	Note     string `json:"note,omitempty"`
}

type MarkRefundedRequest struct {
	ReturnID  int64           `json:"return_id"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode"`
	Reference string          `json:"reference,omitempty"`
	Note      string          `json:"note,omitempty"`
}

type GetRiderOverviewRequest struct {
	RiderID int64  `json:"rider_id"`
	Range   string `json:"range,omitempty"` // today | week | month | lifetime
}

type GetRiderOverviewResponse struct {
	Overview *models.RiderOverview `json:"overview"`
}

type ListRiderBalancesRequest struct {
	Search string `json:"search,omitempty"` // matches rider name, village or phone
	Range  string `json:"range,omitempty"`
}

type ListRiderBalancesResponse struct {
	Balances []models.RiderBalance `json:"balances"`
}

type VerifyRiderRequest struct {
	RiderID int64 `json:"rider_id"`
}

type VerifyRiderResponse struct {
	Issues []models.IntegrityIssue `json:"issues"`
}
