// Package httpapi is the HTTP gateway the customer app polls: order detail, live
// location, cancellation and return requests. It fronts the same services as the
// gRPC CustomerService.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc/status"

	deliveryv1 "riderDelivery/api/deliveryv1"
	"riderDelivery/internal/apperr"
	"riderDelivery/internal/auth"
	"riderDelivery/internal/config"
	"riderDelivery/models"
)

const (
	maxBodyBytes   = 1 << 16
	requestTimeout = 10 * time.Second
)

type OrderService interface {
	Detail(ctx context.Context, customerID, id int64) (*models.OrderDetail, error)
	Cancel(ctx context.Context, customerID, id int64, reason, detail string) (*models.Order, error)
}

type LocationService interface {
	Poll(ctx context.Context, customerID, orderID int64) (*models.LiveLocation, error)
}

type ReturnService interface {
	RequestReturn(ctx context.Context, customerID, orderID int64, reason string) (*models.ReturnRequest, error)
}

// Handler serves the customer polling endpoints.
type Handler struct {
	users    auth.UserLookup
	orders   OrderService
	location LocationService
	returns  ReturnService
	polling  config.PollingConfig
	logger   *zap.Logger
}

func New(users auth.UserLookup, orders OrderService, location LocationService, returns ReturnService, polling config.PollingConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		users:    users,
		orders:   orders,
		location: location,
		returns:  returns,
		polling:  polling,
		logger:   logger,
	}
}

// Router mounts the gateway. Everything under /api/v1 needs a customer bearer token.
func (h *Handler) Router(secret string) http.Handler {
	r := chi.NewRouter()
	r.Use(Logging(h.logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(auth.Middleware(secret))
		api.Get("/cancel-reasons", h.CancelReasons())
		api.Get("/orders/{id}", h.GetOrder())
		api.Get("/orders/{id}/location", h.GetLiveLocation())
		api.Post("/orders/{id}/cancel", h.CancelOrder())
		api.Post("/orders/{id}/returns", h.RequestReturn())
	})
	return r
}

// GET /api/v1/orders/{id}
func (h *Handler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, id, ok := h.orderRequest(w, r)
		if !ok {
			return
		}
		d, err := h.orders.Detail(r.Context(), u.ID, id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp := deliveryv1.GetOrderResponse{Detail: d}
		if !d.Order.DeliveryStatus.Terminal() {
			resp.PollIntervalMs = h.polling.OrderInterval.Milliseconds()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GET /api/v1/orders/{id}/location
func (h *Handler) GetLiveLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, id, ok := h.orderRequest(w, r)
		if !ok {
			return
		}
		loc, err := h.location.Poll(r.Context(), u.ID, id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp := deliveryv1.LiveLocationResponse{Location: loc}
		if loc.State != models.TrackingClosed {
			resp.PollIntervalMs = h.polling.LocationInterval.Milliseconds()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// POST /api/v1/orders/{id}/cancel
//
//	{"reason": "Other", "detail": "wrong address"}
func (h *Handler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, id, ok := h.orderRequest(w, r)
		if !ok {
			return
		}
		var body deliveryv1.CancelOrderRequest
		if err := decodeBody(w, r, &body); err != nil {
			h.fail(w, r, err)
			return
		}
		o, err := h.orders.Cancel(r.Context(), u.ID, id, body.Reason, body.Detail)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deliveryv1.OrderResponse{Order: o})
	}
}

// POST /api/v1/orders/{id}/returns
//
//	{"reason": "damaged"}
func (h *Handler) RequestReturn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, id, ok := h.orderRequest(w, r)
		if !ok {
			return
		}
		var body deliveryv1.RequestReturnRequest
		if err := decodeBody(w, r, &body); err != nil {
			h.fail(w, r, err)
			return
		}
		rr, err := h.returns.RequestReturn(r.Context(), u.ID, id, body.Reason)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, deliveryv1.ReturnResponse{Return: rr})
	}
}

func (h *Handler) CancelReasons() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.customer(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deliveryv1.ListCancelReasonsResponse{Reasons: models.CancelReasons})
	}
}

// orderRequest resolves the calling customer and the {id} path parameter.
func (h *Handler) orderRequest(w http.ResponseWriter, r *http.Request) (*models.User, int64, bool) {
	u, err := h.customer(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return nil, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(w, r, fmt.Errorf("%w: invalid order id %q", models.ErrValidation, chi.URLParam(r, "id")))
		return nil, 0, false
	}
	return u, id, true
}

func (h *Handler) customer(ctx context.Context) (*models.User, error) {
	p, err := auth.RequireCustomer(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.users.GetByUsername(ctx, p.Name)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, p.Name)
	}
	return u, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.HTTPStatus(err)
	apperr.Log(h.logger, "http request failed", err,
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("status", code),
	)
	msg := status.Convert(apperr.ToStatus(err)).Message()
	writeJSON(w, code, map[string]string{"error": msg, "kind": apperr.Kind(err)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %v", models.ErrValidation, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
