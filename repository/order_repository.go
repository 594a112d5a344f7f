package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"riderDelivery/internal/db"
	"riderDelivery/models"
)

const orderColumns = `id, customer_id, items_price, shipping_price, shipping_extra_price, coupon_discount_amount, total_price,
payment_method, paid_at, delivery_status, delivery_speed, shop_lat, shop_lng, shipping_lat, shipping_lng,
cancel_reason, cancelled_at, failure_reason, delivered_at, created_at, updated_at`

// OrderRepository is the core repository for Order entities.
// Status changes are compare-and-transition updates against the stored status,
// never against a status the caller read earlier.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order in status 'new'.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order, now time.Time) (*models.Order, error) {
	if o == nil {
		return nil, errors.New("order is nil")
	}
	if o.DeliverySpeed == "" {
		o.DeliverySpeed = models.SpeedNormal
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ts := formatTime(now)
	res, err := r.db.ExecContext(ctx, `INSERT INTO orders (customer_id, items_price, shipping_price, shipping_extra_price, coupon_discount_amount, total_price,
payment_method, paid_at, delivery_status, delivery_speed, shop_lat, shop_lng, shipping_lat, shipping_lng, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.CustomerID, o.ItemsPrice.String(), o.ShippingPrice.String(), o.ShippingExtraPrice.String(), o.CouponDiscountAmount.String(), o.TotalPrice.String(),
		string(o.PaymentMethod), formatTimePtr(o.PaidAt), string(models.StatusNew), string(o.DeliverySpeed),
		o.ShopLat, o.ShopLng, o.ShippingLat, o.ShippingLng, ts, ts)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	o2, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o2 == nil {
		return nil, fmt.Errorf("created order not found: id=%d", id)
	}
	return o2, nil
}

// GetByID fetches an order by its ID; nil when absent.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
}

// MarkPaid records an online payment. It is a no-op for orders already paid.
func (r *OrderRepository) MarkPaid(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET paid_at = ?, updated_at = ? WHERE id = ? AND payment_method = 'Online' AND paid_at IS NULL`,
		formatTime(at), formatTime(at), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Depart moves an order held by riderID from accepted to `to` (enroute or onway).
// It reports false when the stored status or the active rider did not match.
func (r *OrderRepository) Depart(ctx context.Context, id, riderID int64, to models.DeliveryStatus, now time.Time) (bool, error) {
	if !to.InTransit() {
		return false, fmt.Errorf("%w: %s is not an in-transit status", models.ErrInvalidTransition, to)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	from := models.SourcesFor(to)
	args := append([]any{string(to), formatTime(now), id}, stringArgs(from)...)
	args = append(args, riderID)
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET delivery_status = ?, updated_at = ?
WHERE id = ? AND delivery_status IN (`+placeholders(len(from))+`)
  AND EXISTS (SELECT 1 FROM delivery_assignments a WHERE a.order_id = orders.id AND a.rider_id = ? AND a.active = 1)`, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Cancel moves the order to cancelled if its stored status is one of allowedFrom.
// Reason and timestamp are written in the same statement.
func (r *OrderRepository) Cancel(ctx context.Context, id int64, allowedFrom []models.DeliveryStatus, reason string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if len(allowedFrom) == 0 {
		return false, nil
	}
	var changed bool
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		ts := formatTime(now)
		args := append([]any{string(models.StatusCancelled), reason, ts, ts, id}, stringArgs(allowedFrom)...)
		res, err := tx.ExecContext(ctx, `UPDATE orders SET delivery_status = ?, cancel_reason = ?, cancelled_at = ?, updated_at = ?
WHERE id = ? AND delivery_status IN (`+placeholders(len(allowedFrom))+`)`, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil || n == 0 {
			return err
		}
		changed = true
		return closeActiveAssignmentTx(ctx, tx, id, "cancelled", now)
	})
	return changed, err
}

// Fail moves the order to failed if its stored status is one of allowedFrom.
// When riderID is set the rider must hold the active assignment.
func (r *OrderRepository) Fail(ctx context.Context, id int64, allowedFrom []models.DeliveryStatus, riderID *int64, reason string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if len(allowedFrom) == 0 {
		return false, nil
	}
	var changed bool
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		ts := formatTime(now)
		q := `UPDATE orders SET delivery_status = ?, failure_reason = ?, updated_at = ?
WHERE id = ? AND delivery_status IN (` + placeholders(len(allowedFrom)) + `)`
		args := append([]any{string(models.StatusFailed), reason, ts, id}, stringArgs(allowedFrom)...)
		if riderID != nil {
			q += ` AND EXISTS (SELECT 1 FROM delivery_assignments a WHERE a.order_id = orders.id AND a.rider_id = ? AND a.active = 1)`
			args = append(args, *riderID)
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil || n == 0 {
			return err
		}
		changed = true
		return closeActiveAssignmentTx(ctx, tx, id, "failed", now)
	})
	return changed, err
}

// DeliverResult describes the outcome of Deliver.
type DeliverResult struct {
	Changed bool              // false when the order was not in transit with this rider
	COD     *models.CODRecord // set when a COD record was created
}

// Deliver marks an in-transit order delivered by riderID. In the same transaction it
// closes the assignment and, for COD orders, creates the single COD record with
// amount = total_price. A second call finds the order already delivered and changes
// nothing. A COD record that already exists for a freshly delivered order is an
// integrity violation and aborts the transaction.
func (r *OrderRepository) Deliver(ctx context.Context, id, riderID int64, now time.Time) (DeliverResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var out DeliverResult
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		ts := formatTime(now)
		from := models.SourcesFor(models.StatusDelivered)
		args := append([]any{string(models.StatusDelivered), ts, ts, id}, stringArgs(from)...)
		args = append(args, riderID)
		res, err := tx.ExecContext(ctx, `UPDATE orders SET delivery_status = ?, delivered_at = ?, updated_at = ?
WHERE id = ? AND delivery_status IN (`+placeholders(len(from))+`)
  AND EXISTS (SELECT 1 FROM delivery_assignments a WHERE a.order_id = orders.id AND a.rider_id = ? AND a.active = 1)`, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil || n == 0 {
			return err
		}
		out.Changed = true
		if err := closeActiveAssignmentTx(ctx, tx, id, "delivered", now); err != nil {
			return err
		}

		var method string
		var total decimal.Decimal
		if err := tx.QueryRowContext(ctx, `SELECT payment_method, total_price FROM orders WHERE id = ?`, id).Scan(&method, &total); err != nil {
			return err
		}
		if models.PaymentMethod(method) != models.PaymentCOD {
			return nil
		}
		rec, err := insertCODRecordTx(ctx, tx, id, riderID, total, now)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: COD record already exists for order %d", models.ErrIntegrity, id)
			}
			return err
		}
		out.COD = rec
		return nil
	})
	if err != nil {
		return DeliverResult{}, err
	}
	return out, nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var method, status, speed, created, updated string
	var paidAt, cancelledAt, deliveredAt sql.NullString
	err := row.Scan(&o.ID, &o.CustomerID, &o.ItemsPrice, &o.ShippingPrice, &o.ShippingExtraPrice, &o.CouponDiscountAmount, &o.TotalPrice,
		&method, &paidAt, &status, &speed, &o.ShopLat, &o.ShopLng, &o.ShippingLat, &o.ShippingLng,
		&o.CancelReason, &cancelledAt, &o.FailureReason, &deliveredAt, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.PaymentMethod = models.PaymentMethod(method)
	o.DeliveryStatus = models.DeliveryStatus(status)
	o.DeliverySpeed = models.DeliverySpeed(speed)
	if o.PaidAt, err = parseNullTime(paidAt); err != nil {
		return nil, err
	}
	if o.CancelledAt, err = parseNullTime(cancelledAt); err != nil {
		return nil, err
	}
	if o.DeliveredAt, err = parseNullTime(deliveredAt); err != nil {
		return nil, err
	}
	if o.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &o, nil
}

// scanOrderRows is a helper to scan rows into Order objects.
func scanOrderRows(rows *sql.Rows) ([]models.Order, error) {
	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
