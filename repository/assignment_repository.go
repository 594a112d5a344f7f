package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"riderDelivery/internal/db"
	"riderDelivery/models"
)

const assignmentColumns = `id, order_id, rider_id, active, shop_lat, shop_lng, customer_lat, customer_lng,
rider_lat, rider_lng, sampled_at, eta_minutes, phase, assigned_at, closed_at, close_reason`

// AssignmentRepository stores rider-to-order bindings and the last live location sample.
type AssignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Claim binds a new order to riderID and moves it to accepted, atomically.
// Claiming an order the same rider already holds returns the existing assignment.
// Returns models.ErrAlreadyAssigned when another rider holds it and
// models.ErrInvalidTransition when the order is no longer new.
func (r *AssignmentRepository) Claim(ctx context.Context, orderID, riderID int64, now time.Time) (*models.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var out *models.DeliveryAssignment
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := scanAssignment(tx.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM delivery_assignments WHERE order_id = ? AND active = 1`, orderID))
		if err != nil {
			return err
		}
		if cur != nil {
			if cur.RiderID != riderID {
				return models.ErrAlreadyAssigned
			}
			out = cur
			return nil
		}
		if err := transitionOrderTx(ctx, tx, orderID, models.StatusAccepted, now); err != nil {
			return err
		}
		out, err = insertAssignmentTx(ctx, tx, orderID, riderID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Replace hands a non-terminal order to newRiderID, closing the current assignment.
// A new order is accepted on the way. Reassigning to the current rider is a no-op.
func (r *AssignmentRepository) Replace(ctx context.Context, orderID, newRiderID int64, now time.Time) (*models.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var out *models.DeliveryAssignment
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT delivery_status FROM orders WHERE id = ?`, orderID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}
		st := models.DeliveryStatus(status)
		if st.Terminal() {
			return fmt.Errorf("%w: order is %s", models.ErrInvalidTransition, st)
		}
		cur, err := scanAssignment(tx.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM delivery_assignments WHERE order_id = ? AND active = 1`, orderID))
		if err != nil {
			return err
		}
		if cur != nil && cur.RiderID == newRiderID {
			out = cur
			return nil
		}
		if err := closeActiveAssignmentTx(ctx, tx, orderID, "reassigned", now); err != nil {
			return err
		}
		if st == models.StatusNew {
			if err := transitionOrderTx(ctx, tx, orderID, models.StatusAccepted, now); err != nil {
				return err
			}
		}
		out, err = insertAssignmentTx(ctx, tx, orderID, newRiderID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetActiveByOrder returns the active assignment of an order; nil when none.
func (r *AssignmentRepository) GetActiveByOrder(ctx context.Context, orderID int64) (*models.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanAssignment(r.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM delivery_assignments WHERE order_id = ? AND active = 1`, orderID))
}

// GetLatestByOrder returns the most recent assignment of an order, active or closed.
func (r *AssignmentRepository) GetLatestByOrder(ctx context.Context, orderID int64) (*models.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanAssignment(r.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM delivery_assignments WHERE order_id = ? ORDER BY id DESC LIMIT 1`, orderID))
}

// ListActiveByRider returns the rider's open assignments, oldest first.
func (r *AssignmentRepository) ListActiveByRider(ctx context.Context, riderID int64) ([]models.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+assignmentColumns+` FROM delivery_assignments WHERE rider_id = ? AND active = 1 ORDER BY assigned_at, id`, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.DeliveryAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// LastRiderPosition returns the most recent sample reported by the rider on any
// assignment, or nil when the rider never reported.
func (r *AssignmentRepository) LastRiderPosition(ctx context.Context, riderID int64) (*models.LiveLocationSample, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	a, err := scanAssignment(r.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM delivery_assignments
WHERE rider_id = ? AND sampled_at IS NOT NULL ORDER BY sampled_at DESC LIMIT 1`, riderID))
	if err != nil || a == nil {
		return nil, err
	}
	return a.Sample(), nil
}

// UpdateSample overwrites the live location of an active assignment held by riderID.
// It reports false when the assignment is closed or belongs to someone else.
func (r *AssignmentRepository) UpdateSample(ctx context.Context, id, riderID int64, s models.LiveLocationSample, phase models.Phase) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var eta any
	if s.ETAMinutes != nil {
		eta = *s.ETAMinutes
	}
	res, err := r.db.ExecContext(ctx, `UPDATE delivery_assignments SET rider_lat = ?, rider_lng = ?, sampled_at = ?, eta_minutes = ?, phase = ?
WHERE id = ? AND rider_id = ? AND active = 1`,
		s.Rider.Lat, s.Rider.Lng, formatTime(s.At), eta, string(phase), id, riderID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// transitionOrderTx moves an order to `to` from any status the transition table allows.
func transitionOrderTx(ctx context.Context, tx *sql.Tx, orderID int64, to models.DeliveryStatus, now time.Time) error {
	from := models.SourcesFor(to)
	args := append([]any{string(to), formatTime(now), orderID}, stringArgs(from)...)
	res, err := tx.ExecContext(ctx, `UPDATE orders SET delivery_status = ?, updated_at = ? WHERE id = ? AND delivery_status IN (`+placeholders(len(from))+`)`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT delivery_status FROM orders WHERE id = ?`, orderID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, status, to)
	}
	return nil
}

// insertAssignmentTx opens an assignment, copying shop and customer coordinates from the order.
func insertAssignmentTx(ctx context.Context, tx *sql.Tx, orderID, riderID int64, now time.Time) (*models.DeliveryAssignment, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO delivery_assignments (order_id, rider_id, active, shop_lat, shop_lng, customer_lat, customer_lng, phase, assigned_at)
SELECT id, ?, 1, shop_lat, shop_lng, shipping_lat, shipping_lng, ?, ? FROM orders WHERE id = ?`,
		riderID, string(models.PhaseUnknown), formatTime(now), orderID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, models.ErrAlreadyAssigned
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	a, err := scanAssignment(tx.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM delivery_assignments WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, models.ErrNotFound
	}
	return a, nil
}

// closeActiveAssignmentTx ends the active assignment of an order, if any.
func closeActiveAssignmentTx(ctx context.Context, tx *sql.Tx, orderID int64, reason string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `UPDATE delivery_assignments SET active = 0, closed_at = ?, close_reason = ? WHERE order_id = ? AND active = 1`,
		formatTime(now), reason, orderID)
	return err
}

func scanAssignment(row rowScanner) (*models.DeliveryAssignment, error) {
	var a models.DeliveryAssignment
	var riderLat, riderLng sql.NullFloat64
	var sampledAt, closedAt sql.NullString
	var eta sql.NullInt64
	var phase, assignedAt string
	err := row.Scan(&a.ID, &a.OrderID, &a.RiderID, &a.Active, &a.ShopLat, &a.ShopLng, &a.CustomerLat, &a.CustomerLng,
		&riderLat, &riderLng, &sampledAt, &eta, &phase, &assignedAt, &closedAt, &a.CloseReason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.RiderLat = nullFloat(riderLat)
	a.RiderLng = nullFloat(riderLng)
	if eta.Valid {
		v := int(eta.Int64)
		a.ETAMinutes = &v
	}
	a.Phase = models.Phase(phase)
	if a.SampledAt, err = parseNullTime(sampledAt); err != nil {
		return nil, err
	}
	if a.ClosedAt, err = parseNullTime(closedAt); err != nil {
		return nil, err
	}
	if a.AssignedAt, err = parseTime(assignedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
