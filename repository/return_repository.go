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

const returnColumns = `id, order_id, customer_id, pickup_rider_id, reason, status, refund_amount, refund_mode,
refund_reference, admin_note, created_at, updated_at, completed_at`

// ReturnRepository stores return requests and their refund reconciliation.
type ReturnRepository struct {
	db *sql.DB
}

// NewReturnRepository creates a new ReturnRepository.
func NewReturnRepository(db *sql.DB) *ReturnRepository {
	return &ReturnRepository{db: db}
}

// Create inserts a pending return. A second live request for the same order
// violates the partial unique index and yields models.ErrNotEligible.
func (r *ReturnRepository) Create(ctx context.Context, rr *models.ReturnRequest, now time.Time) (*models.ReturnRequest, error) {
	if rr == nil {
		return nil, errors.New("return request is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	ts := formatTime(now)
	res, err := r.db.ExecContext(ctx, `INSERT INTO return_requests (order_id, customer_id, reason, status, created_at, updated_at) VALUES (?,?,?,?,?,?)`,
		rr.OrderID, rr.CustomerID, rr.Reason, string(models.ReturnPending), ts, ts)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: a return already exists for order %d", models.ErrNotEligible, rr.OrderID)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a return request; nil when absent.
func (r *ReturnRepository) GetByID(ctx context.Context, id int64) (*models.ReturnRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanReturn(r.db.QueryRowContext(ctx, `SELECT `+returnColumns+` FROM return_requests WHERE id = ?`, id))
}

// GetLiveByOrder returns the order's non-rejected return, if any.
func (r *ReturnRepository) GetLiveByOrder(ctx context.Context, orderID int64) (*models.ReturnRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanReturn(r.db.QueryRowContext(ctx, `SELECT `+returnColumns+` FROM return_requests WHERE order_id = ? AND status <> 'rejected'`, orderID))
}

// ListByCustomer lists the customer's returns, newest first.
func (r *ReturnRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.ReturnRequest, error) {
	return r.list(ctx, `WHERE customer_id = ? ORDER BY created_at DESC, id DESC`, customerID)
}

// ListPickupsForRider lists unfinished returns the rider is tasked to collect.
func (r *ReturnRepository) ListPickupsForRider(ctx context.Context, riderID int64) ([]models.ReturnRequest, error) {
	return r.list(ctx, `WHERE pickup_rider_id = ? AND status NOT IN ('completed','rejected') ORDER BY created_at, id`, riderID)
}

// ListAdmin lists every return, optionally filtered by status, newest first.
func (r *ReturnRepository) ListAdmin(ctx context.Context, status models.ReturnStatus) ([]models.ReturnRequest, error) {
	if status == "" {
		return r.list(ctx, `ORDER BY created_at DESC, id DESC`)
	}
	return r.list(ctx, `WHERE status = ? ORDER BY created_at DESC, id DESC`, string(status))
}

func (r *ReturnRepository) list(ctx context.Context, tail string, args ...any) ([]models.ReturnRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+returnColumns+` FROM return_requests `+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.ReturnRequest
	for rows.Next() {
		rr, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rr)
	}
	return out, rows.Err()
}

// Accept moves a pending return to accepted, optionally tasking a pickup rider.
func (r *ReturnRepository) Accept(ctx context.Context, id int64, pickupRiderID *int64, note string, now time.Time) (*models.ReturnRequest, error) {
	var rider any
	if pickupRiderID != nil {
		rider = *pickupRiderID
	}
	return r.transition(ctx, id, models.ReturnAccepted, nil,
		`pickup_rider_id = COALESCE(?, pickup_rider_id), admin_note = ?`, []any{rider, note}, now)
}

// AssignPickup tasks riderID with collecting a pending or accepted return.
func (r *ReturnRepository) AssignPickup(ctx context.Context, id, riderID int64, now time.Time) (*models.ReturnRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE return_requests SET pickup_rider_id = ?, updated_at = ? WHERE id = ? AND status IN ('pending','accepted')`,
		riderID, formatTime(now), id)
	if err != nil {
		return nil, err
	}
	return r.afterUpdate(ctx, res, id, models.ReturnAccepted)
}

// Advance moves a return held by riderID along the pickup path (picked_up, delivered_to_shop).
func (r *ReturnRepository) Advance(ctx context.Context, id, riderID int64, to models.ReturnStatus, now time.Time) (*models.ReturnRequest, error) {
	if to != models.ReturnPickedUp && to != models.ReturnDeliveredToShop {
		return nil, fmt.Errorf("%w: riders cannot move a return to %s", models.ErrInvalidTransition, to)
	}
	return r.transition(ctx, id, to, &riderID, ``, nil, now)
}

// Reject finalizes a non-terminal return as rejected.
func (r *ReturnRepository) Reject(ctx context.Context, id int64, note string, now time.Time) (*models.ReturnRequest, error) {
	return r.transition(ctx, id, models.ReturnRejected, nil, `admin_note = ?`, []any{note}, now)
}

// CompleteRefund records the refund and completes the return in one statement.
// A return that is already completed or rejected yields models.ErrAlreadyFinalized
// and keeps its stored refund data.
func (r *ReturnRepository) CompleteRefund(ctx context.Context, id int64, refund models.Refund, now time.Time) (*models.ReturnRequest, error) {
	ts := formatTime(now)
	return r.transition(ctx, id, models.ReturnCompleted, nil,
		`refund_amount = ?, refund_mode = ?, refund_reference = ?, admin_note = ?, completed_at = ?`,
		[]any{refund.Amount.String(), string(refund.Mode), refund.Reference, refund.Note, ts}, now)
}

// transition is a compare-and-transition update against the stored return status.
func (r *ReturnRepository) transition(ctx context.Context, id int64, to models.ReturnStatus, riderID *int64, set string, setArgs []any, now time.Time) (*models.ReturnRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	from := models.ReturnSourcesFor(to)
	q := `UPDATE return_requests SET status = ?, updated_at = ?`
	if set != "" {
		q += `, ` + set
	}
	q += ` WHERE id = ? AND status IN (` + placeholders(len(from)) + `)`
	args := append([]any{string(to), formatTime(now)}, setArgs...)
	args = append(args, id)
	args = append(args, stringArgs(from)...)
	if riderID != nil {
		q += ` AND pickup_rider_id = ?`
		args = append(args, *riderID)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return r.afterUpdate(ctx, res, id, to)
}

// afterUpdate reloads the row, or explains why the conditional update matched nothing.
func (r *ReturnRepository) afterUpdate(ctx context.Context, res sql.Result, id int64, to models.ReturnStatus) (*models.ReturnRequest, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, models.ErrNotFound
	}
	if n == 1 {
		return cur, nil
	}
	if cur.Status.Terminal() {
		return nil, fmt.Errorf("%w: return %d is %s", models.ErrAlreadyFinalized, id, cur.Status)
	}
	if models.CanTransitionReturn(cur.Status, to) {
		// status allowed it, so the rider condition failed
		return nil, fmt.Errorf("%w: return %d is not assigned to this rider", models.ErrForbidden, id)
	}
	return nil, fmt.Errorf("%w: return %s -> %s", models.ErrInvalidTransition, cur.Status, to)
}

func scanReturn(row rowScanner) (*models.ReturnRequest, error) {
	var rr models.ReturnRequest
	var pickup sql.NullInt64
	var amount, completed sql.NullString
	var status, mode, created, updated string
	err := row.Scan(&rr.ID, &rr.OrderID, &rr.CustomerID, &pickup, &rr.Reason, &status, &amount, &mode,
		&rr.RefundReference, &rr.AdminNote, &created, &updated, &completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rr.PickupRiderID = nullInt64(pickup)
	rr.Status = models.ReturnStatus(status)
	rr.RefundMode = models.RefundMode(mode)
	if amount.Valid {
		d, err := decimal.NewFromString(amount.String)
		if err != nil {
			return nil, fmt.Errorf("parse refund amount %q: %w", amount.String, err)
		}
		rr.RefundAmount = &d
	}
	if rr.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if rr.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	if rr.CompletedAt, err = parseNullTime(completed); err != nil {
		return nil, err
	}
	return &rr, nil
}
