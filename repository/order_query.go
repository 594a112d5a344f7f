package repository

import (
	"context"
	"strings"
	"time"

	"riderDelivery/models"
)

// ListByCustomer returns all orders of a customer, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = ? ORDER BY created_at DESC, id DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

// ListAvailable returns unclaimed new orders. Fast orders come first, then oldest first.
func (r *OrderRepository) ListAvailable(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT `+prefixed("o", orderColumns)+`
FROM orders o
LEFT JOIN delivery_assignments a ON a.order_id = o.id AND a.active = 1
WHERE a.id IS NULL AND o.delivery_status = 'new'
ORDER BY CASE WHEN o.delivery_speed = 'fast' THEN 0 ELSE 1 END, o.created_at ASC, o.id ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

// ListActiveForRider returns non-terminal orders held by the rider, fast first.
func (r *OrderRepository) ListActiveForRider(ctx context.Context, riderID int64) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT `+prefixed("o", orderColumns)+`
FROM orders o
JOIN delivery_assignments a ON a.order_id = o.id AND a.active = 1
WHERE a.rider_id = ?
ORDER BY CASE WHEN o.delivery_speed = 'fast' THEN 0 ELSE 1 END, a.assigned_at ASC, o.id ASC`, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

// ListForRider returns every order the rider was ever assigned, updated at or after
// since (all when nil), newest first. Reassigned-away orders are excluded.
func (r *OrderRepository) ListForRider(ctx context.Context, riderID int64, since *time.Time) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q := `
SELECT ` + prefixed("o", orderColumns) + `
FROM orders o
WHERE EXISTS (
    SELECT 1 FROM delivery_assignments a
    WHERE a.order_id = o.id AND a.rider_id = ? AND (a.active = 1 OR a.close_reason <> 'reassigned')
)`
	args := []any{riderID}
	if since != nil {
		q += ` AND o.updated_at >= ?`
		args = append(args, formatTime(*since))
	}
	q += ` ORDER BY o.updated_at DESC, o.id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

// DeliveredCountByRider counts deliveries per rider at or after since (all when nil).
func (r *OrderRepository) DeliveredCountByRider(ctx context.Context, since *time.Time) (map[int64]int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q := `SELECT a.rider_id, COUNT(*) FROM delivery_assignments a
JOIN orders o ON o.id = a.order_id
WHERE a.close_reason = 'delivered'`
	var args []any
	if since != nil {
		q += ` AND o.delivered_at >= ?`
		args = append(args, formatTime(*since))
	}
	q += ` GROUP BY a.rider_id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int64]int{}
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

// ListOrdersAdminParams represents filters and pagination for ListAdmin (admin).
type ListOrdersAdminParams struct {
	Statuses    []models.DeliveryStatus
	CustomerID  *int64
	CreatedFrom *time.Time // inclusive
	CreatedTo   *time.Time // inclusive
	PageSize    int
	AfterID     int64 // keyset cursor: return orders with id < AfterID
}

// ListAdmin returns orders matching filters ordered by id desc with keyset pagination.
func (r *OrderRepository) ListAdmin(ctx context.Context, p ListOrdersAdminParams) ([]models.Order, error) {
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var where []string
	var args []any

	if len(p.Statuses) > 0 {
		where = append(where, "delivery_status IN ("+placeholders(len(p.Statuses))+")")
		args = append(args, stringArgs(p.Statuses)...)
	}
	if p.CustomerID != nil {
		where = append(where, "customer_id = ?")
		args = append(args, *p.CustomerID)
	}
	if p.CreatedFrom != nil {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(*p.CreatedFrom))
	}
	if p.CreatedTo != nil {
		where = append(where, "created_at <= ?")
		args = append(args, formatTime(*p.CreatedTo))
	}
	if p.AfterID > 0 {
		where = append(where, "id < ?")
		args = append(args, p.AfterID)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, p.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

// prefixed qualifies a comma-separated column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
