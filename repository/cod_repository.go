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

const codColumns = `id, order_id, rider_id, amount, status, settlement_id, created_at`

const settlementColumns = `id, rider_id, total_amount, record_count, method, reference, created_at`

// CODRepository is the cash ledger: COD records and the settlements that clear them.
type CODRepository struct {
	db *sql.DB
}

// NewCODRepository creates a new CODRepository.
func NewCODRepository(db *sql.DB) *CODRepository {
	return &CODRepository{db: db}
}

// GetByOrder returns the COD record of an order; nil when none exists.
func (r *CODRepository) GetByOrder(ctx context.Context, orderID int64) (*models.CODRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanCOD(r.db.QueryRowContext(ctx, `SELECT `+codColumns+` FROM cod_records WHERE order_id = ?`, orderID))
}

// CountByOrder counts COD records of an order. Anything above one is an integrity violation.
func (r *CODRepository) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cod_records WHERE order_id = ?`, orderID).Scan(&n)
	return n, err
}

// ListUnsettled returns the rider's unsettled records, oldest first.
func (r *CODRepository) ListUnsettled(ctx context.Context, riderID int64) ([]models.CODRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+codColumns+` FROM cod_records WHERE rider_id = ? AND status = 'unsettled' ORDER BY created_at, id`, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCODRows(rows)
}

// ListRecent returns the rider's latest COD records, newest first.
func (r *CODRepository) ListRecent(ctx context.Context, riderID int64, limit int) ([]models.CODRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+codColumns+` FROM cod_records WHERE rider_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`, riderID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCODRows(rows)
}

// CashInHand sums the rider's unsettled amounts and counts the records behind it.
func (r *CODRepository) CashInHand(ctx context.Context, riderID int64) (decimal.Decimal, int, error) {
	recs, err := r.ListUnsettled(ctx, riderID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	sum := decimal.Zero
	for _, c := range recs {
		sum = sum.Add(c.Amount)
	}
	return sum, len(recs), nil
}

// Summary aggregates the rider's records created at or after since (all when nil).
func (r *CODRepository) Summary(ctx context.Context, riderID int64, since *time.Time) (models.CODSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q := `SELECT amount, status FROM cod_records WHERE rider_id = ?`
	args := []any{riderID}
	if since != nil {
		q += ` AND created_at >= ?`
		args = append(args, formatTime(*since))
	}
	out := models.CODSummary{Collected: decimal.Zero, Settled: decimal.Zero, Unsettled: decimal.Zero}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var amount decimal.Decimal
		var status string
		if err := rows.Scan(&amount, &status); err != nil {
			return out, err
		}
		out.RecordCount++
		out.Collected = out.Collected.Add(amount)
		if models.CODStatus(status) == models.CODSettled {
			out.Settled = out.Settled.Add(amount)
		} else {
			out.Unsettled = out.Unsettled.Add(amount)
			out.UnsettledCount++
		}
	}
	return out, rows.Err()
}

// RiderTotals is the per-rider ledger aggregate used by the admin balances table.
type RiderTotals struct {
	CashInHand     decimal.Decimal
	UnsettledCount int
	SettledTotal   decimal.Decimal
	LastSettlement *time.Time
}

// TotalsByRider aggregates every rider's ledger. Cash in hand is always current;
// settled totals only count settlements created at or after since.
func (r *CODRepository) TotalsByRider(ctx context.Context, since *time.Time) (map[int64]*RiderTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out := map[int64]*RiderTotals{}
	get := func(id int64) *RiderTotals {
		t, ok := out[id]
		if !ok {
			t = &RiderTotals{CashInHand: decimal.Zero, SettledTotal: decimal.Zero}
			out[id] = t
		}
		return t
	}

	rows, err := r.db.QueryContext(ctx, `SELECT rider_id, amount FROM cod_records WHERE status = 'unsettled'`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id int64
		var amount decimal.Decimal
		if err := rows.Scan(&id, &amount); err != nil {
			rows.Close()
			return nil, err
		}
		t := get(id)
		t.CashInHand = t.CashInHand.Add(amount)
		t.UnsettledCount++
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	q := `SELECT rider_id, total_amount, created_at FROM settlements`
	var args []any
	if since != nil {
		q += ` WHERE created_at >= ?`
		args = append(args, formatTime(*since))
	}
	rows, err = r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var amount decimal.Decimal
		var created string
		if err := rows.Scan(&id, &amount, &created); err != nil {
			return nil, err
		}
		at, err := parseTime(created)
		if err != nil {
			return nil, err
		}
		t := get(id)
		t.SettledTotal = t.SettledTotal.Add(amount)
		if t.LastSettlement == nil || at.After(*t.LastSettlement) {
			t.LastSettlement = &at
		}
	}
	return out, rows.Err()
}

// CreateSettlement settles the rider's oldest batchSize unsettled records in one
// transaction: it inserts the settlement and flips exactly batchSize records.
// Returns models.ErrInsufficientBatch when fewer records are outstanding. If the
// flip touches a different number of rows the whole batch rolls back with
// models.ErrIntegrity.
func (r *CODRepository) CreateSettlement(ctx context.Context, riderID int64, batchSize int, method, reference string, now time.Time) (*models.Settlement, []models.CODRecord, error) {
	if batchSize <= 0 {
		return nil, nil, fmt.Errorf("%w: batch size must be positive", models.ErrValidation)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var st *models.Settlement
	var batch []models.CODRecord
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT `+codColumns+` FROM cod_records
WHERE rider_id = ? AND status = 'unsettled' ORDER BY created_at, id LIMIT ?`, riderID, batchSize)
		if err != nil {
			return err
		}
		batch, err = scanCODRows(rows)
		rows.Close()
		if err != nil {
			return err
		}
		if len(batch) < batchSize {
			return fmt.Errorf("%w: %d of %d collections outstanding", models.ErrInsufficientBatch, len(batch), batchSize)
		}

		total := decimal.Zero
		ids := make([]any, len(batch))
		for i, c := range batch {
			total = total.Add(c.Amount)
			ids[i] = c.ID
		}

		res, err := tx.ExecContext(ctx, `INSERT INTO settlements (rider_id, total_amount, record_count, method, reference, created_at) VALUES (?,?,?,?,?,?)`,
			riderID, total.String(), len(batch), method, reference, formatTime(now))
		if err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: settlement reference %q already used", models.ErrValidation, reference)
			}
			return err
		}
		sid, err := res.LastInsertId()
		if err != nil {
			return err
		}

		args := append([]any{sid}, ids...)
		res, err = tx.ExecContext(ctx, `UPDATE cod_records SET status = 'settled', settlement_id = ?
WHERE status = 'unsettled' AND id IN (`+placeholders(len(ids))+`)`, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if int(n) != len(batch) {
			return fmt.Errorf("%w: settlement flipped %d of %d records", models.ErrIntegrity, n, len(batch))
		}

		for i := range batch {
			batch[i].Status = models.CODSettled
			id := sid
			batch[i].SettlementID = &id
		}
		st, err = scanSettlement(tx.QueryRowContext(ctx, `SELECT `+settlementColumns+` FROM settlements WHERE id = ?`, sid))
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return st, batch, nil
}

// ListSettlements returns the rider's settlements created at or after since, newest first.
// limit <= 0 means no limit.
func (r *CODRepository) ListSettlements(ctx context.Context, riderID int64, since *time.Time, limit int) ([]models.Settlement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q := `SELECT ` + settlementColumns + ` FROM settlements WHERE rider_id = ?`
	args := []any{riderID}
	if since != nil {
		q += ` AND created_at >= ?`
		args = append(args, formatTime(*since))
	}
	q += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// IntegrityIssues cross-checks the rider's ledger against orders and settlements.
func (r *CODRepository) IntegrityIssues(ctx context.Context, riderID int64) ([]models.IntegrityIssue, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	var out []models.IntegrityIssue

	// delivered COD orders this rider closed without a record
	rows, err := r.db.QueryContext(ctx, `SELECT o.id FROM orders o
JOIN delivery_assignments a ON a.order_id = o.id AND a.close_reason = 'delivered'
WHERE a.rider_id = ? AND o.payment_method = 'COD' AND o.delivery_status = 'delivered'
  AND NOT EXISTS (SELECT 1 FROM cod_records c WHERE c.order_id = o.id)
ORDER BY o.id`, riderID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, models.IntegrityIssue{Kind: models.IssueMissingCODRecord, OrderID: id, Detail: "delivered COD order has no COD record"})
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, `SELECT c.id, c.order_id, c.amount, o.total_price, o.payment_method FROM cod_records c
JOIN orders o ON o.id = c.order_id WHERE c.rider_id = ? ORDER BY c.id`, riderID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var recID, orderID int64
		var amount, total decimal.Decimal
		var method string
		if err := rows.Scan(&recID, &orderID, &amount, &total, &method); err != nil {
			rows.Close()
			return nil, err
		}
		switch {
		case models.PaymentMethod(method) != models.PaymentCOD:
			out = append(out, models.IntegrityIssue{Kind: models.IssueCODOnOnlineOrder, OrderID: orderID, RecordID: recID,
				Detail: fmt.Sprintf("COD record on a %s order", method)})
		case !amount.Equal(total):
			out = append(out, models.IntegrityIssue{Kind: models.IssueCODAmountMismatch, OrderID: orderID, RecordID: recID,
				Detail: fmt.Sprintf("record amount %s != order total %s", amount, total)})
		}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	type agg struct {
		total decimal.Decimal
		count int
	}
	linked := map[int64]*agg{}
	rows, err = r.db.QueryContext(ctx, `SELECT settlement_id, amount FROM cod_records WHERE rider_id = ? AND settlement_id IS NOT NULL`, riderID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var sid int64
		var amount decimal.Decimal
		if err := rows.Scan(&sid, &amount); err != nil {
			rows.Close()
			return nil, err
		}
		a, ok := linked[sid]
		if !ok {
			a = &agg{total: decimal.Zero}
			linked[sid] = a
		}
		a.total = a.total.Add(amount)
		a.count++
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	settlements, err := r.ListSettlements(ctx, riderID, nil, 0)
	if err != nil {
		return nil, err
	}
	for i := len(settlements) - 1; i >= 0; i-- {
		s := settlements[i]
		a := linked[s.ID]
		if a == nil {
			a = &agg{total: decimal.Zero}
		}
		if a.count != s.RecordCount || !a.total.Equal(s.TotalAmount) {
			out = append(out, models.IntegrityIssue{Kind: models.IssueSettlementMismatch, SettlementID: s.ID,
				Detail: fmt.Sprintf("settlement says %d records / %s, ledger has %d / %s", s.RecordCount, s.TotalAmount, a.count, a.total)})
		}
	}
	return out, nil
}

// insertCODRecordTx creates the unsettled COD record for a delivered order.
// The UNIQUE order_id column rejects a second record.
func insertCODRecordTx(ctx context.Context, tx *sql.Tx, orderID, riderID int64, amount decimal.Decimal, now time.Time) (*models.CODRecord, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO cod_records (order_id, rider_id, amount, status, created_at) VALUES (?,?,?,'unsettled',?)`,
		orderID, riderID, amount.String(), formatTime(now))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.CODRecord{
		ID:        id,
		OrderID:   orderID,
		RiderID:   riderID,
		Amount:    amount,
		Status:    models.CODUnsettled,
		CreatedAt: now.UTC().Truncate(time.Microsecond),
	}, nil
}

func scanCOD(row rowScanner) (*models.CODRecord, error) {
	var c models.CODRecord
	var status, created string
	var sid sql.NullInt64
	err := row.Scan(&c.ID, &c.OrderID, &c.RiderID, &c.Amount, &status, &sid, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Status = models.CODStatus(status)
	c.SettlementID = nullInt64(sid)
	if c.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCODRows(rows *sql.Rows) ([]models.CODRecord, error) {
	var out []models.CODRecord
	for rows.Next() {
		c, err := scanCOD(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanSettlement(row rowScanner) (*models.Settlement, error) {
	var s models.Settlement
	var created string
	err := row.Scan(&s.ID, &s.RiderID, &s.TotalAmount, &s.RecordCount, &s.Method, &s.Reference, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if s.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &s, nil
}
