package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"riderDelivery/models"
)

const riderColumns = `id, username, name, village, phone, home_lat, home_lng, active`

// RiderRepository stores rider profiles.
type RiderRepository struct {
	db *sql.DB
}

// NewRiderRepository creates a new RiderRepository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{db: db}
}

// Create inserts a rider. New riders are active.
func (r *RiderRepository) Create(ctx context.Context, rd *models.Rider) (*models.Rider, error) {
	if rd == nil {
		return nil, errors.New("rider is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO riders (username, name, village, phone, home_lat, home_lng, active) VALUES (?,?,?,?,?,?,1)`,
		rd.Username, rd.Name, rd.Village, rd.Phone, rd.HomeLat, rd.HomeLng)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *rd
	out.ID = id
	out.Active = true
	return &out, nil
}

// GetByID fetches a rider by id; nil when absent.
func (r *RiderRepository) GetByID(ctx context.Context, id int64) (*models.Rider, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanRider(r.db.QueryRowContext(ctx, `SELECT `+riderColumns+` FROM riders WHERE id = ?`, id))
}

// GetByUsername fetches a rider by the username carried in their token.
func (r *RiderRepository) GetByUsername(ctx context.Context, username string) (*models.Rider, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanRider(r.db.QueryRowContext(ctx, `SELECT `+riderColumns+` FROM riders WHERE username = ?`, username))
}

// SetActive enables or disables a rider.
func (r *RiderRepository) SetActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE riders SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Search lists riders whose name, village or phone contains the query (case-insensitive).
// An empty query lists everyone.
func (r *RiderRepository) Search(ctx context.Context, query string) ([]models.Rider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q := `SELECT ` + riderColumns + ` FROM riders`
	var args []any
	if strings.TrimSpace(query) != "" {
		p := likePattern(query)
		q += ` WHERE lower(name) LIKE ? ESCAPE '\' OR lower(village) LIKE ? ESCAPE '\' OR lower(phone) LIKE ? ESCAPE '\'`
		args = append(args, p, p, p)
	}
	q += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Rider
	for rows.Next() {
		rd, err := scanRider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rd)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRider(row rowScanner) (*models.Rider, error) {
	var rd models.Rider
	err := row.Scan(&rd.ID, &rd.Username, &rd.Name, &rd.Village, &rd.Phone, &rd.HomeLat, &rd.HomeLng, &rd.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rd, nil
}
