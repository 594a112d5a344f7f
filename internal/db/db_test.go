package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riderDelivery/internal/db"
	"riderDelivery/internal/testutil"
)

func tableExists(t *testing.T, d *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "db_migrate")
	for _, table := range []string{"users", "riders", "orders", "delivery_assignments", "settlements", "cod_records", "return_requests"} {
		assert.True(t, tableExists(t, d, table), table)
	}

	// a second handle on the same shared database sees the version already applied
	again, err := db.Open("file:db_migrate?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = again.Close() })

	var versions int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestRollbackLast(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "db_rollback")
	require.NoError(t, db.RollbackLast(d))
	assert.False(t, tableExists(t, d, "orders"))
	assert.False(t, tableExists(t, d, "users"))

	// nothing left to roll back
	require.NoError(t, db.RollbackLast(d))
}

func TestWithTxAndUniqueViolation(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "db_tx")
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.WithTx(ctx, d, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO users (username) VALUES ('ghost')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	var n int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM users WHERE username = 'ghost'`).Scan(&n))
	assert.Zero(t, n, "failed transaction must roll back")

	require.NoError(t, db.WithTx(ctx, d, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO users (username) VALUES ('kept')`)
		return err
	}))
	_, err = d.Exec(`INSERT INTO users (username) VALUES ('kept')`)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
	assert.False(t, db.IsUniqueViolation(boom))
}
