package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"newsdesk/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))
	return db
}

func newTestUserService(db *sql.DB) *userService {
	svc := NewUserService(sqlite.NewUserRepository(db)).(*userService)
	svc.cost = bcrypt.MinCost
	return svc
}
