package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "keep")

	require.NoError(t, Migrate(context.Background(), db))

	n, err := NewUserRepository(db).Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n, "migrating twice must not drop data")
}

func TestReset_DropsData(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "gone")

	require.NoError(t, Reset(context.Background(), db))

	n, err := NewUserRepository(db).Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}
