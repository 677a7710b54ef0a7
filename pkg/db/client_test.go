package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/innovativehub/storefront/pkg/db/models"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.StorageSlot{}))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestSlotRepositoryRoundTrip(t *testing.T) {
	repo := NewSlotRepository(newTestDB(t))
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "sess:guestCart")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Set(ctx, "sess:guestCart", `[{"quantity":1}]`))
	value, ok, err := repo.Get(ctx, "sess:guestCart")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"quantity":1}]`, value)

	require.NoError(t, repo.Set(ctx, "sess:guestCart", `[]`))
	value, _, err = repo.Get(ctx, "sess:guestCart")
	require.NoError(t, err)
	require.Equal(t, `[]`, value, "second write should overwrite")

	require.NoError(t, repo.Delete(ctx, "sess:guestCart"))
	_, ok, err = repo.Get(ctx, "sess:guestCart")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Delete(ctx, "sess:guestCart"), "deleting a missing slot is a no-op")
}

func TestSlotRepositoryPurgeOlderThan(t *testing.T) {
	repo := NewSlotRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	require.NoError(t, repo.Set(ctx, "old", "1"))
	repo.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, repo.Set(ctx, "fresh", "2"))

	removed, err := repo.PurgeOlderThan(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, ok, err := repo.Get(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestClientPing(t *testing.T) {
	client := NewFromGorm(newTestDB(t))
	require.NoError(t, client.Ping(context.Background()))
}

func TestQueryLogRecordsFailuresAndSlowStatements(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	qlog := newQueryLog(logg, 10*time.Millisecond)
	stmt := func() (string, int64) { return "SELECT 1", 1 }

	qlog.Trace(context.Background(), time.Now(), stmt, gorm.ErrRecordNotFound)
	require.Zero(t, buf.Len(), "record not found is not logged")

	qlog.Trace(context.Background(), time.Now(), stmt, errors.New("disk full"))
	require.Contains(t, buf.String(), "slot query failed")

	buf.Reset()
	qlog.Trace(context.Background(), time.Now().Add(-time.Second), stmt, nil)
	require.Contains(t, buf.String(), "slow slot query")
	require.Contains(t, buf.String(), `"sql":"SELECT 1"`)
}
