package push

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/appbeacon/appbeacon/internal/db/controller/device"
	"github.com/appbeacon/appbeacon/internal/db/models"
)

// fakeSender records every batch it receives and can fail on a chosen batch.
type fakeSender struct {
	batches     [][]string
	failAtBatch int // 1-based; 0 means never fail
	perToken    bool // report one success per token when true
}

func (f *fakeSender) SendMulticast(_ context.Context, _, _ string, tokens []string) (int, error) {
	f.batches = append(f.batches, tokens)

	if f.failAtBatch > 0 && len(f.batches) == f.failAtBatch {
		return 0, errors.New("provider unavailable")
	}

	if f.perToken {
		return len(tokens), nil
	}

	return 1, nil
}

// setupTestDB creates an in-memory SQLite database seeded with n tokened devices.
func setupTestDB(t *testing.T, n int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.AutoMigrate(&models.Device{}))

	for i := 0; i < n; i++ {
		_, err := device.Upsert(db,
			fmt.Sprintf("dev-%d", i),
			"1.0.0",
			fmt.Sprintf("tok-%d", i),
		)
		require.NoError(t, err)
	}

	return db
}

func TestBroadcastNoTokens(t *testing.T) {
	db := setupTestDB(t, 0)
	sender := &fakeSender{}

	count, err := NewDispatcher(db, sender).Broadcast(context.Background(), "title", "body")

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, sender.batches, "no provider call expected without tokens")
}

func TestBroadcastNoSender(t *testing.T) {
	t.Run("without tokens still returns zero", func(t *testing.T) {
		db := setupTestDB(t, 0)

		count, err := NewDispatcher(db, nil).Broadcast(context.Background(), "title", "body")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("with tokens fails", func(t *testing.T) {
		db := setupTestDB(t, 1)

		_, err := NewDispatcher(db, nil).Broadcast(context.Background(), "title", "body")
		require.ErrorIs(t, err, ErrNoSender)
	})
}

func TestBroadcastBatching(t *testing.T) {
	db := setupTestDB(t, 1200)
	sender := &fakeSender{perToken: true}

	count, err := NewDispatcher(db, sender).Broadcast(context.Background(), "title", "body")

	require.NoError(t, err)
	assert.Equal(t, 1200, count)

	require.Len(t, sender.batches, 3)
	assert.Len(t, sender.batches[0], 500)
	assert.Len(t, sender.batches[1], 500)
	assert.Len(t, sender.batches[2], 200)
}

func TestBroadcastAbortsOnBatchError(t *testing.T) {
	db := setupTestDB(t, 1200)
	sender := &fakeSender{perToken: true, failAtBatch: 2}

	count, err := NewDispatcher(db, sender).Broadcast(context.Background(), "title", "body")

	require.Error(t, err)
	assert.Zero(t, count, "a failed broadcast must not report a partial count")
	assert.Len(t, sender.batches, 2, "no batch may be sent after the failing one")
}

func TestBroadcastSingleBatchSuccessCount(t *testing.T) {
	db := setupTestDB(t, 3)
	sender := &fakeSender{} // reports 1 success per batch regardless of size

	count, err := NewDispatcher(db, sender).Broadcast(context.Background(), "title", "body")

	require.NoError(t, err)
	assert.Equal(t, 1, count, "the provider-reported count is authoritative")
	require.Len(t, sender.batches, 1)
	assert.Len(t, sender.batches[0], 3)
}
