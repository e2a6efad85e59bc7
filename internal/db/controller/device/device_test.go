package device

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/appbeacon/appbeacon/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Device{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func rowCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Device{}).Count(&count).Error)

	return count
}

func TestUpsert(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := Upsert(nil, "dev-1", "1.0.0", "")
		require.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("empty device id", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Upsert(db, "", "1.0.0", "")
		require.ErrorIs(t, err, ErrDeviceIDEmpty)
		assert.EqualValues(t, 0, rowCount(t, db))
	})

	t.Run("creates on first handshake", func(t *testing.T) {
		db := setupTestDB(t)

		d, err := Upsert(db, "dev-1", "1.0.0", "tok-1")
		require.NoError(t, err)

		assert.Equal(t, "dev-1", d.DeviceID)
		assert.Equal(t, "1.0.0", d.CurrentVersion)
		assert.Equal(t, "tok-1", d.FcmToken)
		assert.WithinDuration(t, time.Now().UTC(), d.LastSeen, 5*time.Second)
		assert.EqualValues(t, 1, rowCount(t, db))
	})

	t.Run("updates in place on repeat handshake", func(t *testing.T) {
		db := setupTestDB(t)

		first, err := Upsert(db, "dev-1", "1.0.0", "tok-1")
		require.NoError(t, err)

		second, err := Upsert(db, "dev-1", "1.1.0", "tok-2")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "1.1.0", second.CurrentVersion)
		assert.Equal(t, "tok-2", second.FcmToken)
		assert.EqualValues(t, 1, rowCount(t, db), "repeat handshakes must not duplicate rows")
	})

	t.Run("empty token preserves the stored one", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Upsert(db, "dev-1", "1.0.0", "tok-1")
		require.NoError(t, err)

		d, err := Upsert(db, "dev-1", "1.1.0", "")
		require.NoError(t, err)

		assert.Equal(t, "tok-1", d.FcmToken)
	})
}

func TestListTokens(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := ListTokens(nil)
		require.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("skips devices without a token", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Upsert(db, "dev-1", "1.0.0", "tok-1")
		require.NoError(t, err)
		_, err = Upsert(db, "dev-2", "1.0.0", "")
		require.NoError(t, err)

		tokens, err := ListTokens(db)
		require.NoError(t, err)
		assert.Equal(t, []string{"tok-1"}, tokens)
	})

	t.Run("duplicate tokens are kept", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Upsert(db, "dev-1", "1.0.0", "shared")
		require.NoError(t, err)
		_, err = Upsert(db, "dev-2", "1.0.0", "shared")
		require.NoError(t, err)

		tokens, err := ListTokens(db)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"shared", "shared"}, tokens)
	})
}

func TestCount(t *testing.T) {
	db := setupTestDB(t)

	count, err := Count(db)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	_, err = Upsert(db, "dev-1", "1.0.0", "")
	require.NoError(t, err)

	count, err = Count(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
