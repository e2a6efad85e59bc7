package handshake

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/appbeacon/appbeacon/internal/config"
	"github.com/appbeacon/appbeacon/internal/db/controller/settings"
	"github.com/appbeacon/appbeacon/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	require.NoError(t, db.AutoMigrate(&models.AppSettings{}, &models.Device{}))
	require.NoError(t, settings.EnsureDefaults(db, "123456"))

	return db
}

func newTestService(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	app := fiber.New()
	db := newTestDB(t)

	var s Service
	require.NoError(t, s.Init(app, &config.Config{}, db))

	return app, db
}

func performHandshake(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	return out
}

func deviceCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Device{}).Count(&count).Error)

	return count
}

func TestPostMissingParameters(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "missing device_id", body: `{"app_version":"1.0.0"}`},
		{name: "missing app_version", body: `{"device_id":"dev-1"}`},
		{name: "empty device_id", body: `{"device_id":"","app_version":"1.0.0"}`},
		{name: "malformed json", body: `{`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app, db := newTestService(t)

			resp := performHandshake(t, app, tc.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, "Missing parameters", body["message"])

			assert.EqualValues(t, 0, deviceCount(t, db), "a rejected handshake must not create rows")
		})
	}
}

func TestPostRegistersDevice(t *testing.T) {
	app, db := newTestService(t)

	resp := performHandshake(t, app, `{"device_id":"dev-1","app_version":"1.5.0","fcm_token":"tok-1"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "success", body["status"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, data["update_needed"])
	assert.Equal(t, false, data["force_update"])
	assert.Equal(t, "1.0.0", data["server_version"])

	assert.EqualValues(t, 1, deviceCount(t, db))

	var d models.Device
	require.NoError(t, db.First(&d, "device_id = ?", "dev-1").Error)
	assert.Equal(t, "1.5.0", d.CurrentVersion)
	assert.Equal(t, "tok-1", d.FcmToken)
}

func TestPostUpdatesInPlace(t *testing.T) {
	app, db := newTestService(t)

	resp := performHandshake(t, app, `{"device_id":"dev-1","app_version":"1.0.0","fcm_token":"tok-1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = performHandshake(t, app, `{"device_id":"dev-1","app_version":"1.1.0"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	assert.EqualValues(t, 1, deviceCount(t, db), "repeat handshakes must not duplicate rows")

	var d models.Device
	require.NoError(t, db.First(&d, "device_id = ?", "dev-1").Error)
	assert.Equal(t, "1.1.0", d.CurrentVersion)
	assert.Equal(t, "tok-1", d.FcmToken, "an absent token must leave the stored one untouched")
}

func TestPostUpdateNeeded(t *testing.T) {
	app, db := newTestService(t)

	_, err := settings.Update(db, settings.UpdateFields{
		AppText:           "hello",
		V2rayConfigs:      "vless://example",
		DeprecatedVersion: "2.0.0",
		ForceUpdate:       true,
	})
	require.NoError(t, err)

	testCases := []struct {
		name         string
		appVersion   string
		updateNeeded bool
	}{
		{name: "older version", appVersion: "1.9.9", updateNeeded: true},
		{name: "numeric comparison", appVersion: "1.10.0", updateNeeded: true},
		{name: "current version", appVersion: "2.0.0", updateNeeded: false},
		{name: "newer version", appVersion: "2.1.0", updateNeeded: false},
		{name: "malformed version fails closed", appVersion: "abc", updateNeeded: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := performHandshake(t, app,
				`{"device_id":"dev-1","app_version":"`+tc.appVersion+`"}`)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body := decodeBody(t, resp)
			data, ok := body["data"].(map[string]any)
			require.True(t, ok)

			assert.Equal(t, tc.updateNeeded, data["update_needed"])
			assert.Equal(t, true, data["force_update"])
			assert.Equal(t, "hello", data["text"])
			assert.Equal(t, "vless://example", data["configs"])
			assert.Equal(t, "2.0.0", data["server_version"])
		})
	}
}
