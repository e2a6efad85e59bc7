// Package device provides operations for the device registry.
package device

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/appbeacon/appbeacon/internal/db/models"
)

const deviceIDQueryPattern = "device_id = ?"

var (
	// ErrDeviceIDEmpty is returned when an empty device identifier is supplied.
	ErrDeviceIDEmpty = errors.New("device id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Upsert creates a device row for an unknown deviceID or updates the
// existing row in place. CurrentVersion and LastSeen are always
// overwritten; the stored push token is only replaced when fcmToken is
// non-empty. Concurrent upserts for the same deviceID are last-write-wins.
func Upsert(db *gorm.DB, deviceID, currentVersion, fcmToken string) (*models.Device, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if deviceID == "" {
		return nil, ErrDeviceIDEmpty
	}

	var d models.Device
	result := db.Where(deviceIDQueryPattern, deviceID).First(&d)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		d = models.Device{
			DeviceID:       deviceID,
			CurrentVersion: currentVersion,
			LastSeen:       time.Now().UTC(),
			FcmToken:       fcmToken,
		}

		if err := db.Create(&d).Error; err != nil {
			return nil, err
		}

		return &d, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	d.CurrentVersion = currentVersion
	d.LastSeen = time.Now().UTC()

	if fcmToken != "" {
		d.FcmToken = fcmToken
	}

	if err := db.Save(&d).Error; err != nil {
		return nil, err
	}

	return &d, nil
}

// ListTokens returns all non-empty push tokens across all devices.
// Order is irrelevant and duplicates are allowed: two devices sharing a
// token simply receive the notification twice.
func ListTokens(db *gorm.DB) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tokens []string
	result := db.Model(&models.Device{}).
		Where("fcm_token <> ''").
		Pluck("fcm_token", &tokens)
	if result.Error != nil {
		return nil, result.Error
	}

	return tokens, nil
}

// Count returns the number of registered devices.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Device{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
