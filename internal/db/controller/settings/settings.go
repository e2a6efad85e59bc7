// Package settings provides operations for the app-wide configuration record.
package settings

import (
	"errors"

	"gorm.io/gorm"

	"github.com/appbeacon/appbeacon/internal/db/models"
)

var (
	// ErrSettingsNotFound is returned when the settings row does not exist.
	// Seeing this at request time means EnsureDefaults never ran at startup.
	ErrSettingsNotFound = errors.New("app settings not initialized")
	// ErrPasswordEmpty is returned when attempting to set an empty admin password.
	ErrPasswordEmpty = errors.New("admin password cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// UpdateFields carries the admin-editable settings fields.
// The admin password is intentionally absent; see SetAdminPassword.
type UpdateFields struct {
	AppText           string
	V2rayConfigs      string
	DeprecatedVersion string
	ForceUpdate       bool
}

// Get retrieves the settings record.
func Get(db *gorm.DB) (*models.AppSettings, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s models.AppSettings
	result := db.First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, result.Error
	}

	return &s, nil
}

// Update applies the admin-editable fields and persists them.
// The stored admin password hash is never touched here.
func Update(db *gorm.DB, fields UpdateFields) (*models.AppSettings, error) {
	s, err := Get(db)
	if err != nil {
		return nil, err
	}

	s.AppText = fields.AppText
	s.V2rayConfigs = fields.V2rayConfigs
	s.DeprecatedVersion = fields.DeprecatedVersion
	s.ForceUpdate = fields.ForceUpdate

	result := db.Save(s)
	if result.Error != nil {
		return nil, result.Error
	}

	return s, nil
}

// SetAdminPassword replaces the stored admin password hash.
func SetAdminPassword(db *gorm.DB, plaintext string) error {
	if plaintext == "" {
		return ErrPasswordEmpty
	}

	s, err := Get(db)
	if err != nil {
		return err
	}

	s.AdminPassword = models.HashPassword(plaintext)

	return db.Save(s).Error
}

// EnsureDefaults creates the settings record with documented defaults and a
// hash of defaultPassword if no record exists yet. It is idempotent and safe
// to call on every process start.
func EnsureDefaults(db *gorm.DB, defaultPassword string) error {
	if db == nil {
		return ErrDBNil
	}
	if defaultPassword == "" {
		return ErrPasswordEmpty
	}

	var count int64
	if err := db.Model(&models.AppSettings{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	return db.Create(&models.AppSettings{
		AppText:           "",
		V2rayConfigs:      "",
		DeprecatedVersion: "1.0.0",
		ForceUpdate:       false,
		AdminPassword:     models.HashPassword(defaultPassword),
	}).Error
}
