// Package models contains database model definitions.
package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AppSettings is the app-wide configuration record. Exactly one row is
// expected to exist; it is created at first startup and mutated only
// through the admin panel.
type AppSettings struct {
	// ID is the primary key; the singleton row always has ID 1.
	ID uint64 `gorm:"primaryKey"`
	// AppText is the free-form display text shown in the app.
	AppText string `gorm:"type:text"`
	// V2rayConfigs is the opaque proxy configuration payload served to clients.
	V2rayConfigs string `gorm:"type:text"`
	// DeprecatedVersion is the minimum supported app version. Clients
	// reporting a strictly older version are told to update.
	DeprecatedVersion string `gorm:"size:50;not null;default:'1.0.0'"`
	// ForceUpdate marks the pending update as mandatory; interpretation
	// is client-side.
	ForceUpdate bool `gorm:"not null;default:false"`
	// AdminPassword is the Argon2id hash of the shared admin password,
	// never the plaintext.
	AdminPassword string `gorm:"size:255;not null"`
	// UpdatedAt is the timestamp of the last change (managed by GORM).
	UpdatedAt time.Time
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the stored hash.
// It uses constant-time comparison to prevent timing attacks.
func (s *AppSettings) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, s.AdminPassword)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
