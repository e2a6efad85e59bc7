package models

import (
	"time"
)

// Device is one registered app installation, keyed by the client-supplied
// device identifier. Devices are created on first handshake, updated in
// place on every later handshake and never deleted.
type Device struct {
	// ID is the internal primary key.
	ID uint64 `gorm:"primaryKey"`
	// DeviceID is the opaque client-supplied identifier; its format is
	// not validated.
	DeviceID string `gorm:"uniqueIndex;size:100;not null"`
	// CurrentVersion is the app version last reported by the device.
	CurrentVersion string `gorm:"size:50"`
	// LastSeen is the wall-clock time of the most recent handshake.
	LastSeen time.Time
	// FcmToken is the optional push token. Empty means the device never
	// supplied one; a handshake without a token leaves it unchanged.
	FcmToken string `gorm:"size:255"`
}
