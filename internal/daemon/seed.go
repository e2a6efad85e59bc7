package daemon

import (
	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"github.com/appbeacon/appbeacon/internal/config"
	"github.com/appbeacon/appbeacon/internal/db/controller/settings"
)

// defaultAdminPassword is the documented first-start password. The admin is
// expected to change it from the dashboard.
const defaultAdminPassword = "123456"

func seed(_ *config.Config, db *gorm.DB) {
	if err := settings.EnsureDefaults(db, defaultAdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to seed app settings")
		return
	}

	s, err := settings.Get(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read app settings after seed")
		return
	}

	if s.VerifyPassword(defaultAdminPassword) {
		log.Warn().Msg("admin password is still the default, change it from the dashboard")
	}
}
