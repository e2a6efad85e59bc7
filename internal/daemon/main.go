// Package daemon wires the database, session storage, push dispatcher and
// web service together.
package daemon

import (
	"context"

	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	sessionsqlite "github.com/gofiber/storage/sqlite3/v2"
	"github.com/gofiber/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/glebarez/sqlite"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"

	"github.com/appbeacon/appbeacon/internal/config"
	"github.com/appbeacon/appbeacon/internal/db/dsn"
	"github.com/appbeacon/appbeacon/internal/db/models"
	"github.com/appbeacon/appbeacon/internal/push"
	"github.com/appbeacon/appbeacon/internal/web"
	"github.com/appbeacon/appbeacon/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	// webService must stay a pointer: the Service carries an atomic drain
	// flag shared with the /checkalive handler closure.
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.AppSettings{},
		&models.Device{},
	); err != nil {
		panic("failed to migrate database")
	}

	// the settings row must exist before any request is served
	seed(cfg, db)

	session.Init(newSessionStorage(cfg))

	return &Daemon{
		webService: web.New(cfg, db, newDispatcher(cfg, db)),
	}
}

// openDialector picks the gorm driver for the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gormmysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg))
	default:
		return sqlite.Open(dsn.Create(cfg))
	}
}

// newSessionStorage pairs the session table with the main database engine.
func newSessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.PostgresURI(cfg),
			Table:         "sessions",
		})
	default:
		return sessionsqlite.New(sessionsqlite.Config{
			Database: dsn.Create(cfg),
			Table:    "sessions",
		})
	}
}

// newDispatcher builds the push dispatcher. Without provider credentials the
// dispatcher is created senderless so broadcasts fail with a clear error
// instead of the panel going down.
func newDispatcher(cfg *config.Config, db *gorm.DB) *push.Dispatcher {
	if !cfg.Push.Enabled {
		log.Warn().Msg("push is disabled: notification broadcasts will fail")

		return push.NewDispatcher(db, nil)
	}

	sender, err := push.NewFCMSender(context.Background(), cfg.Push.CredentialsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize FCM, broadcasts will fail")

		return push.NewDispatcher(db, nil)
	}

	log.Info().Msg("FCM initialized successfully")

	return push.NewDispatcher(db, sender)
}
