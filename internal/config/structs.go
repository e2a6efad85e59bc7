package config

import (
	"time"

	"github.com/appbeacon/appbeacon/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Push holds the push-notification provider settings.
type Push struct {
	// Enabled turns the FCM dispatcher on. When false the admin panel still
	// works but broadcasts fail with a user-visible error.
	Enabled bool
	// CredentialsFile is the path to the Firebase service account JSON.
	CredentialsFile string `toml:"credentialsFile"`
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Push      Push
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string  // domain name for the webserver
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver
	Session      Session // session settings
}
