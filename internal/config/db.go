package config

// Supported gorm engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	// GormEngine selects the database driver: sqlite (default), mysql or postgres.
	GormEngine string `toml:"gormEngine"`

	// Path is the database file path, sqlite only.
	Path string

	// Server based engine settings (mysql, postgres).
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}
