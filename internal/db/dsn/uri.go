package dsn

import (
	"fmt"

	"github.com/appbeacon/appbeacon/internal/config"
)

// PostgresURI builds the URI form of the postgres DSN, used by the session
// storage backend.
func PostgresURI(cfg *config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
	)
}
