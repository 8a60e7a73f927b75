package postgres

import (
	"net"
	"net/url"
	"strconv"

	"github.com/GoSim-25-26J-441/product-catalog/config"
)

const defaultPort = 5432

// DSN returns DB_DSN when set, otherwise a postgres:// URL built from the DB_* parts.
// It is empty when neither is configured.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	if cfg.Host == "" {
		return ""
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	switch {
	case cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}
	return u.String()
}
