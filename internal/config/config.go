package config

import (
	"os"
	"strings"
)

type Config struct {
	Port    string
	DataDir string
	// Remote backend toggle: both values must be present and valid for
	// the app to run in remote mode.
	RemoteDatabaseURL string
	RemoteAccessKey   string
	JWTSecret         string
	JWTExpiresIn      string // minutes
}

func Load() *Config {
	return &Config{
		Port:              getenv("PORT", "8080"),
		DataDir:           getenv("DATA_DIR", "./data"),
		RemoteDatabaseURL: getenv("REMOTE_DATABASE_URL", ""),
		RemoteAccessKey:   getenv("REMOTE_ACCESS_KEY", ""),
		JWTSecret:         getenv("JWT_SECRET", "supersecret_change_me"),
		JWTExpiresIn:      getenv("JWT_EXPIRES_IN", "480"),
	}
}

// RemoteConfigured reports whether the remote backend credentials look
// usable. Placeholder values from a copied .env template count as
// unconfigured; the app then silently runs local-only.
func (c *Config) RemoteConfigured() bool {
	validURL := c.RemoteDatabaseURL != "" &&
		c.RemoteDatabaseURL != "your_remote_database_url_here" &&
		(strings.HasPrefix(c.RemoteDatabaseURL, "postgres://") ||
			strings.HasPrefix(c.RemoteDatabaseURL, "postgresql://"))
	validKey := len(c.RemoteAccessKey) > 20 &&
		c.RemoteAccessKey != "your_remote_access_key_here"
	return validURL && validKey
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
