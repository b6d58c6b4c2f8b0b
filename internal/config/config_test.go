package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("JWT_EXPIRES_IN", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "480", cfg.JWTExpiresIn)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/sipola")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/var/lib/sipola", cfg.DataDir)
}

func TestRemoteConfigured(t *testing.T) {
	key := strings.Repeat("k", 32)
	cases := []struct {
		name string
		url  string
		key  string
		want bool
	}{
		{"both valid", "postgres://u:p@db.example.com:5432/sipola", key, true},
		{"postgresql scheme", "postgresql://u:p@db.example.com/sipola", key, true},
		{"empty url", "", key, false},
		{"placeholder url", "your_remote_database_url_here", key, false},
		{"wrong scheme", "mysql://u:p@db.example.com/sipola", key, false},
		{"empty key", "postgres://u:p@db.example.com/sipola", "", false},
		{"short key", "postgres://u:p@db.example.com/sipola", "tooshort", false},
		{"placeholder key", "postgres://u:p@db.example.com/sipola", "your_remote_access_key_here", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{RemoteDatabaseURL: tc.url, RemoteAccessKey: tc.key}
			assert.Equal(t, tc.want, cfg.RemoteConfigured())
		})
	}
}
