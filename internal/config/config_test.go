// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/delivery")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_SECRET", testSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := load("")
	require.NoError(t, err)

	assert.Equal(t, "delivery.sid", c.Session.CookieName)
	assert.Equal(t, 7*24*time.Hour, c.Session.TTL)
	assert.Equal(t, time.Hour, c.Tokens.ResetTTL)
	assert.Equal(t, 5, c.RateLimit.AuthRequests)
	assert.False(t, c.Kafka.Enabled)
	assert.True(t, c.Migrations.Auto)
	assert.Equal(t, "0.0.0.0:8080", c.Server.Address())
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("RESET_TOKEN_TTL", "30m")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := strings.Join([]string{
		"app:",
		"  frontend_url: https://admin.example.com",
		"kafka:",
		"  enabled: true",
		"  brokers: [file:9092]",
		"tokens:",
		"  reset_ttl: 2h",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	c, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com", c.App.FrontendURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, 30*time.Minute, c.Tokens.ResetTTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "short session secret",
			env:     map[string]string{"SESSION_SECRET": "short"},
			wantErr: "SESSION_SECRET",
		},
		{
			name:    "missing database",
			env:     map[string]string{"DATABASE_URL": ""},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "bad same site",
			env:     map[string]string{"SESSION_SAME_SITE": "sideways"},
			wantErr: "same_site",
		},
		{
			name:    "kafka without brokers",
			env:     map[string]string{"KAFKA_ENABLED": "true"},
			wantErr: "KAFKA_BROKERS",
		},
		{
			name:    "insecure cookie in production",
			env:     map[string]string{"ENVIRONMENT": "production"},
			wantErr: "SESSION_SECURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
