package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "helping-hand", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.SearchCaseInsensitive)
	assert.Equal(t, []AdminAccount{{Username: "admin", Password: "admin"}}, cfg.AdminAccounts)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, 2, cfg.MailWorkers)
	assert.Equal(t, 100, cfg.MailQueueSize)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("SEARCH_CASE_INSENSITIVE", "true")
	t.Setenv("ADMIN_ACCOUNTS", "root:s3cr:et, ops:pw")

	cfg, err := LoadConfig(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.SearchCaseInsensitive)
	assert.Equal(t, []AdminAccount{
		{Username: "root", Password: "s3cr:et"},
		{Username: "ops", Password: "pw"},
	}, cfg.AdminAccounts)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := LoadConfig(logger.NewNopLogger())
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestParseAdminAccounts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []AdminAccount
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "admin:admin", want: []AdminAccount{{"admin", "admin"}}},
		{name: "missing password", raw: "admin:", wantErr: true},
		{name: "missing separator", raw: "admin", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAdminAccounts(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := ParseTrustedProxies(" 10.0.0.0/8, 192.0.2.7 ,::1,172.16.5.9/12")
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.7/32"),
		netip.MustParsePrefix("::1/128"),
		netip.MustParsePrefix("172.16.0.0/12"),
	}, got)

	empty, err := ParseTrustedProxies("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseTrustedProxies("10.0.0.0/8,proxy.local")
	assert.ErrorContains(t, err, "proxy.local")
}
