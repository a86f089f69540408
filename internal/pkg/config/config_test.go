package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{"JWT_SECRET": "s3cret"})
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, DriverMongo, cfg.StoreDriver)
	require.Equal(t, 5, cfg.Login.MaxFailures)
	require.Equal(t, 15*time.Minute, cfg.Login.FailureWindow)
	require.Equal(t, 20, cfg.Login.RatePerMinute)
	require.Equal(t, 4, cfg.Audit.Workers)
	require.True(t, cfg.Seed.Enabled)
	require.Equal(t, "admin@iset.tn", cfg.Seed.AdminEmail)
	require.Equal(t, "etudiant@iset.tn", cfg.Seed.StudentEmail)
	require.False(t, cfg.IsProduction())
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := load(t, map[string]string{})
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":         "s3cret",
		"ENV":                "production",
		"TOKEN_TTL":          "30m",
		"STORE_DRIVER":       "postgres",
		"POSTGRES_MAX_CONNS": "25",
		"SEED_DEFAULT_USERS": "false",
	})
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, DriverPostgres, cfg.StoreDriver)
	require.Equal(t, int32(25), cfg.Postgres.MaxConns)
	require.False(t, cfg.Seed.Enabled)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver": {"JWT_SECRET": "s", "STORE_DRIVER": "sqlite"},
		"zero ttl":       {"JWT_SECRET": "s", "TOKEN_TTL": "0s"},
		"no workers":     {"JWT_SECRET": "s", "AUDIT_WORKERS": "0"},
		"bad duration":   {"JWT_SECRET": "s", "TOKEN_TTL": "soon"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(t, env)
			require.Error(t, err)
		})
	}
}
