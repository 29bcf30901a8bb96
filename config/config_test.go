package config

import (
	"testing"
	"time"

	"github.com/slighter12/go-lib/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_FillsMissingSections(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Token.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Token.RefreshTTL)
	assert.Equal(t, 60*time.Minute, cfg.Token.RefreshedAccessTTL)
	assert.Equal(t, "bioauth", cfg.Token.Issuer)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Auth.RequireDeleteOwnership)
	assert.Equal(t, 8, cfg.PasswordPolicy.MinLength)
	assert.NotNil(t, cfg.PubSub)
	assert.NotNil(t, cfg.Migrations)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Token:          &TokenConfig{Secret: "s", AccessTTL: time.Minute},
		Auth:           &AuthConfig{BcryptCost: 4, RequireDeleteOwnership: true},
		PasswordPolicy: &PasswordPolicyConfig{MinLength: 12},
		Storage:        &StorageConfig{Driver: StorageDriverMemory},
	}
	cfg.applyDefaults()

	assert.Equal(t, time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Auth.RequireDeleteOwnership)
	assert.Equal(t, 12, cfg.PasswordPolicy.MinLength)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	newCfg := func(mutate func(*Config)) *Config {
		cfg := &Config{
			Token:    &TokenConfig{Secret: "top-secret"},
			Storage:  &StorageConfig{Driver: StorageDriverMemory},
			Postgres: &postgres.DBConn{},
		}
		cfg.applyDefaults()
		if mutate != nil {
			mutate(cfg)
		}

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid memory", mutate: nil},
		{name: "valid postgres", mutate: func(c *Config) { c.Storage.Driver = StorageDriverPostgres }},
		{name: "missing secret", mutate: func(c *Config) { c.Token.Secret = "  " }, wantErr: "token.secret"},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "sqlite" }, wantErr: "unknown storage driver"},
		{
			name: "postgres without section",
			mutate: func(c *Config) {
				c.Storage.Driver = StorageDriverPostgres
				c.Postgres = nil
			},
			wantErr: "postgres section",
		},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 2 }, wantErr: "bcryptCost"},
		{name: "bcrypt cost too high", mutate: func(c *Config) { c.Auth.BcryptCost = 32 }, wantErr: "bcryptCost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newCfg(tt.mutate).Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
