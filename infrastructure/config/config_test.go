package config_test

import (
	"os"
	"testing"
	"time"

	"chatmemo/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, config.StoreMemory, cfg.StoreBackend)
	assert.Equal(t, 5000*time.Millisecond, cfg.UndoWindow)
	assert.Equal(t, 100*time.Millisecond, cfg.ScrollSettle)
	assert.Equal(t, "chatmemo", cfg.JWTIssuer)
	assert.True(t, cfg.EnableCORS)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	os.Setenv("SERVER_ADDRESS", ":9090")
	os.Setenv("UNDO_WINDOW_MS", "2500")
	os.Setenv("ENABLE_CORS", "false")
	defer func() {
		os.Unsetenv("SERVER_ADDRESS")
		os.Unsetenv("UNDO_WINDOW_MS")
		os.Unsetenv("ENABLE_CORS")
	}()

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 2500*time.Millisecond, cfg.UndoWindow)
	assert.False(t, cfg.EnableCORS)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{
			name:   "memory backend needs nothing",
			mutate: func(c *config.Config) {},
		},
		{
			name: "supabase backend requires credentials",
			mutate: func(c *config.Config) {
				c.StoreBackend = config.StoreSupabase
			},
			wantErr: true,
		},
		{
			name: "supabase backend with credentials",
			mutate: func(c *config.Config) {
				c.StoreBackend = config.StoreSupabase
				c.SupabaseURL = "https://example.supabase.co"
				c.SupabaseKey = "service-role-key"
			},
		},
		{
			name: "dynamodb backend requires a table",
			mutate: func(c *config.Config) {
				c.StoreBackend = config.StoreDynamoDB
				c.DynamoDBTable = ""
			},
			wantErr: true,
		},
		{
			name: "unknown backend rejected",
			mutate: func(c *config.Config) {
				c.StoreBackend = "etcd"
			},
			wantErr: true,
		},
		{
			name: "production requires a jwt secret",
			mutate: func(c *config.Config) {
				c.Environment = "production"
				c.StoreBackend = config.StoreDynamoDB
			},
			wantErr: true,
		},
		{
			name: "production forbids the memory backend",
			mutate: func(c *config.Config) {
				c.Environment = "production"
				c.JWTSecret = "secret"
			},
			wantErr: true,
		},
		{
			name: "valid production config",
			mutate: func(c *config.Config) {
				c.Environment = "production"
				c.JWTSecret = "secret"
				c.StoreBackend = config.StoreDynamoDB
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				ServerAddress: ":8080",
				Environment:   "development",
				StoreBackend:  config.StoreMemory,
				DynamoDBTable: "chatmemo",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	dev := &config.Config{Environment: "development"}
	prod := &config.Config{Environment: "production"}

	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())
	assert.True(t, prod.IsProduction())
	assert.False(t, prod.IsDevelopment())
}
