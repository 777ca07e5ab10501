package config

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productionSecret = strings.Repeat("s", MinProductionSecretBytes)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default configuration",
			envVars: map[string]string{
				"ENVIRONMENT": "development",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.False(t, cfg.Server.TLS.Enabled)
				assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
				assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
				assert.Equal(t, StoreMemory, cfg.Auth.Store)
				assert.Equal(t, "admin", cfg.Auth.AdminUsername)
				assert.Equal(t, "1234", cfg.Auth.AdminPassword)
				assert.True(t, cfg.Auth.SeedAdmin)
				assert.Equal(t, []string{"http://localhost:*"}, cfg.CORS.AllowedOrigins)
			},
		},
		{
			name: "production configuration with postgres store",
			envVars: map[string]string{
				"ENVIRONMENT":  "production",
				"SERVER_PORT":  "9000",
				"JWT_SECRET":   productionSecret,
				"JWT_ISSUER":   "secure-access-gateway",
				"AUTH_STORE":   "POSTGRES",
				"DATABASE_URL": "postgres://gateway:pw@prod-db.example.com:5433/gateway",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
				assert.False(t, cfg.IsDevelopment())
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, StorePostgres, cfg.Auth.Store)
				assert.Equal(t, "secure-access-gateway", cfg.Auth.Issuer)
				assert.Equal(t, "host=prod-db.example.com port=5433 database=gateway", cfg.Database.LogString())
			},
		},
		{
			name: "custom token ttl and timeouts",
			envVars: map[string]string{
				"JWT_TTL":              "5m",
				"SERVER_READ_TIMEOUT":  "60s",
				"SERVER_WRITE_TIMEOUT": "90s",
				"DB_MAX_OPEN_CONNS":    "50",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5*time.Minute, cfg.Auth.TokenTTL)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 50, cfg.Database.MaxOpenConns)
			},
		},
		{
			name: "observability configuration",
			envVars: map[string]string{
				"LOG_LEVEL":       "debug",
				"LOG_FORMAT":      "text",
				"METRICS_ENABLED": "false",
				"TRACING_ENABLED": "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Observability.LogLevel)
				assert.Equal(t, "text", cfg.Observability.LogFormat)
				assert.False(t, cfg.Observability.MetricsEnabled)
				assert.True(t, cfg.Observability.TracingEnabled)
			},
		},
		{
			name: "cors origins list",
			envVars: map[string]string{
				"CORS_ALLOWED_ORIGINS": "https://app.example.com, https://admin.example.com,",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
			},
		},
		{
			name: "PORT env var takes precedence over SERVER_PORT",
			envVars: map[string]string{
				"PORT":        "9443",
				"SERVER_PORT": "9000",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9443, cfg.Server.Port)
			},
		},
		{
			name: "secret file in production skips inline secret checks",
			envVars: map[string]string{
				"ENVIRONMENT":     "production",
				"JWT_SECRET_FILE": "/run/secrets/jwt",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/run/secrets/jwt", cfg.Auth.JWTSecretFile)
			},
		},
		{
			name: "production with default secret",
			envVars: map[string]string{
				"ENVIRONMENT": "production",
			},
			wantErr: true,
		},
		{
			name: "production with short secret",
			envVars: map[string]string{
				"ENVIRONMENT": "production",
				"JWT_SECRET":  "too-short",
			},
			wantErr: true,
		},
		{
			name: "unsupported store",
			envVars: map[string]string{
				"AUTH_STORE": "redis",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := New(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Environment: "development",
		Auth: AuthConfig{
			JWTSecret:     DefaultJWTSecret,
			TokenTTL:      30 * time.Minute,
			Store:         StoreMemory,
			AdminUsername: "admin",
			AdminPassword: "1234",
			SeedAdmin:     true,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			User:     "user",
			Database: "db",
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid development config",
			mutate: func(c *Config) {},
		},
		{
			name: "memory store ignores database settings",
			mutate: func(c *Config) {
				c.Database = DatabaseConfig{}
			},
		},
		{
			name: "postgres store without database host",
			mutate: func(c *Config) {
				c.Auth.Store = StorePostgres
				c.Database.Host = ""
			},
			wantErr: true,
			errMsg:  "database configuration required",
		},
		{
			name: "postgres store without database user",
			mutate: func(c *Config) {
				c.Auth.Store = StorePostgres
				c.Database.User = ""
			},
			wantErr: true,
			errMsg:  "database user is required",
		},
		{
			name: "missing secret",
			mutate: func(c *Config) {
				c.Auth.JWTSecret = ""
			},
			wantErr: true,
			errMsg:  "signing secret is required",
		},
		{
			name: "non-positive ttl",
			mutate: func(c *Config) {
				c.Auth.TokenTTL = 0
			},
			wantErr: true,
			errMsg:  "token TTL must be at least 1s",
		},
		{
			name: "sub-second ttl",
			mutate: func(c *Config) {
				c.Auth.TokenTTL = 500 * time.Millisecond
			},
			wantErr: true,
			errMsg:  "token TTL must be at least 1s",
		},
		{
			name: "seeding without a password",
			mutate: func(c *Config) {
				c.Auth.AdminPassword = ""
			},
			wantErr: true,
			errMsg:  "admin username and password are required",
		},
		{
			name: "seeding disabled does not need admin credentials",
			mutate: func(c *Config) {
				c.Auth.SeedAdmin = false
				c.Auth.AdminPassword = ""
			},
		},
		{
			name: "production rejects the default secret",
			mutate: func(c *Config) {
				c.Environment = "production"
			},
			wantErr: true,
			errMsg:  "default signing secret",
		},
		{
			name: "production accepts a long secret",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.Auth.JWTSecret = productionSecret
			},
		},
		{
			name: "missing log level",
			mutate: func(c *Config) {
				c.Observability.LogLevel = ""
			},
			wantErr: true,
			errMsg:  "log level is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		want        bool
	}{
		{"production", "production", true},
		{"prod", "prod", true},
		{"development", "development", false},
		{"dev", "dev", false},
		{"staging", "staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}
			assert.Equal(t, tt.want, cfg.IsProduction())
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		want        bool
	}{
		{"development", "development", true},
		{"dev", "dev", true},
		{"production", "production", false},
		{"staging", "staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}
			assert.Equal(t, tt.want, cfg.IsDevelopment())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		Database: "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, cfg.DSN())
	assert.NotContains(t, cfg.LogString(), "testpass")

	withURL := DatabaseConfig{ConnectionString: "postgres://u:p@db:5432/gateway"}
	assert.Equal(t, "postgres://u:p@db:5432/gateway", withURL.DSN())
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{
		Host: "0.0.0.0",
		Port: 8080,
	}

	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		defaultValue int
		want         int
	}{
		{"valid int", "TEST_INT", "42", 10, 42},
		{"empty value", "TEST_INT", "", 10, 10},
		{"invalid int", "TEST_INT", "not-a-number", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv(tt.key, tt.value)
			}
			assert.Equal(t, tt.want, getEnvAsInt(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", "TEST_BOOL", "true", false, true},
		{"false", "TEST_BOOL", "false", true, false},
		{"empty value", "TEST_BOOL", "", true, true},
		{"invalid bool", "TEST_BOOL", "not-a-bool", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv(tt.key, tt.value)
			}
			assert.Equal(t, tt.want, getEnvAsBool(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		defaultValue time.Duration
		want         time.Duration
	}{
		{"valid duration", "TEST_DURATION", "30s", 10 * time.Second, 30 * time.Second},
		{"empty value", "TEST_DURATION", "", 10 * time.Second, 10 * time.Second},
		{"invalid duration", "TEST_DURATION", "not-a-duration", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv(tt.key, tt.value)
			}
			assert.Equal(t, tt.want, getEnvAsDuration(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	os.Clearenv()
	assert.Equal(t, []string{"a"}, getEnvAsList("TEST_LIST", []string{"a"}))

	os.Setenv("TEST_LIST", " , ")
	assert.Equal(t, []string{"a"}, getEnvAsList("TEST_LIST", []string{"a"}))

	os.Setenv("TEST_LIST", "x,y")
	assert.Equal(t, []string{"x", "y"}, getEnvAsList("TEST_LIST", []string{"a"}))
}
