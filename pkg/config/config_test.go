package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/narvanalabs/logbook/internal/store"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOGBOOK_CONFIG", "API_HOST", "API_PORT", "SHUTDOWN_TIMEOUT", "STORE_DRIVER",
		"DATABASE_URL", "ID_STRATEGY", "SEED_COUNT", "LOGBOOK_LATENCY", "DEFAULT_PAGE_LIMIT",
		"MAX_PAGE_LIMIT", "ALLOW_BLANK_UPDATES", "CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != 3001 {
		t.Errorf("APIPort = %d, want 3001", cfg.APIPort)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, DriverMemory)
	}
	if cfg.Store.IDStrategy != store.IDStrategyUUID {
		t.Errorf("Store.IDStrategy = %q, want %q", cfg.Store.IDStrategy, store.IDStrategyUUID)
	}
	if cfg.DefaultPageLimit != 10 || cfg.MaxPageLimit != 100 {
		t.Errorf("page limits = %d/%d, want 10/100", cfg.DefaultPageLimit, cfg.MaxPageLimit)
	}
	if cfg.SeedCount != 15 {
		t.Errorf("SeedCount = %d, want 15", cfg.SeedCount)
	}
	if cfg.Latency != 0 {
		t.Errorf("Latency = %v, want 0", cfg.Latency)
	}
	if cfg.AllowBlankUpdates {
		t.Error("AllowBlankUpdates should default to false")
	}
	if cfg.Addr() != "0.0.0.0:3001" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_PORT", "9000")
	t.Setenv("ID_STRATEGY", "sequence")
	t.Setenv("LOGBOOK_LATENCY", "500ms")
	t.Setenv("ALLOW_BLANK_UPDATES", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, http://example.com")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != 9000 {
		t.Errorf("APIPort = %d, want 9000", cfg.APIPort)
	}
	if cfg.Store.IDStrategy != store.IDStrategySequence {
		t.Errorf("IDStrategy = %q, want sequence", cfg.Store.IDStrategy)
	}
	if cfg.Latency != 500*time.Millisecond {
		t.Errorf("Latency = %v, want 500ms", cfg.Latency)
	}
	if !cfg.AllowBlankUpdates {
		t.Error("AllowBlankUpdates should be true")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.Log.JSON {
		t.Error("Log.JSON should be false for LOG_FORMAT=text")
	}
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "logbook.yaml")
	content := `
api_port: 8081
seed_count: 3
latency: 250ms
store:
  driver: memory
  id_strategy: sequence
log:
  level: debug
  json: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("LOGBOOK_CONFIG", path)
	t.Setenv("SEED_COUNT", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != 8081 {
		t.Errorf("APIPort = %d, want 8081", cfg.APIPort)
	}
	if cfg.SeedCount != 0 {
		t.Errorf("SeedCount = %d, want env override 0", cfg.SeedCount)
	}
	if cfg.Latency != 250*time.Millisecond {
		t.Errorf("Latency = %v, want 250ms", cfg.Latency)
	}
	if cfg.Store.IDStrategy != store.IDStrategySequence {
		t.Errorf("IDStrategy = %q, want sequence", cfg.Store.IDStrategy)
	}
	if cfg.Log.Level != "debug" || cfg.Log.JSON {
		t.Errorf("Log = %+v, want debug/text", cfg.Log)
	}
	if cfg.MaxPageLimit != 100 {
		t.Errorf("MaxPageLimit = %d, want default 100", cfg.MaxPageLimit)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGBOOK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "sqlite" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Driver = DriverPostgres }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.DatabaseDSN = "postgres://localhost/logbook"
		}, wantErr: false},
		{name: "postgres with sequence ids", mutate: func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.DatabaseDSN = "postgres://localhost/logbook"
			c.Store.IDStrategy = store.IDStrategySequence
		}, wantErr: true},
		{name: "unknown id strategy", mutate: func(c *Config) { c.Store.IDStrategy = "ulid" }, wantErr: true},
		{name: "empty id strategy", mutate: func(c *Config) { c.Store.IDStrategy = "" }, wantErr: true},
		{name: "sequence ids in memory", mutate: func(c *Config) { c.Store.IDStrategy = store.IDStrategySequence }, wantErr: false},
		{name: "port zero", mutate: func(c *Config) { c.APIPort = 0 }, wantErr: true},
		{name: "negative seed", mutate: func(c *Config) { c.SeedCount = -1 }, wantErr: true},
		{name: "negative latency", mutate: func(c *Config) { c.Latency = -time.Second }, wantErr: true},
		{name: "max below default", mutate: func(c *Config) { c.MaxPageLimit = 5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// **Property: Port validation**
// *For any* port, Validate accepts it exactly when it lies in 1..65535.
func TestPropertyPortValidation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("port range is enforced", prop.ForAll(
		func(port int) bool {
			cfg := defaults()
			cfg.APIPort = port
			valid := port >= 1 && port <= 65535
			return (cfg.Validate() == nil) == valid
		},
		gen.IntRange(-1000, 70000),
	))

	properties.TestingRun(t)
}
