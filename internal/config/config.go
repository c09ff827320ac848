// Package config loads the demo driver's configuration from environment
// variables, following the teacher's Load()/getEnv* idiom but trimmed to
// what this module actually has: an app section, a database section
// feeding pgsink, and an engine section whose random seed the demo uses
// (there is no Redis cache, HTTP API, or metrics server in scope).
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the demo driver's full configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Engine   EngineConfig
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Name     string
	Env      string
	LogLevel string
}

// DatabaseConfig configures the optional pgsink connection. Zero value
// means "no database" — the demo driver treats an empty Host as a signal
// to skip wiring pgsink rather than failing to connect.
type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether a database target was configured at all.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// EngineConfig holds the engine settings loaded for the demo driver.
// cmd/optimademo reads only RandomSeed; Algorithm, MaxSteps, MaxRuntime
// and StopCheckPeriod are loaded but do not change which scenarios it
// runs or how long they run.
type EngineConfig struct {
	Algorithm       string
	RandomSeed      int64
	MaxSteps        int
	MaxRuntime      time.Duration
	StopCheckPeriod time.Duration
}

// Load reads configuration from the environment, falling back to the
// demo's defaults for anything unset.
func Load() Config {
	return Config{
		App: AppConfig{
			Name:     getEnv("OPTIMA_APP_NAME", "optima-demo"),
			Env:      getEnv("OPTIMA_APP_ENV", "development"),
			LogLevel: getEnv("OPTIMA_LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("OPTIMA_DB_HOST", ""),
			Port:            getEnvInt("OPTIMA_DB_PORT", 5432),
			Name:            getEnv("OPTIMA_DB_NAME", "optima"),
			User:            getEnv("OPTIMA_DB_USER", "optima"),
			Password:        getEnv("OPTIMA_DB_PASSWORD", ""),
			SSLMode:         getEnv("OPTIMA_DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("OPTIMA_DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("OPTIMA_DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("OPTIMA_DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Engine: EngineConfig{
			Algorithm:       getEnv("OPTIMA_ALGORITHM", "random_descent"),
			RandomSeed:      int64(getEnvInt("OPTIMA_SEED", 1)),
			MaxSteps:        getEnvInt("OPTIMA_MAX_STEPS", 500),
			MaxRuntime:      getEnvDuration("OPTIMA_MAX_RUNTIME", 10*time.Second),
			StopCheckPeriod: getEnvDuration("OPTIMA_STOP_CHECK_PERIOD", 20*time.Millisecond),
		},
	}
}

// IsDevelopment reports whether the app env is "development".
func (c Config) IsDevelopment() bool { return c.App.Env == "development" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
