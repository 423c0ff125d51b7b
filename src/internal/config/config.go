package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	MigrationsDir  string
	StorageDriver  string
	JWTSecret      string
	CommissionRate decimal.Decimal
	SweepInterval  time.Duration
	ShutdownGrace  time.Duration
	LogLevel       string
}

// Load reads envFile when given, then the process environment. Values already
// present in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	rate, err := decimal.NewFromString(getEnv("COMMISSION_RATE", DefaultCommissionRate))
	if err != nil {
		return Config{}, fmt.Errorf("parse COMMISSION_RATE: %w", err)
	}

	return Config{
		HTTPPort:       getEnv("HTTP_PORT", DefaultHTTPPort),
		DatabaseDSN:    normalizeConnectionString(getEnv("DATABASE_DSN", defaultConnectionString)),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", DefaultMigrationsDir),
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", DefaultStorageDriver)),
		JWTSecret:      getEnv("JWT_SECRET", insecureJWTSecret),
		CommissionRate: rate,
		SweepInterval:  getEnvDuration("MATURITY_SWEEP_INTERVAL", DefaultSweepInterval),
		ShutdownGrace:  getEnvDuration("SHUTDOWN_GRACE", DefaultShutdownGrace),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
	}, nil
}

func (c Config) Validate() error {
	errs := make([]string, 0)

	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, "HTTP_PORT must be a valid port")
	}
	if c.StorageDriver != StorageDriverPostgres && c.StorageDriver != StorageDriverMemory {
		errs = append(errs, "STORAGE_DRIVER must be postgres or memory")
	}
	if c.StorageDriver == StorageDriverPostgres && strings.TrimSpace(c.DatabaseDSN) == "" {
		errs = append(errs, "DATABASE_DSN is required")
	}
	if c.JWTSecret == "" || c.JWTSecret == insecureJWTSecret {
		errs = append(errs, "JWT_SECRET must be set to a secure value")
	}
	if !c.CommissionRate.IsPositive() || c.CommissionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errs = append(errs, "COMMISSION_RATE must be between 0 and 1")
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, "MATURITY_SWEEP_INTERVAL must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level: %s", c.LogLevel))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// normalizeConnectionString turns "Host=..;Port=..;" style strings into lib/pq
// key/value form. Strings without semicolons are returned as given.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}
	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
