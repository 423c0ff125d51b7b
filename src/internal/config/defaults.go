package config

import "time"

const (
	DefaultHTTPPort       = "8080"
	DefaultLogLevel       = "info"
	DefaultStorageDriver  = StorageDriverPostgres
	DefaultMigrationsDir  = "src/migrations"
	DefaultCommissionRate = "0.03"
	DefaultSweepInterval  = 15 * time.Minute
	DefaultShutdownGrace  = 10 * time.Second
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=invest_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"

// insecureJWTSecret is accepted by Load but refused by Validate.
const insecureJWTSecret = "change-me-in-production"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)
