package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/config"
	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

type pack struct {
	name     string
	min, max int64
	rate     string
	days     int32
}

var defaultPacks = []pack{
	{name: "Starter", min: 100, max: 4999, rate: "2.5", days: 60},
	{name: "Professional", min: 5000, max: 19999, rate: "5.0", days: 60},
	{name: "Premium", min: 20000, max: 49999, rate: "8.5", days: 60},
	{name: "Elite", min: 50000, max: 999999999, rate: "12.5", days: 60},
}

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	adminUsername := flag.String("admin-username", "admin", "username of the bootstrap admin account")
	adminEmail := flag.String("admin-email", "admin@invest-ledger.local", "email of the bootstrap admin account")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.Error("seeder load config failed", err, nil)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seed(ctx, cfg.DatabaseDSN, *adminUsername, *adminEmail); err != nil {
		logger.Error("seeder failed", err, nil)
		os.Exit(1)
	}
}

// seed loads each reference table only when it is empty, so reruns are safe.
func seed(ctx context.Context, dsn, adminUsername, adminEmail string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	steps := []struct {
		table   string
		columns []string
		rows    func() ([][]any, error)
	}{
		{table: "investment_packs", columns: []string{"name", "min_amount", "max_amount", "daily_return_rate", "duration_days", "active"}, rows: packRows},
		{table: "referral_milestones", columns: []string{"id", "name", "required_referrals", "reward_amount", "icon"}, rows: milestoneRows},
		{table: "accounts", columns: []string{"username", "email", "role", "referral_code", "kyc_verified"}, rows: func() ([][]any, error) {
			return adminRows(adminUsername, adminEmail)
		}},
	}

	for _, step := range steps {
		var count int64
		if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{step.table}.Sanitize()).Scan(&count); err != nil {
			return fmt.Errorf("count %s: %w", step.table, err)
		}
		if count > 0 {
			logger.Info("seeder table already populated", logger.Fields{"table": step.table, "rows": count})
			continue
		}

		rows, err := step.rows()
		if err != nil {
			return err
		}
		copied, err := tx.CopyFrom(ctx, pgx.Identifier{step.table}, step.columns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copy into %s: %w", step.table, err)
		}
		logger.Info("seeder table populated", logger.Fields{"table": step.table, "rows": copied})
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	var adminID string
	if err := conn.QueryRow(ctx, "SELECT id::text FROM accounts WHERE role = 'admin' ORDER BY created_at LIMIT 1").Scan(&adminID); err == nil {
		logger.Info("seeder admin account", logger.Fields{"accountId": adminID})
	}
	return nil
}

func packRows() ([][]any, error) {
	rows := make([][]any, 0, len(defaultPacks))
	for _, p := range defaultPacks {
		rate, err := decimal.NewFromString(p.rate)
		if err != nil {
			return nil, fmt.Errorf("pack %s rate: %w", p.name, err)
		}
		rows = append(rows, []any{
			p.name,
			numeric(decimal.NewFromInt(p.min)),
			numeric(decimal.NewFromInt(p.max)),
			numeric(rate),
			p.days,
			true,
		})
	}
	return rows, nil
}

func milestoneRows() ([][]any, error) {
	milestones := domain.DefaultReferralMilestones()
	rows := make([][]any, 0, len(milestones))
	for _, m := range milestones {
		rows = append(rows, []any{m.ID, m.Name, int32(m.RequiredReferrals), numeric(m.RewardAmount), m.Icon})
	}
	return rows, nil
}

func adminRows(username, email string) ([][]any, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, fmt.Errorf("admin username and email are required")
	}
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return [][]any{{username, email, string(domain.RoleAdmin), code, true}}, nil
}

// numeric converts without a float round trip.
func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
