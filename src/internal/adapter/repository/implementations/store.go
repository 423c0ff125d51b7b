package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so every repository can run
// inside or outside a unit of work.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, repositories: repositories{q: db}}
}

// WithinTx runs fn in a READ COMMITTED transaction. Rows that must not change
// underneath the unit are locked explicitly by the repositories.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		logger.Error("store begin tx failed", err, nil)
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, &repositories{q: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		logger.Error("store commit failed", err, nil)
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

type repositories struct {
	q dbtx
}

func (r *repositories) Accounts() domain.AccountRepository {
	return &AccountRepository{q: r.q}
}

func (r *repositories) Packs() domain.InvestmentPackRepository {
	return &InvestmentPackRepository{q: r.q}
}

func (r *repositories) Investments() domain.InvestmentRepository {
	return &InvestmentRepository{q: r.q}
}

func (r *repositories) Transactions() domain.TransactionRepository {
	return &TransactionRepository{q: r.q}
}

func (r *repositories) Commissions() domain.ReferralCommissionRepository {
	return &ReferralCommissionRepository{q: r.q}
}

func (r *repositories) KYC() domain.KYCRepository {
	return &KYCRepository{q: r.q}
}

func (r *repositories) Milestones() domain.ReferralMilestoneRepository {
	return &ReferralMilestoneRepository{q: r.q}
}

func (r *repositories) Stats() domain.StatsRepository {
	return &StatsRepository{q: r.q}
}

func isUniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == "23505" {
		return pqErr.Constraint, true
	}
	return "", false
}

func isCheckViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == "23514" && pqErr.Constraint == constraint
}

// notFound maps sql.ErrNoRows and malformed uuids to the domain sentinel and
// wraps everything else.
func notFound(err error, what string, id string) error {
	var pqErr *pq.Error
	if errors.Is(err, sql.ErrNoRows) || (errors.As(err, &pqErr) && string(pqErr.Code) == "22P02") {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s %s: %w", what, id, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}
