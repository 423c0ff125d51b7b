package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

const transactionColumns = `id, account_id, type, amount, status, wallet_address, transaction_hash, admin_note,
	resolved_by, resolved_at, created_at, updated_at`

type TransactionRepository struct {
	q dbtx
}

func (r *TransactionRepository) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	const query = `
INSERT INTO transactions (
	account_id,
	type,
	amount,
	status,
	wallet_address,
	transaction_hash,
	admin_note
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + transactionColumns

	created, err := scanTransaction(r.q.QueryRowContext(ctx, query,
		tx.AccountID,
		tx.Type,
		tx.Amount,
		tx.Status,
		tx.WalletAddress,
		tx.TransactionHash,
		tx.AdminNote,
	))
	if err != nil {
		logger.Error("transaction repository create failed", err, logger.Fields{
			"accountId": tx.AccountID,
			"type":      tx.Type,
		})
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return created, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Transaction{}, notFound(err, "transaction", id)
	}
	return tx, nil
}

func (r *TransactionRepository) Lock(ctx context.Context, id string) (domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	tx, err := scanTransaction(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Transaction{}, notFound(err, "transaction", id)
	}
	return tx, nil
}

func (r *TransactionRepository) Resolve(ctx context.Context, id string, resolution domain.Resolution) (domain.Transaction, error) {
	const query = `
UPDATE transactions
SET status = $2,
    admin_note = $3,
    resolved_by = $4,
    resolved_at = $5,
    updated_at = NOW()
WHERE id = $1
  AND status = 'pending'
RETURNING ` + transactionColumns

	tx, err := scanTransaction(r.q.QueryRowContext(ctx, query,
		id,
		resolution.Status,
		resolution.AdminNote,
		resolution.ResolvedBy,
		resolution.ResolvedAt.UTC(),
	))
	if err == nil {
		return tx, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("transaction repository resolve failed", err, logger.Fields{"transactionId": id})
		return domain.Transaction{}, notFound(err, "transaction", id)
	}

	current, lookupErr := r.GetByID(ctx, id)
	if lookupErr != nil {
		return domain.Transaction{}, lookupErr
	}
	return domain.Transaction{}, fmt.Errorf("transaction %s is %s: %w", id, current.Status, domain.ErrAlreadyResolved)
}

func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 4)
	add := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.AccountID != "" {
		add("account_id", filter.AccountID)
	}
	if filter.Type != "" {
		add("type", filter.Type)
	}
	if filter.Status != "" {
		add("status", filter.Status)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		tx         domain.Transaction
		resolvedBy sql.NullString
		resolvedAt sql.NullTime
	)
	if err := row.Scan(
		&tx.ID,
		&tx.AccountID,
		&tx.Type,
		&tx.Amount,
		&tx.Status,
		&tx.WalletAddress,
		&tx.TransactionHash,
		&tx.AdminNote,
		&resolvedBy,
		&resolvedAt,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}
	if resolvedBy.Valid {
		tx.ResolvedBy = &resolvedBy.String
	}
	if resolvedAt.Valid {
		tx.ResolvedAt = &resolvedAt.Time
	}
	return tx, nil
}
