package domain

import "context"

type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	GetByID(ctx context.Context, id string) (Transaction, error)
	Lock(ctx context.Context, id string) (Transaction, error)
	// Resolve moves a pending transaction to its final status and returns
	// ErrAlreadyResolved when it is no longer pending.
	Resolve(ctx context.Context, id string, resolution Resolution) (Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
}
