package domain

import "context"

type KYCRepository interface {
	// Create returns ErrAlreadySubmitted when the account already has a record.
	Create(ctx context.Context, kyc KYCVerification) (KYCVerification, error)
	GetByID(ctx context.Context, id string) (KYCVerification, error)
	GetByAccountID(ctx context.Context, accountID string) (KYCVerification, error)
	Lock(ctx context.Context, id string) (KYCVerification, error)
	Review(ctx context.Context, id string, review KYCReview) (KYCVerification, error)
	ListByStatus(ctx context.Context, status KYCStatus) ([]KYCVerification, error)
}
