package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
	"github.com/api-sage/invest-ledger/src/internal/metrics"
)

type KYCService struct {
	store domain.Store
	now   Clock
}

func NewKYCService(store domain.Store, now Clock) *KYCService {
	if now == nil {
		now = SystemClock
	}
	return &KYCService{store: store, now: now}
}

// Submit files the caller's one and only KYC record.
func (s *KYCService) Submit(ctx context.Context, principal domain.Principal, submission domain.KYCSubmission) (domain.KYCVerification, error) {
	if err := authenticated(principal); err != nil {
		return domain.KYCVerification{}, err
	}
	if err := submission.Validate(s.now()); err != nil {
		return domain.KYCVerification{}, err
	}

	var created domain.KYCVerification
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		_, err := repos.KYC().GetByAccountID(ctx, principal.AccountID)
		if err == nil {
			return fmt.Errorf("account %s: %w", principal.AccountID, domain.ErrAlreadySubmitted)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		created, err = repos.KYC().Create(ctx, domain.KYCVerification{
			AccountID:   principal.AccountID,
			FullName:    strings.TrimSpace(submission.FullName),
			DateOfBirth: domain.DateOf(submission.DateOfBirth),
			Country:     strings.TrimSpace(submission.Country),
			IDType:      submission.IDType,
			IDNumber:    strings.TrimSpace(submission.IDNumber),
			Status:      domain.KYCStatusPending,
		})
		return err
	})
	if err != nil {
		logger.Error("kyc service submit failed", err, logger.Fields{"accountId": principal.AccountID})
		return domain.KYCVerification{}, err
	}

	logger.Info("kyc service submit success", logger.Fields{
		"kycId":     created.ID,
		"accountId": created.AccountID,
	})
	return created, nil
}

// Status returns the caller's record, or ErrNotFound when nothing was submitted.
func (s *KYCService) Status(ctx context.Context, principal domain.Principal) (domain.KYCVerification, error) {
	if err := authenticated(principal); err != nil {
		return domain.KYCVerification{}, err
	}
	return s.store.KYC().GetByAccountID(ctx, principal.AccountID)
}

func (s *KYCService) Approve(ctx context.Context, principal domain.Principal, id string, note string) (domain.KYCVerification, error) {
	return s.review(ctx, principal, id, note, domain.KYCStatusApproved)
}

func (s *KYCService) Reject(ctx context.Context, principal domain.Principal, id string, note string) (domain.KYCVerification, error) {
	return s.review(ctx, principal, id, note, domain.KYCStatusRejected)
}

// review only acts on pending records. Approval flips the account's
// verified flag in the same unit of work.
func (s *KYCService) review(ctx context.Context, principal domain.Principal, id string, note string, decision domain.KYCStatus) (domain.KYCVerification, error) {
	if err := Authorize(principal, domain.CapabilityReviewKYC); err != nil {
		return domain.KYCVerification{}, err
	}

	var reviewed domain.KYCVerification
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		record, err := repos.KYC().Lock(ctx, id)
		if err != nil {
			return err
		}
		if record.Status != domain.KYCStatusPending {
			return fmt.Errorf("kyc %s is %s: %w", id, record.Status, domain.ErrAlreadyResolved)
		}

		reviewed, err = repos.KYC().Review(ctx, id, domain.KYCReview{
			Status:     decision,
			AdminNote:  strings.TrimSpace(note),
			ReviewedBy: principal.AccountID,
			ReviewedAt: s.now(),
		})
		if err != nil {
			return err
		}

		if decision == domain.KYCStatusApproved {
			return repos.Accounts().SetKYCVerified(ctx, record.AccountID, true)
		}
		return nil
	})
	if err != nil {
		logger.Error("kyc service review failed", err, logger.Fields{
			"kycId":    id,
			"decision": decision,
		})
		return domain.KYCVerification{}, err
	}

	metrics.KYCReviews.WithLabelValues(string(decision)).Inc()
	logger.Info("kyc service review success", logger.Fields{
		"kycId":      id,
		"accountId":  reviewed.AccountID,
		"decision":   decision,
		"reviewedBy": principal.AccountID,
	})
	return reviewed, nil
}

func (s *KYCService) ListByStatus(ctx context.Context, principal domain.Principal, status domain.KYCStatus) ([]domain.KYCVerification, error) {
	if err := Authorize(principal, domain.CapabilityReviewKYC); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown kyc status %q: %w", status, domain.ErrInvalidInput)
	}
	return s.store.KYC().ListByStatus(ctx, status)
}
