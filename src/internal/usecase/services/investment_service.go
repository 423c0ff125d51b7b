package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
	"github.com/api-sage/invest-ledger/src/internal/metrics"
)

const maturityBatchSize = 200

type InvestmentService struct {
	store       domain.Store
	ledger      *LedgerService
	commissions *CommissionService
	now         Clock
}

func NewInvestmentService(store domain.Store, ledger *LedgerService, commissions *CommissionService, now Clock) *InvestmentService {
	if now == nil {
		now = SystemClock
	}
	return &InvestmentService{store: store, ledger: ledger, commissions: commissions, now: now}
}

// CreateInvestment debits the caller, opens the investment and pays any
// referral commission as one unit of work.
func (s *InvestmentService) CreateInvestment(ctx context.Context, principal domain.Principal, packID string, amount decimal.Decimal) (domain.Investment, error) {
	if err := authenticated(principal); err != nil {
		return domain.Investment{}, err
	}
	logger.Info("investment service create request", logger.Fields{
		"accountId": principal.AccountID,
		"packId":    packID,
		"amount":    amount.String(),
	})

	var created domain.Investment
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		pack, err := repos.Packs().GetByID(ctx, packID)
		if err != nil {
			return err
		}
		if !pack.Active {
			return fmt.Errorf("pack %s: %w", pack.Name, domain.ErrPackInactive)
		}
		if err := domain.ValidateAmount(amount); err != nil {
			return err
		}
		if !pack.Accepts(amount) {
			return fmt.Errorf("pack %s accepts %s to %s: %w",
				pack.Name, pack.MinAmount.StringFixed(domain.MoneyPlaces), pack.MaxAmount.StringFixed(domain.MoneyPlaces), domain.ErrAmountOutOfRange)
		}

		investor, err := s.ledger.DebitIn(ctx, repos.Accounts(), principal.AccountID, amount)
		if err != nil {
			return err
		}

		created, err = repos.Investments().Create(ctx, domain.NewInvestment(investor.ID, pack, amount, s.now()))
		if err != nil {
			return fmt.Errorf("create investment: %w", err)
		}

		_, err = s.commissions.PayIn(ctx, repos, created, investor)
		return err
	})
	if err != nil {
		logger.Error("investment service create failed", err, logger.Fields{
			"accountId": principal.AccountID,
			"packId":    packID,
		})
		return domain.Investment{}, err
	}

	metrics.InvestmentsCreated.WithLabelValues(created.PackName).Inc()
	logger.Info("investment service create success", logger.Fields{
		"investmentId": created.ID,
		"accountId":    created.AccountID,
		"dailyReturn":  created.DailyReturn.StringFixed(domain.MoneyPlaces),
		"endDate":      created.EndDate.Format(time.DateOnly),
	})
	return created, nil
}

// GetInvestment returns the investment with its status derived as of now.
func (s *InvestmentService) GetInvestment(ctx context.Context, principal domain.Principal, id string) (domain.Investment, error) {
	inv, err := s.store.Investments().GetByID(ctx, id)
	if err != nil {
		return domain.Investment{}, err
	}
	if err := authorizeOwner(principal, inv.AccountID); err != nil {
		return domain.Investment{}, err
	}
	return inv.Effective(s.now()), nil
}

func (s *InvestmentService) ListMyInvestments(ctx context.Context, principal domain.Principal) ([]domain.Investment, error) {
	if err := authenticated(principal); err != nil {
		return nil, err
	}
	investments, err := s.store.Investments().ListByAccount(ctx, principal.AccountID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range investments {
		investments[i] = investments[i].Effective(now)
	}
	return investments, nil
}

// List is the operator view over every account's investments.
func (s *InvestmentService) List(ctx context.Context, principal domain.Principal, filter domain.InvestmentFilter) ([]domain.Investment, error) {
	if err := Authorize(principal, domain.CapabilityManageInvestments); err != nil {
		return nil, err
	}
	now := s.now()
	filter.AsOf = now
	investments, err := s.store.Investments().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range investments {
		investments[i] = investments[i].Effective(now)
	}
	return investments, nil
}

func (s *InvestmentService) Accrual(ctx context.Context, principal domain.Principal, id string) (domain.Accrual, error) {
	inv, err := s.GetInvestment(ctx, principal, id)
	if err != nil {
		return domain.Accrual{}, err
	}
	return domain.ComputeAccrual(inv, s.now()), nil
}

type InvestmentSeries struct {
	InvestmentID string
	PackName     string
	Points       []domain.AccrualPoint
}

// ChartData returns the accrual series of every investment still earning.
func (s *InvestmentService) ChartData(ctx context.Context, principal domain.Principal) ([]InvestmentSeries, error) {
	if err := authenticated(principal); err != nil {
		return nil, err
	}
	investments, err := s.store.Investments().ListByAccount(ctx, principal.AccountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	series := make([]InvestmentSeries, 0, len(investments))
	for _, inv := range investments {
		if domain.EffectiveStatus(inv, now) != domain.InvestmentStatusActive {
			continue
		}
		series = append(series, InvestmentSeries{
			InvestmentID: inv.ID,
			PackName:     inv.PackName,
			Points:       domain.ComputeAccrual(inv, now).Points,
		})
	}
	return series, nil
}

// CancelInvestment stops an active investment. Principal is not refunded.
func (s *InvestmentService) CancelInvestment(ctx context.Context, principal domain.Principal, id string) (domain.Investment, error) {
	if err := Authorize(principal, domain.CapabilityManageInvestments); err != nil {
		return domain.Investment{}, err
	}

	var cancelled domain.Investment
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		inv, err := repos.Investments().Lock(ctx, id)
		if err != nil {
			return err
		}
		if status := domain.EffectiveStatus(inv, s.now()); status != domain.InvestmentStatusActive {
			return fmt.Errorf("investment %s is %s: %w", id, status, domain.ErrAlreadyResolved)
		}
		cancelled, err = repos.Investments().Cancel(ctx, id, s.now())
		return err
	})
	if err != nil {
		logger.Error("investment service cancel failed", err, logger.Fields{"investmentId": id})
		return domain.Investment{}, err
	}

	logger.Info("investment service cancel success", logger.Fields{
		"investmentId": id,
		"cancelledBy":  principal.AccountID,
	})
	return cancelled, nil
}

// CompleteMatured persists the completed status for every investment whose
// end date is on or before asOf. It returns how many were completed.
func (s *InvestmentService) CompleteMatured(ctx context.Context, asOf time.Time) (int, error) {
	completed := 0
	for {
		batch, err := s.store.Investments().ListMatured(ctx, asOf, maturityBatchSize)
		if err != nil {
			return completed, err
		}
		if len(batch) == 0 {
			return completed, nil
		}

		for _, candidate := range batch {
			done, err := s.completeOne(ctx, candidate.ID, asOf)
			if err != nil {
				return completed, err
			}
			if done {
				completed++
			}
		}

		if len(batch) < maturityBatchSize {
			return completed, nil
		}
	}
}

func (s *InvestmentService) completeOne(ctx context.Context, id string, asOf time.Time) (bool, error) {
	done := false
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		inv, err := repos.Investments().Lock(ctx, id)
		if err != nil {
			return err
		}
		if domain.EffectiveStatus(inv, asOf) != domain.InvestmentStatusCompleted || inv.Status != domain.InvestmentStatusActive {
			return nil
		}
		total := domain.ComputeAccrual(inv, inv.EndDate).Accrued
		if _, err := repos.Investments().Complete(ctx, id, total, asOf); err != nil {
			return err
		}
		done = true
		return nil
	})
	if err != nil {
		logger.Error("investment service complete matured failed", err, logger.Fields{"investmentId": id})
		return false, err
	}
	if done {
		metrics.InvestmentsCompleted.Inc()
	}
	return done, nil
}
