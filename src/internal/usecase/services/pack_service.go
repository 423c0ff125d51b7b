package services

import (
	"context"
	"strings"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

type PackService struct {
	store domain.Store
}

func NewPackService(store domain.Store) *PackService {
	return &PackService{store: store}
}

func (s *PackService) ListActive(ctx context.Context) ([]domain.InvestmentPack, error) {
	return s.store.Packs().List(ctx, true)
}

func (s *PackService) ListAll(ctx context.Context, principal domain.Principal) ([]domain.InvestmentPack, error) {
	if err := Authorize(principal, domain.CapabilityManagePacks); err != nil {
		return nil, err
	}
	return s.store.Packs().List(ctx, false)
}

func (s *PackService) CreatePack(ctx context.Context, principal domain.Principal, pack domain.InvestmentPack) (domain.InvestmentPack, error) {
	if err := Authorize(principal, domain.CapabilityManagePacks); err != nil {
		return domain.InvestmentPack{}, err
	}
	pack.Name = strings.TrimSpace(pack.Name)
	if err := pack.Validate(); err != nil {
		return domain.InvestmentPack{}, err
	}

	created, err := s.store.Packs().Create(ctx, pack)
	if err != nil {
		logger.Error("pack service create failed", err, logger.Fields{"name": pack.Name})
		return domain.InvestmentPack{}, err
	}

	logger.Info("pack service create success", logger.Fields{
		"packId":          created.ID,
		"name":            created.Name,
		"dailyReturnRate": created.DailyReturnRate.String(),
		"durationDays":    created.DurationDays,
	})
	return created, nil
}

// SetPackActive is the only change a pack accepts after creation.
func (s *PackService) SetPackActive(ctx context.Context, principal domain.Principal, id string, active bool) (domain.InvestmentPack, error) {
	if err := Authorize(principal, domain.CapabilityManagePacks); err != nil {
		return domain.InvestmentPack{}, err
	}

	pack, err := s.store.Packs().SetActive(ctx, id, active)
	if err != nil {
		logger.Error("pack service set active failed", err, logger.Fields{"packId": id})
		return domain.InvestmentPack{}, err
	}

	logger.Info("pack service set active success", logger.Fields{"packId": id, "active": active})
	return pack, nil
}
