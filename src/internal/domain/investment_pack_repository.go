package domain

import "context"

type InvestmentPackRepository interface {
	Create(ctx context.Context, pack InvestmentPack) (InvestmentPack, error)
	GetByID(ctx context.Context, id string) (InvestmentPack, error)
	List(ctx context.Context, activeOnly bool) ([]InvestmentPack, error)
	SetActive(ctx context.Context, id string, active bool) (InvestmentPack, error)
}
