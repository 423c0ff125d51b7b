package services

import (
	"context"
	"time"

	"github.com/api-sage/invest-ledger/src/internal/logger"
)

// MaturitySweeper periodically persists the completed status of matured
// investments. Reads derive the same status on their own, so a missed tick
// only delays what is stored.
type MaturitySweeper struct {
	investments *InvestmentService
	interval    time.Duration
	now         Clock
}

func NewMaturitySweeper(investments *InvestmentService, interval time.Duration, now Clock) *MaturitySweeper {
	if now == nil {
		now = SystemClock
	}
	return &MaturitySweeper{investments: investments, interval: interval, now: now}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *MaturitySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.SweepOnce(ctx)
		select {
		case <-ctx.Done():
			logger.Info("maturity sweeper stopped", nil)
			return
		case <-ticker.C:
		}
	}
}

func (s *MaturitySweeper) SweepOnce(ctx context.Context) int {
	completed, err := s.investments.CompleteMatured(ctx, s.now())
	if err != nil {
		logger.Error("maturity sweeper sweep failed", err, logger.Fields{"completed": completed})
		return completed
	}
	if completed > 0 {
		logger.Info("maturity sweeper sweep success", logger.Fields{"completed": completed})
	}
	return completed
}
