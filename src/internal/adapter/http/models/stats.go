package models

import "github.com/api-sage/invest-ledger/src/internal/domain"

type UserStatsResponse struct {
	Balance            string                `json:"balance"`
	ActiveInvestments  int                   `json:"activeInvestments"`
	TotalInvested      string                `json:"totalInvested"`
	AccruedEarnings    string                `json:"accruedEarnings"`
	ReferralCount      int                   `json:"referralCount"`
	ReferralEarnings   string                `json:"referralEarnings"`
	PendingWithdrawals string                `json:"pendingWithdrawals"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

func NewUserStatsResponse(s domain.UserStats) UserStatsResponse {
	return UserStatsResponse{
		Balance:            formatMoney(s.Balance),
		ActiveInvestments:  s.ActiveInvestments,
		TotalInvested:      formatMoney(s.TotalInvested),
		AccruedEarnings:    formatMoney(s.AccruedEarnings),
		ReferralCount:      s.ReferralCount,
		ReferralEarnings:   formatMoney(s.ReferralEarnings),
		PendingWithdrawals: formatMoney(s.PendingWithdrawals),
		RecentTransactions: NewTransactionResponses(s.RecentTransactions),
	}
}

type MilestoneResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	RequiredReferrals int    `json:"requiredReferrals"`
	RewardAmount      string `json:"rewardAmount"`
	Icon              string `json:"icon,omitempty"`
	Achieved          bool   `json:"achieved"`
	Remaining         int    `json:"remaining"`
}

type ReferralStatsResponse struct {
	ReferralCode    string              `json:"referralCode"`
	ReferralCount   int                 `json:"referralCount"`
	TotalCommission string              `json:"totalCommission"`
	Milestones      []MilestoneResponse `json:"milestones"`
}

func NewReferralStatsResponse(s domain.ReferralStats) ReferralStatsResponse {
	out := ReferralStatsResponse{
		ReferralCode:    s.ReferralCode,
		ReferralCount:   s.ReferralCount,
		TotalCommission: formatMoney(s.TotalCommission),
		Milestones:      make([]MilestoneResponse, 0, len(s.Milestones)),
	}
	for _, m := range s.Milestones {
		out.Milestones = append(out.Milestones, MilestoneResponse{
			ID:                m.Milestone.ID,
			Name:              m.Milestone.Name,
			RequiredReferrals: m.Milestone.RequiredReferrals,
			RewardAmount:      formatMoney(m.Milestone.RewardAmount),
			Icon:              m.Milestone.Icon,
			Achieved:          m.Achieved,
			Remaining:         m.Remaining,
		})
	}
	return out
}

type AdminStatsResponse struct {
	TotalCustomers     int64             `json:"totalCustomers"`
	ActiveInvestments  int64             `json:"activeInvestments"`
	PendingDeposits    int64             `json:"pendingDeposits"`
	PendingWithdrawals int64             `json:"pendingWithdrawals"`
	PendingKYC         int64             `json:"pendingKyc"`
	PlatformBalance    string            `json:"platformBalance"`
	CompletedEarnings  string            `json:"completedEarnings"`
	RecentCustomers    []AccountResponse `json:"recentCustomers"`
	GeneratedAt        string            `json:"generatedAt"`
}

func NewAdminStatsResponse(s domain.AdminStats) AdminStatsResponse {
	out := AdminStatsResponse{
		TotalCustomers:     s.TotalCustomers,
		ActiveInvestments:  s.ActiveInvestments,
		PendingDeposits:    s.PendingDeposits,
		PendingWithdrawals: s.PendingWithdrawals,
		PendingKYC:         s.PendingKYC,
		PlatformBalance:    formatMoney(s.PlatformBalance),
		CompletedEarnings:  formatMoney(s.CompletedEarnings),
		RecentCustomers:    make([]AccountResponse, 0, len(s.RecentCustomers)),
		GeneratedAt:        formatTime(s.GeneratedAt),
	}
	for _, a := range s.RecentCustomers {
		out.RecentCustomers = append(out.RecentCustomers, NewAccountResponse(a))
	}
	return out
}

type AffiliateResponse struct {
	ReferrerID      string `json:"referrerId"`
	Username        string `json:"username"`
	ReferralCount   int64  `json:"referralCount"`
	CommissionCount int64  `json:"commissionCount"`
	CommissionTotal string `json:"commissionTotal"`
}

func NewAffiliateResponses(stats []domain.AffiliateStat) []AffiliateResponse {
	out := make([]AffiliateResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, AffiliateResponse{
			ReferrerID:      s.ReferrerID,
			Username:        s.Username,
			ReferralCount:   s.ReferralCount,
			CommissionCount: s.CommissionCount,
			CommissionTotal: formatMoney(s.CommissionTotal),
		})
	}
	return out
}
