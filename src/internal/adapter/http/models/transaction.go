package models

import (
	"errors"
	"strings"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type DepositRequest struct {
	Amount          string `json:"amount"`
	WalletAddress   string `json:"walletAddress"`
	TransactionHash string `json:"transactionHash"`
}

func (r DepositRequest) Validate() error {
	_, err := r.ToDomain()
	return err
}

func (r DepositRequest) ToDomain() (domain.DepositRequest, error) {
	var errs []string
	amount := parseMoney("amount", r.Amount, &errs)
	if strings.TrimSpace(r.TransactionHash) == "" {
		errs = append(errs, "transactionHash is required")
	}
	if len(errs) > 0 {
		return domain.DepositRequest{}, errors.New(strings.Join(errs, "; "))
	}
	return domain.DepositRequest{
		Amount:          amount,
		WalletAddress:   strings.TrimSpace(r.WalletAddress),
		TransactionHash: strings.TrimSpace(r.TransactionHash),
	}, nil
}

type WithdrawalRequest struct {
	Amount        string `json:"amount"`
	WalletAddress string `json:"walletAddress"`
	Pin           string `json:"pin"`
}

func (r WithdrawalRequest) Validate() error {
	_, err := r.ToDomain()
	return err
}

func (r WithdrawalRequest) ToDomain() (domain.WithdrawalRequest, error) {
	var errs []string
	amount := parseMoney("amount", r.Amount, &errs)
	if len(errs) > 0 {
		return domain.WithdrawalRequest{}, errors.New(strings.Join(errs, "; "))
	}
	return domain.WithdrawalRequest{
		Amount:        amount,
		WalletAddress: strings.TrimSpace(r.WalletAddress),
		Pin:           r.Pin,
	}, nil
}

// ResolveRequest is shared by transaction and KYC review endpoints.
type ResolveRequest struct {
	Note string `json:"note"`
}

type TransactionResponse struct {
	ID              string  `json:"id"`
	AccountID       string  `json:"accountId"`
	Type            string  `json:"type"`
	Amount          string  `json:"amount"`
	Status          string  `json:"status"`
	WalletAddress   string  `json:"walletAddress,omitempty"`
	TransactionHash string  `json:"transactionHash,omitempty"`
	AdminNote       string  `json:"adminNote,omitempty"`
	ResolvedBy      *string `json:"resolvedBy,omitempty"`
	ResolvedAt      *string `json:"resolvedAt,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

func NewTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		AccountID:       tx.AccountID,
		Type:            string(tx.Type),
		Amount:          formatMoney(tx.Amount),
		Status:          string(tx.Status),
		WalletAddress:   tx.WalletAddress,
		TransactionHash: tx.TransactionHash,
		AdminNote:       tx.AdminNote,
		ResolvedBy:      tx.ResolvedBy,
		ResolvedAt:      formatOptionalTime(tx.ResolvedAt),
		CreatedAt:       formatTime(tx.CreatedAt),
	}
}

func NewTransactionResponses(txs []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}
