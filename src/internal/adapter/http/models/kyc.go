package models

import (
	"errors"
	"strings"
	"time"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type SubmitKYCRequest struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	Country     string `json:"country"`
	IDType      string `json:"idType"`
	IDNumber    string `json:"idNumber"`
}

// ToDomain only checks the wire format; field rules live on domain.KYCSubmission.
func (r SubmitKYCRequest) ToDomain() (domain.KYCSubmission, error) {
	dob, err := time.Parse(dateLayout, strings.TrimSpace(r.DateOfBirth))
	if err != nil {
		return domain.KYCSubmission{}, errors.New("dateOfBirth must be in YYYY-MM-DD format")
	}
	return domain.KYCSubmission{
		FullName:    strings.TrimSpace(r.FullName),
		DateOfBirth: dob,
		Country:     strings.TrimSpace(r.Country),
		IDType:      strings.TrimSpace(r.IDType),
		IDNumber:    strings.TrimSpace(r.IDNumber),
	}, nil
}

type KYCResponse struct {
	ID          string  `json:"id,omitempty"`
	AccountID   string  `json:"accountId"`
	FullName    string  `json:"fullName,omitempty"`
	DateOfBirth string  `json:"dateOfBirth,omitempty"`
	Country     string  `json:"country,omitempty"`
	IDType      string  `json:"idType,omitempty"`
	IDNumber    string  `json:"idNumber,omitempty"`
	Status      string  `json:"status"`
	AdminNote   string  `json:"adminNote,omitempty"`
	SubmittedAt string  `json:"submittedAt,omitempty"`
	ReviewedAt  *string `json:"reviewedAt,omitempty"`
	ReviewedBy  *string `json:"reviewedBy,omitempty"`
}

func NewKYCResponse(kyc domain.KYCVerification) KYCResponse {
	if kyc.ID == "" {
		return KYCResponse{AccountID: kyc.AccountID, Status: string(kyc.Status)}
	}
	return KYCResponse{
		ID:          kyc.ID,
		AccountID:   kyc.AccountID,
		FullName:    kyc.FullName,
		DateOfBirth: kyc.DateOfBirth.Format(dateLayout),
		Country:     kyc.Country,
		IDType:      kyc.IDType,
		IDNumber:    maskIDNumber(kyc.IDNumber),
		Status:      string(kyc.Status),
		AdminNote:   kyc.AdminNote,
		SubmittedAt: formatTime(kyc.SubmittedAt),
		ReviewedAt:  formatOptionalTime(kyc.ReviewedAt),
		ReviewedBy:  kyc.ReviewedBy,
	}
}

func NewKYCResponses(list []domain.KYCVerification) []KYCResponse {
	out := make([]KYCResponse, 0, len(list))
	for _, kyc := range list {
		out = append(out, NewKYCResponse(kyc))
	}
	return out
}

func maskIDNumber(id string) string {
	if len(id) <= 4 {
		return strings.Repeat("*", len(id))
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}
