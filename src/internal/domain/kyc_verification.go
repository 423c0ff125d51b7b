package domain

import (
	"fmt"
	"strings"
	"time"
)

type KYCStatus string

const (
	KYCStatusNotSubmitted KYCStatus = "not_submitted"
	KYCStatusPending      KYCStatus = "pending"
	KYCStatusApproved     KYCStatus = "approved"
	KYCStatusRejected     KYCStatus = "rejected"
)

func (s KYCStatus) Valid() bool {
	return s == KYCStatusPending || s == KYCStatusApproved || s == KYCStatusRejected
}

type KYCVerification struct {
	ID          string
	AccountID   string
	FullName    string
	DateOfBirth time.Time
	Country     string
	IDType      string
	IDNumber    string
	Status      KYCStatus
	AdminNote   string
	SubmittedAt time.Time
	ReviewedAt  *time.Time
	ReviewedBy  *string
}

type KYCSubmission struct {
	FullName    string
	DateOfBirth time.Time
	Country     string
	IDType      string
	IDNumber    string
}

var idTypes = map[string]struct{}{
	"passport":        {},
	"national_id":     {},
	"drivers_license": {},
}

func (s KYCSubmission) Validate(now time.Time) error {
	errs := make([]string, 0)
	if strings.TrimSpace(s.FullName) == "" {
		errs = append(errs, "fullName is required")
	}
	if s.DateOfBirth.IsZero() {
		errs = append(errs, "dateOfBirth is required")
	} else if !s.DateOfBirth.Before(now) {
		errs = append(errs, "dateOfBirth must be in the past")
	}
	if strings.TrimSpace(s.Country) == "" {
		errs = append(errs, "country is required")
	}
	if _, ok := idTypes[s.IDType]; !ok {
		errs = append(errs, "idType must be one of passport, national_id, drivers_license")
	}
	if strings.TrimSpace(s.IDNumber) == "" {
		errs = append(errs, "idNumber is required")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(errs, "; "), ErrInvalidInput)
	}
	return nil
}

type KYCReview struct {
	Status     KYCStatus
	AdminNote  string
	ReviewedBy string
	ReviewedAt time.Time
}
