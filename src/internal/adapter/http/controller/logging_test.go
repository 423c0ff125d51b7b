package controller

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

func TestLoggingTagsRouteAndPrincipal(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	svc := stubTransactionService{
		approve: func(_ context.Context, _ domain.Principal, id string, _ string) (domain.Transaction, error) {
			return domain.Transaction{ID: id, Type: domain.TransactionTypeDeposit, Status: domain.TransactionStatusApproved}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/transactions/tx-9/approve", nil)
	if rr := serveTransactions(t, svc, req, &adminPrincipal); rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var entries []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("expected json log line, got %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	if len(entries) != 2 {
		t.Fatalf("expected request and response lines, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry["route"] != "/admin/transactions/{id}/approve" {
			t.Fatalf("expected route template, got %v", entry["route"])
		}
		if entry["principalId"] != "admin-1" || entry["principalRole"] != "admin" {
			t.Fatalf("expected admin principal, got %v %v", entry["principalId"], entry["principalRole"])
		}
		if entry["path"] != "/admin/transactions/tx-9/approve" {
			t.Fatalf("expected concrete path, got %v", entry["path"])
		}
	}
	if entries[0]["msg"] != "api request received" || entries[1]["msg"] != "api response sent" {
		t.Fatalf("unexpected messages %v / %v", entries[0]["msg"], entries[1]["msg"])
	}
	if entries[1]["status"] != float64(http.StatusOK) || entries[1]["level"] != "info" {
		t.Fatalf("expected info level 200 response, got %v %v", entries[1]["level"], entries[1]["status"])
	}
}

func TestLoggingRaisesLevelForFailures(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	req := httptest.NewRequest(http.MethodGet, "/admin/transactions?status=settled", nil)
	if rr := serveTransactions(t, stubTransactionService{}, req, &adminPrincipal); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}

	var last map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		last = nil
		if err := json.Unmarshal(scanner.Bytes(), &last); err != nil {
			t.Fatalf("expected json log line, got %q: %v", scanner.Text(), err)
		}
	}
	if last["msg"] != "api response sent" || last["level"] != "warning" {
		t.Fatalf("expected warning response line, got %v", last)
	}
	if last["query"] != "status=settled" {
		t.Fatalf("expected query to be logged, got %v", last["query"])
	}
}
