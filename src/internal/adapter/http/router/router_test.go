package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/invest-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/invest-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/invest-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/invest-ledger/src/internal/usecase/services"
)

const secret = "router-test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.NewStore()
	clock := func() time.Time { return time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC) }
	ledger := services.NewLedgerService(store)
	commissions := services.NewCommissionService(store, ledger, decimal.RequireFromString("0.03"))

	handler := router.New(
		middleware.PrincipalAuth(secret),
		nil,
		controller.NewPackController(services.NewPackService(store)),
		controller.NewInvestmentController(services.NewInvestmentService(store, ledger, commissions, clock)),
		controller.NewTransactionController(services.NewTransactionService(store, ledger, clock)),
		controller.NewKYCController(services.NewKYCService(store, clock)),
		controller.NewAccountController(services.NewAccountService(store)),
		controller.NewStatsController(services.NewReportingService(store, clock)),
		controller.NewReferralController(commissions),
	)
	return &api{t: t, handler: handler}
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (a *api) do(method, path, bearer, body string, wantStatus int, out any) envelope {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	if rr.Code != wantStatus {
		a.t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, wantStatus, rr.Code, rr.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			a.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return env
}

func TestRouter_InvestmentFlowPaysReferrer(t *testing.T) {
	a := newAPI(t)
	adminToken := token(t, "admin-1", "admin")

	var pack struct {
		ID string `json:"id"`
	}
	a.do(http.MethodPost, "/api/v1/admin/packs", adminToken,
		`{"name":"Starter","minAmount":"100","maxAmount":"4999","dailyReturnRate":"2.5","durationDays":60}`,
		http.StatusCreated, &pack)

	var referrer struct {
		ID           string `json:"id"`
		ReferralCode string `json:"referralCode"`
	}
	a.do(http.MethodPost, "/api/v1/admin/accounts", adminToken,
		`{"username":"ada","email":"ada@example.com"}`, http.StatusCreated, &referrer)

	var investor struct {
		ID         string `json:"id"`
		ReferrerID string `json:"referrerId"`
	}
	a.do(http.MethodPost, "/api/v1/admin/accounts", adminToken,
		`{"username":"bob","email":"bob@example.com","referralCode":"`+referrer.ReferralCode+`"}`,
		http.StatusCreated, &investor)
	if investor.ReferrerID != referrer.ID {
		t.Fatalf("expected referrer %s, got %s", referrer.ID, investor.ReferrerID)
	}
	investorToken := token(t, investor.ID, "customer")

	var deposit struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	a.do(http.MethodPost, "/api/v1/transactions/deposits", investorToken,
		`{"amount":"1000","transactionHash":"0xabc"}`, http.StatusCreated, &deposit)
	if deposit.Status != "pending" {
		t.Fatalf("expected pending deposit, got %s", deposit.Status)
	}
	a.do(http.MethodPost, "/api/v1/admin/transactions/"+deposit.ID+"/approve", adminToken, `{"note":"ok"}`, http.StatusOK, nil)

	env := a.do(http.MethodPost, "/api/v1/admin/transactions/"+deposit.ID+"/approve", adminToken, "", http.StatusConflict, nil)
	if env.Code != "already_resolved" {
		t.Fatalf("expected already_resolved, got %q", env.Code)
	}

	env = a.do(http.MethodPost, "/api/v1/investments", investorToken,
		`{"packId":"`+pack.ID+`","amount":"999.995"}`, http.StatusBadRequest, nil)
	if env.Code != "invalid_input" {
		t.Fatalf("expected invalid_input for sub-cent amount, got %q", env.Code)
	}

	var inv struct {
		ID          string `json:"id"`
		DailyReturn string `json:"dailyReturn"`
		Status      string `json:"status"`
	}
	a.do(http.MethodPost, "/api/v1/investments", investorToken,
		`{"packId":"`+pack.ID+`","amount":"1000"}`, http.StatusCreated, &inv)
	if inv.DailyReturn != "25.00" || inv.Status != "active" {
		t.Fatalf("unexpected investment %+v", inv)
	}

	var me struct {
		Balance string `json:"balance"`
	}
	a.do(http.MethodGet, "/api/v1/accounts/me", investorToken, "", http.StatusOK, &me)
	if me.Balance != "0.00" {
		t.Fatalf("expected investor balance 0.00, got %s", me.Balance)
	}

	var referrals struct {
		ReferralCount   int    `json:"referralCount"`
		TotalCommission string `json:"totalCommission"`
	}
	a.do(http.MethodGet, "/api/v1/referrals/stats", token(t, referrer.ID, "customer"), "", http.StatusOK, &referrals)
	if referrals.ReferralCount != 1 || referrals.TotalCommission != "30.00" {
		t.Fatalf("unexpected referral stats %+v", referrals)
	}

	var earned struct {
		CommissionRate string `json:"commissionRate"`
		Commissions    []struct {
			ReferredUserID string `json:"referredUserId"`
			InvestmentID   string `json:"investmentId"`
			Amount         string `json:"amount"`
		} `json:"commissions"`
	}
	a.do(http.MethodGet, "/api/v1/referrals", token(t, referrer.ID, "customer"), "", http.StatusOK, &earned)
	if earned.CommissionRate != "0.03" {
		t.Fatalf("expected commission rate 0.03, got %s", earned.CommissionRate)
	}
	if len(earned.Commissions) != 1 || earned.Commissions[0].InvestmentID != inv.ID ||
		earned.Commissions[0].ReferredUserID != investor.ID || earned.Commissions[0].Amount != "30.00" {
		t.Fatalf("unexpected referral commissions %+v", earned.Commissions)
	}

	a.do(http.MethodGet, "/api/v1/referrals", investorToken, "", http.StatusOK, &earned)
	if len(earned.Commissions) != 0 {
		t.Fatalf("expected investor to have earned nothing, got %+v", earned.Commissions)
	}
}

func TestRouter_AdminListsInvestments(t *testing.T) {
	a := newAPI(t)
	adminToken := token(t, "admin-1", "admin")

	var pack struct {
		ID string `json:"id"`
	}
	a.do(http.MethodPost, "/api/v1/admin/packs", adminToken,
		`{"name":"Starter","minAmount":"100","maxAmount":"5000","dailyReturnRate":"2.5","durationDays":60}`,
		http.StatusCreated, &pack)

	ids := make([]string, 0, 2)
	for _, name := range []string{"dee", "eve"} {
		var account struct {
			ID string `json:"id"`
		}
		a.do(http.MethodPost, "/api/v1/admin/accounts", adminToken,
			`{"username":"`+name+`","email":"`+name+`@example.com"}`, http.StatusCreated, &account)
		customerToken := token(t, account.ID, "customer")

		var deposit struct {
			ID string `json:"id"`
		}
		a.do(http.MethodPost, "/api/v1/transactions/deposits", customerToken, `{"amount":"500","transactionHash":"0x`+name+`"}`, http.StatusCreated, &deposit)
		a.do(http.MethodPost, "/api/v1/admin/transactions/"+deposit.ID+"/approve", adminToken, "", http.StatusOK, nil)
		a.do(http.MethodPost, "/api/v1/investments", customerToken, `{"packId":"`+pack.ID+`","amount":"500"}`, http.StatusCreated, nil)
		ids = append(ids, account.ID)
	}

	var all []struct {
		ID        string `json:"id"`
		AccountID string `json:"accountId"`
		Status    string `json:"status"`
	}
	a.do(http.MethodGet, "/api/v1/admin/investments", adminToken, "", http.StatusOK, &all)
	if len(all) != 2 || all[0].AccountID != ids[1] || all[1].AccountID != ids[0] {
		t.Fatalf("expected both investments newest first, got %+v", all)
	}

	a.do(http.MethodGet, "/api/v1/admin/investments?accountId="+ids[0]+"&status=active", adminToken, "", http.StatusOK, &all)
	if len(all) != 1 || all[0].AccountID != ids[0] || all[0].Status != "active" {
		t.Fatalf("expected dee's active investment, got %+v", all)
	}
	a.do(http.MethodGet, "/api/v1/admin/investments?status=completed", adminToken, "", http.StatusOK, &all)
	if len(all) != 0 {
		t.Fatalf("expected no completed investments, got %+v", all)
	}

	env := a.do(http.MethodGet, "/api/v1/admin/investments?status=paused", adminToken, "", http.StatusBadRequest, nil)
	if env.Code != "invalid_input" {
		t.Fatalf("expected invalid_input, got %q", env.Code)
	}
	env = a.do(http.MethodGet, "/api/v1/admin/investments", token(t, ids[0], "customer"), "", http.StatusForbidden, nil)
	if env.Code != "permission_denied" {
		t.Fatalf("expected permission_denied, got %q", env.Code)
	}
}

func TestRouter_MapsDomainErrors(t *testing.T) {
	a := newAPI(t)
	adminToken := token(t, "admin-1", "admin")

	var customer struct {
		ID string `json:"id"`
	}
	a.do(http.MethodPost, "/api/v1/admin/accounts", adminToken,
		`{"username":"cy","email":"cy@example.com"}`, http.StatusCreated, &customer)
	customerToken := token(t, customer.ID, "customer")

	env := a.do(http.MethodGet, "/api/v1/admin/stats", customerToken, "", http.StatusForbidden, nil)
	if env.Code != "permission_denied" {
		t.Fatalf("expected permission_denied, got %q", env.Code)
	}

	env = a.do(http.MethodGet, "/api/v1/investments/missing", customerToken, "", http.StatusNotFound, nil)
	if env.Code != "not_found" {
		t.Fatalf("expected not_found, got %q", env.Code)
	}

	env = a.do(http.MethodPost, "/api/v1/investments", customerToken, `{"packId":"","amount":"abc"}`, http.StatusBadRequest, nil)
	if env.Code != "invalid_input" {
		t.Fatalf("expected invalid_input, got %q", env.Code)
	}

	var kyc struct {
		Status string `json:"status"`
	}
	a.do(http.MethodGet, "/api/v1/kyc", customerToken, "", http.StatusOK, &kyc)
	if kyc.Status != "not_submitted" {
		t.Fatalf("expected not_submitted, got %s", kyc.Status)
	}
}

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	a := newAPI(t)

	for _, path := range []string{"/health", "/metrics", "/swagger/openapi.json"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		a.handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s: expected status %d, got %d", path, http.StatusOK, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/packs", nil)
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}
