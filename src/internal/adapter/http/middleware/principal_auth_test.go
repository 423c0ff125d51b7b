package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

const testSecret = "test-secret-with-enough-entropy"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(sub, role string) Claims {
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func serve(t *testing.T, authorization string) (*httptest.ResponseRecorder, *domain.Principal) {
	t.Helper()
	var seen *domain.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFrom(r.Context()); ok {
			seen = &p
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	PrincipalAuth(testSecret)(next).ServeHTTP(rr, req)
	return rr, seen
}

func TestPrincipalAuth_StoresPrincipalForValidToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("acc-1", "admin"))

	rr, principal := serve(t, "Bearer "+token)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if principal == nil {
		t.Fatal("expected principal in request context")
	}
	if principal.AccountID != "acc-1" || principal.Role != domain.RoleAdmin {
		t.Fatalf("unexpected principal %+v", *principal)
	}
}

func TestPrincipalAuth_RejectsBadRequests(t *testing.T) {
	expired := validClaims("acc-1", "customer")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "wrong secret", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("acc-1", "customer"))},
		{name: "expired", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{name: "unknown role", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("acc-1", "root"))},
		{name: "missing subject", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("", "customer"))},
		{name: "other algorithm", header: "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims("acc-1", "customer"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr, principal := serve(t, tc.header)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
			}
			if principal != nil {
				t.Fatal("next handler must not run")
			}
		})
	}
}

func TestPrincipalAuth_FailsClosedWithoutSecret(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	PrincipalAuth("")(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}
