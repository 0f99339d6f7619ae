package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"resto-reviews-backend/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthMiddlewareResolvesIdentity(t *testing.T) {
	var got models.Identity
	handler := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetIdentity(r.Context())
	}))

	token := signToken(t, jwt.MapClaims{
		"sub":   "alice",
		"roles": []string{models.RoleUser},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Username != "alice" {
		t.Fatalf("expected username alice, got %q", got.Username)
	}
	if got.IsAdmin() {
		t.Fatal("plain user must not resolve as admin")
	}
}

func TestAuthMiddlewareAdminRole(t *testing.T) {
	var got models.Identity
	handler := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetIdentity(r.Context())
	}))

	token := signToken(t, jwt.MapClaims{
		"sub":   "root",
		"roles": []string{models.RoleUser, models.RoleAdmin},
	}, testSecret)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))

	if !got.IsAdmin() {
		t.Fatal("admin role not resolved")
	}
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	handler := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", signToken(t, jwt.MapClaims{"sub": "alice"}, "other-secret")},
		{"no subject", signToken(t, jwt.MapClaims{"roles": []string{models.RoleUser}}, testSecret)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(c.token))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestGetIdentityWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	identity := GetIdentity(req.Context())
	if identity.Username != "" || identity.IsAdmin() {
		t.Fatalf("expected zero identity, got %+v", identity)
	}
}
