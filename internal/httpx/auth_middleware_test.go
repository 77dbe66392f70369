package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookbeat/internal/httpx"
	"bookbeat/internal/testutil"
)

const testSecret = "test-secret-key"

func TestAuthMiddleware_ValidTokenSetsContextUser(t *testing.T) {
	var gotUserID, gotRole string
	handler := httpx.AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httpx.UserIDFrom(r)
		gotRole = httpx.RoleFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	token := testutil.GenerateTestToken(testSecret, "user-123", "USER")
	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid token, got %d", w.Code)
	}
	if gotUserID != "user-123" {
		t.Errorf("expected user id in context, got %q", gotUserID)
	}
	if gotRole != "USER" {
		t.Errorf("expected role in context, got %q", gotRole)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	handler := httpx.AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for an expired token")
	}))

	token := testutil.GenerateExpiredToken(testSecret, "user-123", "USER")
	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	handler := httpx.AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for a forged token")
	}))

	token := testutil.GenerateTestToken("other-secret", "user-123", "USER")
	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong secret, got %d", w.Code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Token abc",
		"empty bearer": "Bearer ",
		"garbage":      "Bearer not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			handler := httpx.AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not run without valid auth")
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/recommendations", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}
