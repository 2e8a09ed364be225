package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setupHTTP(t *testing.T) (*Handler, *http.ServeMux) {
	t.Helper()

	h := &Handler{
		TaskRepo:    NewMockTaskRepository(),
		UserRepo:    NewMockUserRepository(),
		JWTSecret:   []byte(testSecret),
		RateLimiter: NewRateLimiter(100, time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", h.Register)
	mux.HandleFunc("/auth/login", h.Login)
	mux.HandleFunc("/todos", h.AuthMiddleware(h.HandleTasks))
	mux.HandleFunc("/todos/", h.AuthMiddleware(h.HandleTaskByID))
	mux.HandleFunc("/ai/parse", h.AuthMiddleware(h.HandleParse))
	mux.HandleFunc("/ai/improve", h.AuthMiddleware(h.HandleImprove))
	mux.HandleFunc("/ai/classify", h.AuthMiddleware(h.HandleClassify))

	return h, mux
}

func bearerForUser(t *testing.T, secret, userID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return "Bearer " + signed
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, mux := setupHTTP(t)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	_, mux := setupHTTP(t)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	_, mux := setupHTTP(t)

	authz := bearerForUser(t, strings.Repeat("x", 32), uuid.NewString())
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", authz)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	_, mux := setupHTTP(t)

	claims := jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_MissingSubject(t *testing.T) {
	_, mux := setupHTTP(t)

	claims := jwt.MapClaims{
		"exp": time.Now().Add(1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, mux := setupHTTP(t)

	authz := bearerForUser(t, testSecret, uuid.NewString())
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", authz)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}
