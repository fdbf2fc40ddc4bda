package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdf-annotator/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// MockSupabaseClient for testing
type MockSupabaseClient struct{}

func (m *MockSupabaseClient) Initialize() error {
	return nil
}

func (m *MockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if token == "valid-token" {
		return &domain.SupabaseUser{
			ID:    "user-123",
			Email: "test@example.com",
		}, nil
	}
	return nil, errors.New("invalid token")
}

func (m *MockSupabaseClient) DB() *supabase.Client {
	return nil
}

func (m *MockSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	return nil, nil
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	middleware := AuthMiddleware(&MockSupabaseClient{}, NewMockHandlerLogger())
	return middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r)
		if !ok || user.ID != "user-123" {
			t.Error("Expected user in context")
		}
		token, ok := GetTokenFromContext(r)
		if !ok || token != "valid-token" {
			t.Error("Expected token in context")
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/files/f1", nil)
	rec := httptest.NewRecorder()

	protectedEcho(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/files/f1", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	protectedEcho(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/files/f1", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()

	protectedEcho(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/files/f1", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	protectedEcho(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}
