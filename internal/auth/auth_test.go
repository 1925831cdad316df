package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != 7 {
		t.Errorf("Verify() userID = %d, want 7", userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)
	other := NewTokenIssuer("another-secret-entirely", time.Hour)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("Verify() accepted token signed with a different secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", -time.Minute)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Error("Verify() accepted expired token")
	}
}

func TestMiddleware(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)
	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var gotUserID int64
	handler := issuer.Middleware(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	if gotUserID != 7 {
		t.Errorf("user id in context = %d, want 7", gotUserID)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter2!" {
		t.Fatal("HashPassword() returned the plaintext")
	}
	if !CheckPassword(hash, "hunter2!") {
		t.Error("CheckPassword() rejected correct password")
	}
	if CheckPassword(hash, "hunter3!") {
		t.Error("CheckPassword() accepted wrong password")
	}
}

func TestUserIDFromContextMissing(t *testing.T) {
	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("UserIDFromContext() succeeded on empty context")
	}
}
