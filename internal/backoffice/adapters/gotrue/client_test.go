package gotrue_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dineview/backoffice/internal/backoffice/adapters/gotrue"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if creds.Email != "admin@dineview.io" || creds.Password != "s3cret" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-123",
			"user":         map[string]string{"id": "user-1", "email": creds.Email},
		})
	})

	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "email": "admin@dineview.io"})
	})

	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientSignIn(t *testing.T) {
	server := newAuthServer(t)
	client := gotrue.NewClient(server.URL, "test-key")
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		session, err := client.SignIn(ctx, "admin@dineview.io", "s3cret")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if session.UserID != "user-1" || session.AccessToken != "token-123" {
			t.Errorf("unexpected session %+v", session)
		}
	})

	t.Run("invalid credentials carry the backend reason", func(t *testing.T) {
		_, err := client.SignIn(ctx, "admin@dineview.io", "wrong")
		var authErr *ports.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %v", err)
		}
		if authErr.Reason != "Invalid login credentials" {
			t.Errorf("expected backend reason verbatim, got %q", authErr.Reason)
		}
	})

	t.Run("unreachable server is a network error", func(t *testing.T) {
		dead := gotrue.NewClient("http://127.0.0.1:1", "test-key")
		_, err := dead.SignIn(ctx, "admin@dineview.io", "s3cret")
		var authErr *ports.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %v", err)
		}
		if authErr.Reason != "Network error" {
			t.Errorf("expected network reason, got %q", authErr.Reason)
		}
	})
}

func TestClientSession(t *testing.T) {
	server := newAuthServer(t)
	ctx := context.Background()

	t.Run("no cached token", func(t *testing.T) {
		client := gotrue.NewClient(server.URL, "test-key")
		session, err := client.Session(ctx)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if session != nil {
			t.Errorf("expected nil session, got %+v", session)
		}
	})

	t.Run("valid token is revalidated", func(t *testing.T) {
		client := gotrue.NewClient(server.URL, "test-key")
		if _, err := client.SignIn(ctx, "admin@dineview.io", "s3cret"); err != nil {
			t.Fatalf("sign in: %v", err)
		}
		session, err := client.Session(ctx)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if session == nil || session.Email != "admin@dineview.io" {
			t.Errorf("unexpected session %+v", session)
		}
	})
}

func TestClientSignOut(t *testing.T) {
	server := newAuthServer(t)
	client := gotrue.NewClient(server.URL, "test-key")
	ctx := context.Background()

	if _, err := client.SignIn(ctx, "admin@dineview.io", "s3cret"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := client.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	session, err := client.Session(ctx)
	if err != nil {
		t.Fatalf("session check: %v", err)
	}
	if session != nil {
		t.Errorf("expected no session after sign out, got %+v", session)
	}

	// Without a cached token sign out is a no-op.
	if err := client.SignOut(ctx); err != nil {
		t.Errorf("expected idempotent sign out, got: %v", err)
	}
}
