package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProviderClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Prefers the primary email address", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/user_123" {
				http.NotFound(w, r)
				return
			}
			if r.Header.Get("Authorization") != "Bearer sk_test" {
				t.Errorf("missing secret key header, got %q", r.Header.Get("Authorization"))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"first_name":               "Lena",
				"last_name":                "Meyer",
				"primary_email_address_id": "em_2",
				"email_addresses": []map[string]string{
					{"id": "em_1", "email_address": "old@example.com"},
					{"id": "em_2", "email_address": "lena@example.com"},
				},
			})
		}))
		defer server.Close()

		client := NewProviderClient(server.URL, "sk_test")
		user, err := client.User(ctx, "user_123")
		if err != nil {
			t.Fatalf("User failed: %v", err)
		}
		if user.Name != "Lena Meyer" || user.Email != "lena@example.com" {
			t.Errorf("unexpected provider user: %+v", user)
		}
	})

	t.Run("Non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := NewProviderClient(server.URL, "sk_test").User(ctx, "user_999"); err == nil {
			t.Error("expected error for 404 response")
		}
	})

	t.Run("Missing secret key disables the client", func(t *testing.T) {
		if client := NewProviderClient("https://api.example.com", ""); client != nil {
			t.Error("expected nil client without a secret key")
		}
	})
}

func TestAuthenticateSparseClaims(t *testing.T) {
	key := newTestKey(t)
	jwks := newJWKSServer(t, key)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"first_name":               "Omar",
			"last_name":                "Said",
			"primary_email_address_id": "em_1",
			"email_addresses": []map[string]string{
				{"id": "em_1", "email_address": "omar@example.com"},
			},
		})
	}))
	defer provider.Close()

	verifier := newVerifierWithStore(t)
	verifier.lookup = NewProviderClient(provider.URL, "sk_test")

	// Token carries only the subject; name and email come from the provider.
	token := signToken(t, key, map[string]any{
		"iss": jwks.URL,
		"sub": "user_456",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	user, err := verifier.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.Name != "Omar Said" || user.Email != "omar@example.com" {
		t.Errorf("expected provider-filled user, got %+v", user)
	}
}
