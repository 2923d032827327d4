package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SinghAman21/spendsplit/internal/cache"
	"github.com/SinghAman21/spendsplit/internal/storage/sqlite"
)

const testKeyID = "test-key-1"

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	return key
}

// newJWKSServer serves the public half of key as a one-entry JWKS document.
func newJWKSServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/jwks.json" {
			http.NotFound(w, r)
			return
		}
		pub := key.Public().(*rsa.PublicKey)
		json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": testKeyID,
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newVerifierWithStore(t *testing.T) *Verifier {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "spendsplit-auth-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	c := cache.New(context.Background(), "", "", 0)
	return NewVerifier(NewJWKSProvider(time.Hour), nil, store, c)
}

func TestAuthenticate(t *testing.T) {
	key := newTestKey(t)
	jwks := newJWKSServer(t, key)
	verifier := newVerifierWithStore(t)
	ctx := context.Background()

	t.Run("Valid token syncs the user", func(t *testing.T) {
		token := signToken(t, key, jwt.MapClaims{
			"iss":   jwks.URL,
			"sub":   "user_123",
			"email": "lena@example.com",
			"name":  "Lena",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		user, err := verifier.Authenticate(ctx, token)
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.ExternalID != "user_123" || user.Name != "Lena" || user.Email != "lena@example.com" {
			t.Errorf("unexpected user: %+v", user)
		}

		// A second request with refreshed claims updates the same user.
		token2 := signToken(t, key, jwt.MapClaims{
			"iss":         jwks.URL,
			"sub":         "user_123",
			"email":       "lena@example.com",
			"given_name":  "Lena",
			"family_name": "Meyer",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})
		again, err := verifier.Authenticate(ctx, token2)
		if err != nil {
			t.Fatalf("Authenticate (second) failed: %v", err)
		}
		if again.ID != user.ID {
			t.Errorf("expected same local user, got %s and %s", user.ID, again.ID)
		}
		if again.Name != "Lena Meyer" {
			t.Errorf("expected name from given/family claims, got %q", again.Name)
		}
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		token := signToken(t, key, jwt.MapClaims{
			"iss": jwks.URL,
			"sub": "user_123",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		_, err := verifier.Authenticate(ctx, token)
		if !errors.Is(err, ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("Tampered signature is rejected", func(t *testing.T) {
		otherKey := newTestKey(t)
		token := signToken(t, otherKey, jwt.MapClaims{
			"iss": jwks.URL,
			"sub": "user_123",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := verifier.Authenticate(ctx, token)
		if !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("expected ErrTokenInvalid, got %v", err)
		}
	})

	t.Run("Missing issuer cannot be verified", func(t *testing.T) {
		token := signToken(t, key, jwt.MapClaims{
			"sub": "user_123",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := verifier.Authenticate(ctx, token)
		if !errors.Is(err, ErrIssuerUnknown) {
			t.Errorf("expected ErrIssuerUnknown, got %v", err)
		}
	})

	t.Run("Missing subject is invalid", func(t *testing.T) {
		token := signToken(t, key, jwt.MapClaims{
			"iss": jwks.URL,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := verifier.Authenticate(ctx, token)
		if !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("expected ErrTokenInvalid, got %v", err)
		}
	})

	t.Run("Garbage token is invalid", func(t *testing.T) {
		_, err := verifier.Authenticate(ctx, "not.a.token")
		if !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("expected ErrTokenInvalid, got %v", err)
		}
	})
}
