// Package auth verifies identity-provider tokens and syncs their users into
// local storage.
//
// The flow mirrors a Clerk-style setup: the token's issuer is discovered from
// its unverified claims, the issuer's JWKS supplies the RS256 verification
// key (cached), and users are created or refreshed locally on each verified
// request. Incomplete claims fall back to a REST lookup against the provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SinghAman21/spendsplit/internal/cache"
	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/storage"
)

var (
	// ErrTokenExpired means the token's signature verified but it is stale.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrIssuerUnknown means the issuer could not be discovered from the
	// token, so verification cannot even be attempted. Callers treat the
	// request as anonymous rather than rejecting it.
	ErrIssuerUnknown = errors.New("token issuer unknown")
)

const providerLookupTTL = time.Hour

// Verifier authenticates bearer tokens and returns the synced local user.
type Verifier struct {
	keys   KeyProvider
	lookup *ProviderClient // nil when no provider secret is configured
	store  storage.Store
	cache  *cache.Cache
}

// NewVerifier creates a token verifier. lookup may be nil, in which case
// incomplete token claims are used as-is.
func NewVerifier(keys KeyProvider, lookup *ProviderClient, store storage.Store, c *cache.Cache) *Verifier {
	return &Verifier{keys: keys, lookup: lookup, store: store, cache: c}
}

// Authenticate verifies tokenString and returns the local user it maps to,
// creating or refreshing the user record from the token claims.
func (v *Verifier) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	issuer, err := unverifiedIssuer(tokenString)
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		return v.keys.SigningKey(ctx, issuer, kid)
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrTokenInvalid)
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if name == "" {
		given, _ := claims["given_name"].(string)
		family, _ := claims["family_name"].(string)
		name = strings.TrimSpace(given + " " + family)
	}

	// Claims can be sparse depending on the provider's token template;
	// fill the gaps from the provider's user API.
	if (email == "" || name == "") && v.lookup != nil {
		if pu, err := v.lookupUser(ctx, sub); err == nil {
			if email == "" {
				email = pu.Email
			}
			if name == "" {
				name = pu.Name
			}
		}
	}
	if name == "" {
		name = sub
	}

	user, err := v.store.UpsertExternalUser(ctx, sub, name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}
	return user, nil
}

// lookupUser fetches provider user details, caching results so repeated
// requests from the same user do not hit the provider every time.
func (v *Verifier) lookupUser(ctx context.Context, subject string) (*ProviderUser, error) {
	key := "provider:user:" + subject

	var cached ProviderUser
	if v.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	pu, err := v.lookup.User(ctx, subject)
	if err != nil {
		return nil, err
	}

	v.cache.Set(ctx, key, pu, providerLookupTTL)
	return pu, nil
}

// unverifiedIssuer extracts the iss claim without verifying the signature.
// The issuer determines which JWKS can verify the token, so this is read
// first; nothing else from the unverified pass is trusted.
func unverifiedIssuer(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	issuer, _ := claims["iss"].(string)
	if issuer == "" {
		return "", ErrIssuerUnknown
	}
	return issuer, nil
}
