package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// KeyProvider resolves the RSA public key a token was signed with.
// The abstraction keeps the verifier testable and lets the key set be cached
// instead of re-fetched on every request.
type KeyProvider interface {
	SigningKey(ctx context.Context, issuer, keyID string) (*rsa.PublicKey, error)
}

// jwk is one entry of a JWKS document. Only RSA keys are relevant here.
type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

type cachedKeySet struct {
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// JWKSProvider fetches issuer key sets from {issuer}/.well-known/jwks.json
// and caches them per issuer with a TTL, so verification does not cost a
// network round trip per request.
type JWKSProvider struct {
	client *http.Client
	ttl    time.Duration

	mu   sync.RWMutex
	sets map[string]cachedKeySet
}

// NewJWKSProvider creates a provider caching key sets for ttl.
func NewJWKSProvider(ttl time.Duration) *JWKSProvider {
	return &JWKSProvider{
		client: &http.Client{Timeout: 10 * time.Second},
		ttl:    ttl,
		sets:   make(map[string]cachedKeySet),
	}
}

// SigningKey returns the issuer's key with the given key ID, fetching the
// key set if it is missing or stale. An unknown key ID forces one refresh
// to pick up rotated keys.
func (p *JWKSProvider) SigningKey(ctx context.Context, issuer, keyID string) (*rsa.PublicKey, error) {
	p.mu.RLock()
	set, ok := p.sets[issuer]
	p.mu.RUnlock()

	if ok && time.Since(set.fetchedAt) < p.ttl {
		if key, ok := set.keys[keyID]; ok {
			return key, nil
		}
	}

	set, err := p.fetch(ctx, issuer)
	if err != nil {
		return nil, err
	}

	key, ok := set.keys[keyID]
	if !ok {
		return nil, fmt.Errorf("no key %q in key set of issuer %s", keyID, issuer)
	}
	return key, nil
}

func (p *JWKSProvider) fetch(ctx context.Context, issuer string) (cachedKeySet, error) {
	url := issuer + "/.well-known/jwks.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return cachedKeySet{}, fmt.Errorf("failed to build JWKS request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return cachedKeySet{}, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cachedKeySet{}, fmt.Errorf("JWKS endpoint returned %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return cachedKeySet{}, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := k.publicKey()
		if err != nil {
			return cachedKeySet{}, fmt.Errorf("failed to parse JWK %q: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}

	set := cachedKeySet{keys: keys, fetchedAt: time.Now()}
	p.mu.Lock()
	p.sets[issuer] = set
	p.mu.Unlock()

	return set, nil
}

// publicKey decodes the base64url modulus and exponent of an RSA JWK.
func (k jwk) publicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("invalid modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("invalid exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e <= 0 {
		return nil, fmt.Errorf("non-positive exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
