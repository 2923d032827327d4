package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ProviderUser is the subset of the identity provider's user record needed
// to fill gaps in sparse token claims.
type ProviderUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProviderClient calls the identity provider's REST API with the backend
// secret key.
type ProviderClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewProviderClient creates a client for the provider API at baseURL.
// Returns nil when no secret key is configured, which disables lookups.
func NewProviderClient(baseURL, secretKey string) *ProviderClient {
	if secretKey == "" {
		return nil
	}
	return &ProviderClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// providerUserResponse matches the provider's user payload (Clerk-shaped).
type providerUserResponse struct {
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// User fetches the provider's record for the given subject.
func (p *ProviderClient) User(ctx context.Context, subject string) (*ProviderUser, error) {
	url := p.baseURL + "/users/" + subject
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider lookup returned %d", resp.StatusCode)
	}

	var body providerUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	email := ""
	for _, e := range body.EmailAddresses {
		if email == "" || e.ID == body.PrimaryEmailAddressID {
			email = e.EmailAddress
		}
	}

	return &ProviderUser{
		Name:  strings.TrimSpace(body.FirstName + " " + body.LastName),
		Email: email,
	}, nil
}
