// Package parser is the client for the external AI expense-parsing service.
//
// The service receives free text plus group context and returns a structured
// expense. Parsing is best-effort and outside this system's control; callers
// surface any failure as a plain "failed to parse" error and create nothing.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SinghAman21/spendsplit/internal/metrics"
)

// ErrNotConfigured means no parser endpoint is set (PARSER_URL empty).
var ErrNotConfigured = errors.New("expense parser not configured")

// ParsedExpense is the structured result of parsing free text.
type ParsedExpense struct {
	// Amount is the total expense amount in currency units.
	Amount float64 `json:"amount"`

	// Description is the cleaned-up expense label.
	Description string `json:"description"`

	// Category is the service's classification (e.g., "Food").
	Category string `json:"category"`

	// Participants are the display names sharing the expense. Empty means
	// the whole group shares it.
	Participants []string `json:"participants"`

	// Shares optionally assigns explicit amounts per participant name.
	// When absent the amount is split evenly.
	Shares map[string]float64 `json:"shares"`
}

// parseRequest is the payload sent to the parsing service.
type parseRequest struct {
	Text    string   `json:"text"`
	Payer   string   `json:"payer"`
	Members []string `json:"members"`
}

// Client calls the parsing service over HTTP.
type Client struct {
	url    string
	client *http.Client
}

// New creates a parser client for the given endpoint. An empty URL yields a
// client whose Parse always fails with ErrNotConfigured.
func New(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Parse sends the free text with group context and returns the structured
// expense, or an error if the service is unreachable or rejects the input.
func (c *Client) Parse(ctx context.Context, text, payer string, members []string) (*ParsedExpense, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(parseRequest{Text: text, Payer: payer, Members: members})
	if err != nil {
		return nil, fmt.Errorf("failed to encode parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ParserFailures.Inc()
		return nil, fmt.Errorf("parser unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ParserFailures.Inc()
		return nil, fmt.Errorf("parser returned %d", resp.StatusCode)
	}

	var parsed ParsedExpense
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ParserFailures.Inc()
		return nil, fmt.Errorf("failed to decode parser response: %w", err)
	}

	if parsed.Amount <= 0 {
		metrics.ParserFailures.Inc()
		return nil, fmt.Errorf("parser returned non-positive amount %v", parsed.Amount)
	}
	if parsed.Description == "" {
		parsed.Description = text
	}

	return &parsed, nil
}
