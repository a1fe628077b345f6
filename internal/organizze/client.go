// Package organizze provides a client for the Organizze REST API
// and a cached directory of its categories, accounts and credit cards.
package organizze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "OrganizzeTelegramBot/1.0"

// Client provides access to the Organizze REST API.
type Client struct {
	baseURL    string
	email      string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Organizze API client. Authentication is HTTP
// basic with the account e-mail and API token.
func NewClient(baseURL, email, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		email:      email,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListCategories fetches all non-archived categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var all []Category
	if err := c.getJSON(ctx, "/categories", &all); err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(all))
	for _, cat := range all {
		if !cat.Archived {
			categories = append(categories, cat)
		}
	}
	return categories, nil
}

// ListAccounts fetches all non-archived bank accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var all []Account
	if err := c.getJSON(ctx, "/accounts", &all); err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(all))
	for _, acc := range all {
		if !acc.Archived {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

// ListCreditCards fetches all non-archived credit cards.
func (c *Client) ListCreditCards(ctx context.Context) ([]CreditCard, error) {
	var all []CreditCard
	if err := c.getJSON(ctx, "/credit_cards", &all); err != nil {
		return nil, err
	}

	cards := make([]CreditCard, 0, len(all))
	for _, card := range all {
		if !card.Archived {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// CreateTransaction posts an expense to the ledger and returns the
// assigned transaction. A non-2xx response is an error carrying the
// response body so the caller can surface the ledger's own message.
func (c *Client) CreateTransaction(ctx context.Context, expense *Expense) (*Transaction, error) {
	body, err := json.Marshal(expense.Payload())
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("CreateTransaction: %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	tx := &Transaction{Raw: respBody}
	if err := json.Unmarshal(respBody, tx); err != nil {
		return nil, fmt.Errorf("CreateTransaction: decode response: %w", err)
	}

	return tx, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("GET %s: build request: %w", path, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
}
