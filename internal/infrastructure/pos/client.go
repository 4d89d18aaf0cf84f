package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/liadelivery/backend/internal/domain"
)

const maxAttempts = 3

// Client talks to the restaurant POS order API. Auth tokens are fetched
// lazily and reused until their TTL expires.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	partnerID   string
	secret      string
	tokenTTL    time.Duration
	rateLimiter *rate.Limiter
	debug       bool

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient creates a new POS API client
func NewClient(baseURL, partnerID, secret string, tokenTTL time.Duration) *Client {
	// The POS order API tolerates a couple of requests per second; burst
	// covers catalog sync followed by an order submission.
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:     baseURL,
		partnerID:   partnerID,
		secret:      secret,
		tokenTTL:    tokenTTL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// authToken returns a cached token, fetching a fresh one when expired.
func (c *Client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	payload := map[string]string{"idPartner": c.partnerID, "secret": c.secret}
	body, err := c.postJSON(ctx, "/auth", payload, "")
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPOSAuthFailure, err)
	}

	token, err := parseToken(body)
	if err != nil || token == "" {
		return "", domain.ErrPOSAuthFailure
	}

	c.token = token
	c.tokenExp = time.Now().Add(c.tokenTTL)
	if c.debug {
		log.Printf("[POS] refreshed auth token, valid until %s", c.tokenExp.Format(time.RFC3339))
	}
	return c.token, nil
}

// parseToken handles the two shapes the POS returns: a bare JSON string or
// an object with one of several token keys.
func parseToken(body []byte) (string, error) {
	var bare string
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", err
	}
	for _, key := range []string{"token", "access_token", "authorization"} {
		if v, ok := obj[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no token field in auth response")
}

// SendOrder submits an order, retrying transient failures with backoff.
func (c *Client) SendOrder(ctx context.Context, order *domain.POSOrder) (*domain.POSOrderResponse, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.postJSON(ctx, "/order", order, token)
		if err != nil {
			if c.debug {
				log.Printf("[POS] SendOrder attempt %d failed: %v", attempt, err)
			}
			lastErr = err
			if sleepErr := sleepCtx(ctx, backoff(attempt)); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		var resp domain.POSOrderResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode order response: %w", err)
		}
		return &resp, nil
	}

	return nil, lastErr
}

// CancelOrder cancels a previously submitted order.
func (c *Client) CancelOrder(ctx context.Context, codStore, orderID string) error {
	token, err := c.authToken(ctx)
	if err != nil {
		return err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	payload := map[string]string{"cod_store": codStore, "order_id": orderID}
	if _, err := c.postJSON(ctx, "/cancel-order", payload, token); err != nil {
		return err
	}
	return nil
}

// FetchCatalog downloads the full POS catalog export.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.POSCatalogItem, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	body, err := c.getJSON(ctx, "/catalog", token)
	if err != nil {
		return nil, err
	}

	items, err := extractCatalogItems(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	if c.debug {
		log.Printf("[POS] fetched catalog with %d item(s)", len(items))
	}
	return items, nil
}

// extractCatalogItems accepts either a bare array or an object wrapping the
// array under "items", "data" or "results".
func extractCatalogItems(body []byte) ([]domain.POSCatalogItem, error) {
	var items []domain.POSCatalogItem
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, err
	}
	for _, key := range []string{"items", "data", "results"} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
	}
	return nil, fmt.Errorf("no catalog item list in response")
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, token string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, token)
}

func (c *Client) getJSON(ctx context.Context, path, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, token)
}

func (c *Client) do(req *http.Request, token string) ([]byte, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPOSAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrPOSAPIFailure, resp.StatusCode, string(body))
	}

	return body, nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(attempt) * 500 * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
