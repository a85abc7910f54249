// Package backend is the portal's single HTTP transport to the clinic
// REST API. Every page reaches the backend through this client; it owns
// path construction, JSON codec, and error classification, and implements
// patients.Directory.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reliefpc/clinic-portal/internal/observability/metrics"
	"github.com/reliefpc/clinic-portal/internal/patients"
	"github.com/reliefpc/clinic-portal/internal/session"
	"github.com/reliefpc/clinic-portal/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// StatusError is a non-2xx response from the clinic API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: API error (status %d): %s", e.StatusCode, e.Body)
}

// Client talks to the clinic REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.UpstreamMetrics
}

// Config holds configuration for the backend client.
type Config struct {
	BaseURL string // e.g. "http://localhost:5057/api"
	Timeout time.Duration
	Logger  *logging.Logger
	Metrics *metrics.UpstreamMetrics
}

// New creates a clinic API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: BaseURL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Component("backend"),
		metrics:    cfg.Metrics,
	}, nil
}

// Login authenticates against POST /auth/login and returns the echoed
// user identity.
func (c *Client) Login(ctx context.Context, username, password string) (*session.Identity, error) {
	body := map[string]string{"username": username, "password": password}
	var out struct {
		User json.RawMessage `json:"user"`
	}
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	if len(out.User) == 0 {
		return nil, fmt.Errorf("backend: login response missing user")
	}
	return session.ParseIdentity(out.User)
}

// List returns every visit row from GET /patients.
func (c *Client) List(ctx context.Context) ([]patients.Visit, error) {
	var out []patients.Visit
	if err := c.do(ctx, "list_patients", http.MethodGet, "/patients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get resolves one visit via GET /patients/{id}.
func (c *Client) Get(ctx context.Context, id string) (*patients.Visit, error) {
	var out patients.Visit
	path := "/patients/" + url.PathEscape(id)
	if err := c.do(ctx, "get_patient", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create appends a visit row via POST /patients.
func (c *Client) Create(ctx context.Context, v patients.Visit) (*patients.Visit, error) {
	var out patients.Visit
	if err := c.do(ctx, "create_visit", http.MethodPost, "/patients", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateVisit edits one visit's per-visit fields via PUT /patients/{id}.
func (c *Client) UpdateVisit(ctx context.Context, id string, upd patients.VisitUpdate) (*patients.Visit, error) {
	var out patients.Visit
	path := "/patients/" + url.PathEscape(id)
	if err := c.do(ctx, "update_visit", http.MethodPut, path, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDemographics fans a demographic edit out to every visit sharing
// the original identity pair, via PUT /patients/update-demographics.
func (c *Client) UpdateDemographics(ctx context.Context, originalName, originalPhone string, info patients.Demographics) error {
	body := struct {
		OriginalName       string                `json:"originalName"`
		OriginalPhone      string                `json:"originalPhone"`
		UpdatedPatientInfo patients.Demographics `json:"updatedPatientInfo"`
	}{originalName, originalPhone, info}
	return c.do(ctx, "update_demographics", http.MethodPut, "/patients/update-demographics", body, nil)
}

// VisitsFor returns all visits for an identity pair via
// GET /patients/visits/{name}/{phone}, both segments URL-encoded.
func (c *Client) VisitsFor(ctx context.Context, name, phone string) ([]patients.Visit, error) {
	var out []patients.Visit
	path := fmt.Sprintf("/patients/visits/%s/%s", url.PathEscape(name), url.PathEscape(phone))
	if err := c.do(ctx, "visits_for_patient", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VisitsOn returns visits for one day via GET /patients/by-date/{date}.
func (c *Client) VisitsOn(ctx context.Context, date string) ([]patients.Visit, error) {
	var out []patients.Visit
	path := "/patients/by-date/" + url.PathEscape(date)
	if err := c.do(ctx, "visits_by_date", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Analytics returns the server-computed snapshot for an inclusive date
// range via GET /patients/analytics.
func (c *Client) Analytics(ctx context.Context, startDate, endDate string) (*patients.AnalyticsSnapshot, error) {
	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)
	var out patients.AnalyticsSnapshot
	path := "/patients/analytics?" + params.Encode()
	if err := c.do(ctx, "analytics", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one request against the API. body is JSON-encoded when
// non-nil; out is JSON-decoded when non-nil. Non-2xx responses become
// *StatusError. There are no retries: a failure is terminal for the user
// action that triggered it.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(operation, "transport_error", time.Since(start).Seconds())
		c.logger.Error("request failed", "operation", operation, "error", err)
		return fmt.Errorf("backend: %s: %w", operation, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(operation, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("API error", "operation", operation, "status", resp.StatusCode)
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s response: %w", operation, err)
	}
	return nil
}
