package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/logger"
	"github.com/datamonkey-labs/dmchat/internal/model"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	logModule = "jobs"

	// DefaultCacheSize bounds the number of terminal jobs kept in memory.
	DefaultCacheSize = 256
)

// ErrNotCompleted is returned by Results for jobs that have not completed.
var ErrNotCompleted = errors.New("job has not completed")

// Health is the analysis backend's health report.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status is a job's lifecycle state as reported by the analysis backend.
type Status struct {
	ID           string          `json:"id"`
	Status       model.JobStatus `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// Client talks to the Datamonkey analysis API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger

	statuses *lru.Cache[string, Status]
	results  *lru.Cache[string, json.RawMessage]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(cl *Client) {
		cl.log = l
	}
}

// NewClient creates a Client for the Datamonkey server at baseURL; the
// /api/v1 prefix is added here. cacheSize <= 0 selects DefaultCacheSize.
func NewClient(baseURL string, cacheSize int, opts ...Option) (*Client, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	statuses, err := lru.New[string, Status](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating status cache: %w", err)
	}
	results, err := lru.New[string, json.RawMessage](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating results cache: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: http.DefaultClient,
		log:        logger.NewNop(),
		statuses:   statuses,
		results:    results,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.getJSON(ctx, "/health", &h); err != nil {
		return nil, err
	}
	if h.Status == "" {
		h.Status = "OK"
	}
	return &h, nil
}

// Status returns the job's state. Terminal states are cached.
func (c *Client) Status(ctx context.Context, jobID string) (*Status, error) {
	if s, ok := c.statuses.Get(jobID); ok {
		return &s, nil
	}

	var s Status
	if err := c.getJSON(ctx, "/jobs/"+url.PathEscape(jobID), &s); err != nil {
		return nil, err
	}
	s.ID = jobID
	if s.Status.Terminal() {
		c.statuses.Add(jobID, s)
	}
	return &s, nil
}

// Results returns the raw result document of a completed job. Jobs in any
// other state are refused with ErrNotCompleted.
func (c *Client) Results(ctx context.Context, jobID string) (json.RawMessage, error) {
	if r, ok := c.results.Get(jobID); ok {
		return r, nil
	}

	s, err := c.Status(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("checking job status: %w", err)
	}
	if s.Status != model.JobCompleted {
		if s.ErrorMessage != "" {
			return nil, fmt.Errorf("%w: %s is %s: %s", ErrNotCompleted, jobID, s.Status, s.ErrorMessage)
		}
		return nil, fmt.Errorf("%w: %s is %s", ErrNotCompleted, jobID, s.Status)
	}

	var raw json.RawMessage
	if err := c.getJSON(ctx, "/jobs/"+url.PathEscape(jobID)+"/results", &raw); err != nil {
		return nil, err
	}
	c.results.Add(jobID, raw)
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", branding.CLIName())
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(logModule, "analysis backend unreachable", map[string]interface{}{
			"path":       path,
			"request_id": requestID,
			"error":      err,
		})
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s response: %w", path, err)
	}
	return nil
}
