package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/logger"
	"github.com/datamonkey-labs/dmchat/internal/model"
	"github.com/google/uuid"
)

// ErrBackend is returned when the chat backend answers with success=false.
var ErrBackend = errors.New("chat backend reported failure")

// Client talks to the chat backend's session API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) ClientOption {
	return func(cl *Client) {
		cl.log = l
	}
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sessionsResponse struct {
	Success  bool          `json:"success"`
	Sessions []wireSession `json:"sessions"`
	Error    string        `json:"error,omitempty"`
}

type jobsResponse struct {
	Success bool      `json:"success"`
	Jobs    []wireJob `json:"jobs"`
	Error   string    `json:"error,omitempty"`
}

type wireSession struct {
	ID      string    `json:"id"`
	Created timestamp `json:"created"`
	Updated timestamp `json:"updated"`
}

type wireJob struct {
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Status  string    `json:"status"`
	Created timestamp `json:"created"`
}

// ListSessions fetches GET /api/sessions.
func (c *Client) ListSessions(ctx context.Context) ([]model.Session, error) {
	var body sessionsResponse
	if err := c.getJSON(ctx, "/api/sessions", &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, backendError(body.Error)
	}

	sessions := make([]model.Session, 0, len(body.Sessions))
	for _, s := range body.Sessions {
		sessions = append(sessions, model.Session{
			ID:      s.ID,
			Created: time.Time(s.Created),
			Updated: time.Time(s.Updated),
		})
	}
	return sessions, nil
}

// ListJobs fetches GET /api/sessions/{id}/jobs.
func (c *Client) ListJobs(ctx context.Context, sessionID string) ([]model.Job, error) {
	var body jobsResponse
	if err := c.getJSON(ctx, "/api/sessions/"+url.PathEscape(sessionID)+"/jobs", &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, backendError(body.Error)
	}

	jobs := make([]model.Job, 0, len(body.Jobs))
	for _, j := range body.Jobs {
		jobs = append(jobs, model.Job{
			ID:      j.ID,
			Method:  j.Method,
			Status:  model.JobStatus(j.Status),
			Created: time.Time(j.Created),
		})
	}
	return jobs, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", branding.CLIName())
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	c.log.Debug(logModule, "chat backend request", map[string]interface{}{
		"path":       path,
		"request_id": requestID,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
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

func backendError(msg string) error {
	if msg == "" {
		return ErrBackend
	}
	return fmt.Errorf("%w: %s", ErrBackend, msg)
}

// timestamp accepts RFC 3339 strings or epoch milliseconds.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*t = timestamp(time.Time{})
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", s, err)
		}
		if ms, err := strconv.ParseInt(unq, 10, 64); err == nil {
			*t = timestamp(time.UnixMilli(ms).UTC())
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, unq)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", unq, err)
		}
		*t = timestamp(parsed)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", s, err)
	}
	*t = timestamp(time.UnixMilli(int64(f)).UTC())
	return nil
}
