package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tally-app/tally-cli/internal/constants"
	"github.com/tally-app/tally-cli/internal/logger"
	"github.com/tally-app/tally-cli/internal/models"
)

// TokenSource supplies the bearer token for outgoing requests. Returning an
// empty string sends the request unauthenticated.
type TokenSource func() (string, error)

// Client is the remote habit gateway: a JSON REST client for the tally
// service. All methods map HTTP failures onto the typed error taxonomy in
// errors.go and never mutate local state.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client (used in tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithTokenSource sets the bearer token provider.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// New creates a gateway client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: constants.RequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the JSON error envelope returned by the service.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// reorderRequest is the payload for the reorder endpoint: the full ordered
// sequence of active habit ids.
type reorderRequest struct {
	HabitIDs []string `json:"habit_ids"`
}

// ListHabits fetches the full active habit set.
func (c *Client) ListHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.do(ctx, http.MethodGet, "/v1/habits", nil, &habits, ""); err != nil {
		return nil, err
	}
	return habits, nil
}

// GetHabit fetches a single habit by id.
func (c *Client) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	var habit models.Habit
	if err := c.do(ctx, http.MethodGet, "/v1/habits/"+id, nil, &habit, id); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// CreateHabit submits a draft; the server assigns id, streak, and sort order.
func (c *Client) CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	var habit models.Habit
	if err := c.do(ctx, http.MethodPost, "/v1/habits", draft, &habit, ""); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// UpdateHabit applies a partial update and returns the server's record.
func (c *Client) UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	var habit models.Habit
	if err := c.do(ctx, http.MethodPatch, "/v1/habits/"+id, patch, &habit, id); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// ArchiveHabit marks a habit archived and returns the updated record.
func (c *Client) ArchiveHabit(ctx context.Context, id string) (models.Habit, error) {
	var habit models.Habit
	if err := c.do(ctx, http.MethodPatch, "/v1/habits/"+id+"/archive", nil, &habit, id); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// DeleteHabit permanently deletes a habit.
func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/habits/"+id, nil, nil, id)
}

// ReorderHabits persists a new ordering for the active habit set.
func (c *Client) ReorderHabits(ctx context.Context, orderedIDs []string) error {
	return c.do(ctx, http.MethodPatch, "/v1/habits/order", reorderRequest{HabitIDs: orderedIDs}, nil, "")
}

// Ping checks service reachability (used by doctor).
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/health", nil, nil, "")
}

// do performs a request, decoding a JSON response into out when non-nil.
// notFoundID is the entity id reported on a 404.
func (c *Client) do(ctx context.Context, method, path string, body, out any, notFoundID string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token()
		if err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.Warn("Gateway request failed", "method", method, "path", path, "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &NetworkError{Err: fmt.Errorf("failed to decode response: %w", err)}
		}
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode}
	case http.StatusNotFound:
		return &NotFoundError{Resource: "habit", ID: notFoundID}
	case http.StatusUnprocessableEntity, http.StatusConflict:
		return &ValidationError{StatusCode: resp.StatusCode, Fields: eb.Fields}
	default:
		if eb.Error != "" {
			return &NetworkError{Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, eb.Error)}
		}
		return &NetworkError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
}
