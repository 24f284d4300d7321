// Package client is a typed Go client for the BugAI HTTP API together with
// immutable client-side state containers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/emilythestrangee/bugai/backend/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 15 * time.Second
)

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// Client talks to one BugAI server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessionKey string

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionKey sets the X-Session-Key sent with every request, which keys
// anonymous likes
func WithSessionKey(key string) Option {
	return func(c *Client) { c.sessionKey = key }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token; an empty token logs the client out
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.sessionKey != "" {
		req.Header.Set("X-Session-Key", c.sessionKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

func casePath(id, action string) string {
	p := "/cases/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) CreateCase(ctx context.Context, req models.CreateCaseRequest) (*models.Case, error) {
	var out models.Case
	if err := c.do(ctx, http.MethodPost, "/cases", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCases(ctx context.Context) ([]models.Case, error) {
	var out []models.Case
	if err := c.do(ctx, http.MethodGet, "/cases", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCase fetches a case with its comments. The server counts this as a view.
func (c *Client) GetCase(ctx context.Context, id string) (*models.Case, error) {
	return c.caseCall(ctx, http.MethodGet, casePath(id, ""))
}

func (c *Client) UserCases(ctx context.Context, userID string) ([]models.Case, error) {
	var out []models.Case
	if err := c.do(ctx, http.MethodGet, "/cases/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Statistics(ctx context.Context) (*models.Statistics, error) {
	var out models.Statistics
	if err := c.do(ctx, http.MethodGet, "/cases/statistics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Whip(ctx context.Context, id string) (*models.Case, error) {
	return c.caseCall(ctx, http.MethodPost, casePath(id, "whip"))
}

func (c *Client) VoteAngry(ctx context.Context, id string) (*models.Case, error) {
	return c.caseCall(ctx, http.MethodPost, casePath(id, "vote-angry"))
}

func (c *Client) VoteLearn(ctx context.Context, id string) (*models.Case, error) {
	return c.caseCall(ctx, http.MethodPost, casePath(id, "vote-learn"))
}

func (c *Client) Share(ctx context.Context, id string) (*models.Case, error) {
	return c.caseCall(ctx, http.MethodPost, casePath(id, "share"))
}

func (c *Client) View(ctx context.Context, id string) (*models.Case, error) {
	return c.caseCall(ctx, http.MethodPost, casePath(id, "view"))
}

func (c *Client) caseCall(ctx context.Context, method, path string) (*models.Case, error) {
	var out models.Case
	if err := c.do(ctx, method, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Comments(ctx context.Context, caseID string) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.do(ctx, http.MethodGet, "/comments/case/"+url.PathEscape(caseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	var out models.Comment
	if err := c.do(ctx, http.MethodPost, "/comments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleLike(ctx context.Context, req models.ToggleLikeRequest) (*models.LikeResult, error) {
	var out models.LikeResult
	if err := c.do(ctx, http.MethodPost, "/likes/toggle", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and keeps the returned token for later calls
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return c.authCall(ctx, "/users/register", req)
}

// Login keeps the returned token for later calls
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return c.authCall(ctx, "/users/login", req)
}

func (c *Client) authCall(ctx context.Context, path string, body any) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) User(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
