package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/waabox/repodeck/internal/csrf"
	"github.com/waabox/repodeck/internal/domain"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Client implements domain.RepositoryBackend against the tracking backend's REST API.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  csrf.Source
	logger  *zap.Logger
}

// Ensure Client implements RepositoryBackend.
var _ domain.RepositoryBackend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client. Its cookie jar carries the session.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTokenSource sets where the anti-forgery token comes from.
func WithTokenSource(src csrf.Source) Option {
	return func(c *Client) { c.tokens = src }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a backend client.
// baseURL is the API root, e.g. https://dashboard.example.com/api; it must be
// absolute. Without WithTokenSource the token is read from the csrftoken cookie.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base URL must be an absolute http(s) URL, got %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: defaultTimeout}
	}
	if c.client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		c.client.Jar = jar
	}
	if c.tokens == nil {
		src, err := csrf.NewCookieSource(c.client.Jar, c.baseURL)
		if err != nil {
			return nil, err
		}
		c.tokens = src
	}
	return c, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListRepositories returns every imported repository in backend order.
func (c *Client) ListRepositories(ctx context.Context, filter domain.ListFilter) ([]domain.Repository, error) {
	path := "/projects/"
	if filter.Language != "" {
		path += "?" + url.Values{"language": {filter.Language}}.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readBackendError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading repository list: %w", domain.ErrNetwork, err)
	}
	projects, err := decodeProjectList(body)
	if err != nil {
		return nil, fmt.Errorf("decoding repository list: %w", err)
	}
	repos := make([]domain.Repository, len(projects))
	for i, p := range projects {
		repos[i] = p.toRepository()
	}
	return repos, nil
}

// ImportRepository asks the backend to fetch owner/name from GitHub and store it.
// The HTTP status decides success; the body only supplies display text.
func (c *Client) ImportRepository(ctx context.Context, req domain.ImportRequest) (domain.ImportResult, error) {
	path := fmt.Sprintf("/github/save/%s/%s/", url.PathEscape(req.Owner), url.PathEscape(req.Name))

	resp, err := c.do(ctx, http.MethodPost, path, true)
	if err != nil {
		return domain.ImportResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.ImportResult{}, readBackendError(resp)
	}

	var body importResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		c.logger.Warn("import response body is not JSON",
			zap.String("repository", req.String()),
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
	}

	result := domain.ImportResult{
		Message: body.Message,
		Created: resp.StatusCode == http.StatusCreated,
	}
	if body.Project != nil {
		repo := body.Project.toRepository()
		result.Repository = &repo
	}
	return result, nil
}

// PreviewRepository returns GitHub metadata for owner/name without storing it.
func (c *Client) PreviewRepository(ctx context.Context, req domain.ImportRequest) (domain.Repository, error) {
	path := fmt.Sprintf("/github/%s/%s/", url.PathEscape(req.Owner), url.PathEscape(req.Name))

	resp, err := c.do(ctx, http.MethodGet, path, false)
	if err != nil {
		return domain.Repository{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Repository{}, readBackendError(resp)
	}

	var p project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return domain.Repository{}, fmt.Errorf("decoding preview: %w", err)
	}
	return p.toRepository(), nil
}

// DeleteRepository removes an imported repository by ID.
// The returned message is empty when the backend answers without a body.
func (c *Client) DeleteRepository(ctx context.Context, id int64) (string, error) {
	path := "/projects/" + strconv.FormatInt(id, 10) + "/"

	resp, err := c.do(ctx, http.MethodDelete, path, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", readBackendError(resp)
	}

	var body messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		c.logger.Debug("delete response body is not JSON", zap.Int64("id", id), zap.Error(err))
	}
	return body.Message, nil
}

// do sends a request to the API. Protected requests carry the anti-forgery
// token and a JSON body. Transport failures are wrapped with domain.ErrNetwork.
func (c *Client) do(ctx context.Context, method, path string, protected bool) (*http.Response, error) {
	var body io.Reader
	if protected {
		body = bytes.NewReader([]byte("{}"))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if protected {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Referer", c.baseURL+"/")
		token, tokenErr := c.tokens.Token(ctx)
		if tokenErr != nil {
			// The backend rejects the request and its answer is shown to the user.
			c.logger.Warn("sending request without anti-forgery token",
				zap.String("method", method),
				zap.String("path", path),
				zap.Error(tokenErr))
		} else {
			req.Header.Set(csrf.HeaderName, token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, method, path, err)
	}
	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))
	return resp, nil
}

// readBackendError turns a non-2xx response into a *domain.BackendError,
// keeping whatever error text the body carries.
func readBackendError(resp *http.Response) error {
	backendErr := &domain.BackendError{StatusCode: resp.StatusCode}
	var body messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		backendErr.Message = body.errorText()
	}
	return backendErr
}
