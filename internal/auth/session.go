package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/waabox/repodeck/internal/csrf"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie the backend keys sessions on.
const SessionCookieName = "sessionid"

// ErrNoCredentials is returned when neither a session ID nor a username is configured.
var ErrNoCredentials = errors.New("no session credentials configured")

// ErrLoginFailed is returned when the login form was submitted but no session was issued.
var ErrLoginFailed = errors.New("login failed: check username and password")

// Credentials identify the dashboard user to the backend.
type Credentials struct {
	SessionID string
	Username  string
	Password  string
}

// Session puts backend session credentials into an HTTP client's cookie jar.
// Nothing is persisted: the session lives as long as the process.
type Session struct {
	client    *http.Client
	origin    *url.URL
	loginPath string
	logger    *zap.Logger
}

// NewSession creates a Session for the backend at baseURL.
// loginPath is resolved against baseURL's host; the client must have a cookie jar.
func NewSession(client *http.Client, baseURL string, loginPath string, logger *zap.Logger) (*Session, error) {
	if client == nil || client.Jar == nil {
		return nil, errors.New("session requires an HTTP client with a cookie jar")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client:    client,
		origin:    &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"},
		loginPath: loginPath,
		logger:    logger,
	}, nil
}

// LoginURL returns the absolute URL of the backend login page.
func (s *Session) LoginURL() string {
	return s.origin.ResolveReference(&url.URL{Path: s.loginPath}).String()
}

// Establish installs a configured session ID, or logs in with username and
// password when no session ID is given.
func (s *Session) Establish(ctx context.Context, creds Credentials) error {
	if creds.SessionID != "" {
		s.client.Jar.SetCookies(s.origin, []*http.Cookie{{
			Name:  SessionCookieName,
			Value: creds.SessionID,
			Path:  "/",
		}})
		s.logger.Debug("using configured session")
		return nil
	}
	if creds.Username == "" {
		return ErrNoCredentials
	}
	return s.Login(ctx, creds.Username, creds.Password)
}

// Login submits the backend's login form. The form's hidden anti-forgery
// field is read first and echoed back as both form field and header.
func (s *Session) Login(ctx context.Context, username, password string) error {
	loginURL := s.LoginURL()

	token, err := csrf.NewFormFieldSource(s.client, loginURL).Token(ctx)
	if err != nil {
		return fmt.Errorf("reading login form: %w", err)
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set(csrf.FieldName, token)
	form.Set("next", "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", loginURL)
	req.Header.Set(csrf.HeaderName, token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("submitting login form: %s", resp.Status)
	}
	if !s.HasSession() {
		return ErrLoginFailed
	}
	s.logger.Info("logged in to backend", zap.String("username", username))
	return nil
}

// HasSession reports whether the cookie jar holds a session cookie for the backend.
func (s *Session) HasSession() bool {
	for _, c := range s.client.Jar.Cookies(s.origin) {
		if c.Name == SessionCookieName && c.Value != "" {
			return true
		}
	}
	return false
}
