// Package csrf provides the anti-forgery token the backend expects on
// state-changing requests. Every way of obtaining it sits behind Source so the
// API client never derives it on its own.
package csrf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const (
	// CookieName is the cookie the backend stores the token in.
	CookieName = "csrftoken"
	// FieldName is the hidden form field carrying the token in rendered pages.
	FieldName = "csrfmiddlewaretoken"
	// MetaName is the <meta> tag name carrying the token in rendered pages.
	MetaName = "csrf-token"
	// HeaderName is the request header the backend reads the token from.
	HeaderName = "X-CSRFToken"
)

// ErrNoToken is returned when a source has no token to offer.
var ErrNoToken = errors.New("no anti-forgery token available")

// Source yields the anti-forgery token.
type Source interface {
	Token(ctx context.Context) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (string, error)

// Token calls f.
func (f SourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// CookieSource reads the token from the csrftoken cookie held in a cookie jar.
type CookieSource struct {
	jar http.CookieJar
	u   *url.URL
}

// NewCookieSource creates a CookieSource reading cookies the jar would send to rawURL.
func NewCookieSource(jar http.CookieJar, rawURL string) (*CookieSource, error) {
	if jar == nil {
		return nil, errors.New("cookie jar is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing cookie URL: %w", err)
	}
	return &CookieSource{jar: jar, u: u}, nil
}

// Token returns the URL-unescaped csrftoken cookie value.
func (s *CookieSource) Token(_ context.Context) (string, error) {
	for _, c := range s.jar.Cookies(s.u) {
		if c.Name != CookieName || c.Value == "" {
			continue
		}
		v, err := url.QueryUnescape(c.Value)
		if err != nil {
			return "", fmt.Errorf("decoding %s cookie: %w", CookieName, err)
		}
		return v, nil
	}
	return "", ErrNoToken
}

// StaticSource returns a fixed token, typically from configuration.
type StaticSource string

// Token returns the configured value or ErrNoToken when it is empty.
func (s StaticSource) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// Chain tries each source in order and returns the first non-empty token.
type Chain []Source

// Token returns the first token found. When no source yields one, the
// returned error matches ErrNoToken and carries any other source failures.
func (c Chain) Token(ctx context.Context) (string, error) {
	var errs []error
	for _, src := range c {
		if src == nil {
			continue
		}
		token, err := src.Token(ctx)
		if err == nil && token != "" {
			return token, nil
		}
		if err != nil && !errors.Is(err, ErrNoToken) {
			errs = append(errs, err)
		}
	}
	return "", errors.Join(append([]error{ErrNoToken}, errs...)...)
}
