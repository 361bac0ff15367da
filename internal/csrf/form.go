package csrf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// FormFieldSource fetches an HTML page rendered by the backend and reads the
// token from its hidden form field or csrf-token meta tag. Fetching the page
// through a client with a cookie jar also stores the csrftoken cookie.
type FormFieldSource struct {
	client  *http.Client
	pageURL string
}

// NewFormFieldSource creates a FormFieldSource reading pageURL with client.
func NewFormFieldSource(client *http.Client, pageURL string) *FormFieldSource {
	return &FormFieldSource{client: client, pageURL: pageURL}
}

// Token fetches the page and extracts the token from it.
func (s *FormFieldSource) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", s.pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetching %s: %s", s.pageURL, resp.Status)
	}
	return FromHTML(resp.Body)
}

// FromHTML returns the token from the first csrfmiddlewaretoken input or
// csrf-token meta tag in the document.
func FromHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	if token := findToken(doc); token != "" {
		return token, nil
	}
	return "", ErrNoToken
}

func findToken(n *html.Node) string {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "input":
			if attr(n, "name") == FieldName {
				return strings.TrimSpace(attr(n, "value"))
			}
		case "meta":
			if attr(n, "name") == MetaName {
				return strings.TrimSpace(attr(n, "content"))
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if token := findToken(c); token != "" {
			return token
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
