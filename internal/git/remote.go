package git

import (
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/waabox/repodeck/internal/domain"
)

// ErrNoOrigin is returned when the working copy has no origin remote.
var ErrNoOrigin = errors.New("no origin remote found")

// DetectRepository opens the git working copy containing dir and returns an
// import request built from its origin remote URL.
func DetectRepository(dir string) (domain.ImportRequest, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return domain.ImportRequest{}, fmt.Errorf("opening git repository: %w", err)
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return domain.ImportRequest{}, ErrNoOrigin
		}
		return domain.ImportRequest{}, fmt.Errorf("reading origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return domain.ImportRequest{}, ErrNoOrigin
	}
	return ParseRemoteURL(urls[0])
}

// ParseTarget accepts "owner/repo", an HTTPS URL or an SSH remote and returns
// the matching import request.
func ParseTarget(raw string) (domain.ImportRequest, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "git@") || strings.Contains(raw, "://") {
		return ParseRemoteURL(raw)
	}
	parts := strings.Split(strings.TrimSuffix(raw, ".git"), "/")
	if len(parts) != 2 {
		return domain.ImportRequest{}, fmt.Errorf("expected owner/repo, got %q", raw)
	}
	return domain.NewImportRequest(parts[0], parts[1])
}

// ParseRemoteURL parses a git remote URL into an import request.
// Supports HTTPS (https://github.com/owner/repo.git) and SSH (git@github.com:owner/repo.git).
func ParseRemoteURL(rawURL string) (domain.ImportRequest, error) {
	normalized := strings.TrimSuffix(strings.TrimSuffix(rawURL, "/"), ".git")

	// SSH format: git@github.com:owner/repo
	if strings.HasPrefix(normalized, "git@") {
		trimmed := strings.TrimPrefix(normalized, "git@")
		parts := strings.SplitN(trimmed, ":", 2)
		if len(parts) != 2 {
			return domain.ImportRequest{}, fmt.Errorf("invalid SSH remote URL: %s", rawURL)
		}
		ownerRepo := strings.Split(parts[1], "/")
		if len(ownerRepo) != 2 {
			return domain.ImportRequest{}, fmt.Errorf("invalid SSH remote URL path: %s", parts[1])
		}
		return domain.NewImportRequest(ownerRepo[0], ownerRepo[1])
	}

	// HTTPS format: https://github.com/owner/repo
	if strings.HasPrefix(normalized, "https://") || strings.HasPrefix(normalized, "http://") {
		withoutScheme := strings.TrimPrefix(normalized, "https://")
		withoutScheme = strings.TrimPrefix(withoutScheme, "http://")
		parts := strings.Split(withoutScheme, "/")
		if len(parts) != 3 {
			return domain.ImportRequest{}, fmt.Errorf("invalid HTTPS remote URL: %s", rawURL)
		}
		return domain.NewImportRequest(parts[1], parts[2])
	}

	return domain.ImportRequest{}, fmt.Errorf("unsupported remote URL format: %s", rawURL)
}
