package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/waabox/repodeck/internal/domain"
)

// project is the raw backend shape of a repository record.
type project struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Stars       *int    `json:"stars"`
	CreatedAt   string  `json:"created_at"`
}

func (p project) toRepository() domain.Repository {
	repo := domain.Repository{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: parseTimestamp(p.CreatedAt),
	}
	if p.Description != nil {
		repo.Description = *p.Description
	}
	if p.Language != nil {
		repo.Language = *p.Language
	}
	if p.Stars != nil && *p.Stars > 0 {
		repo.Stars = *p.Stars
	}
	return repo
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02",
}

// parseTimestamp accepts the formats the backend emits. Unparseable values
// yield the zero time, rendered as "--".
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// importResponse is the body of the import endpoint.
type importResponse struct {
	Message string   `json:"message"`
	Project *project `json:"project"`
}

// messageResponse covers the message/error bodies the backend returns.
// detail is what the REST framework uses for permission and auth failures.
type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func (m messageResponse) errorText() string {
	if m.Error != "" {
		return m.Error
	}
	return m.Detail
}

var errUnexpectedListShape = errors.New("expected a JSON array or an object with a projects field")

// decodeProjectList accepts either a bare array or {"projects": [...]}.
func decodeProjectList(body []byte) ([]project, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errUnexpectedListShape
	}
	switch trimmed[0] {
	case '[':
		var projects []project
		if err := json.Unmarshal(trimmed, &projects); err != nil {
			return nil, err
		}
		return projects, nil
	case '{':
		var wrapped struct {
			Projects *[]project `json:"projects"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		if wrapped.Projects == nil {
			return nil, errUnexpectedListShape
		}
		return *wrapped.Projects, nil
	default:
		return nil, errUnexpectedListShape
	}
}
