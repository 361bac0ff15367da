package domain

import (
	"fmt"
	"strings"
	"time"
)

// Repository is a GitHub project's metadata as stored by the tracking backend.
// The dashboard only reads it; every change goes through the backend and the
// list is fetched again afterwards.
type Repository struct {
	ID          int64
	Name        string
	Description string
	Language    string
	Stars       int
	CreatedAt   time.Time
}

// ImportRequest identifies a GitHub repository the backend should fetch and store.
type ImportRequest struct {
	Owner string
	Name  string
}

// NewImportRequest trims both inputs and rejects empty values with a *ValidationError.
func NewImportRequest(owner, name string) (ImportRequest, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	switch {
	case owner == "" && name == "":
		return ImportRequest{}, &ValidationError{Message: "Owner and repository name are required"}
	case owner == "":
		return ImportRequest{}, &ValidationError{Message: "Repository owner is required"}
	case name == "":
		return ImportRequest{}, &ValidationError{Message: "Repository name is required"}
	}
	return ImportRequest{Owner: owner, Name: name}, nil
}

// String returns the request as owner/name.
func (r ImportRequest) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// ImportResult is what the backend reports after a successful import.
type ImportResult struct {
	Message    string
	Created    bool
	Repository *Repository
}

// ListFilter narrows the repository list on the backend side.
type ListFilter struct {
	Language string
}
