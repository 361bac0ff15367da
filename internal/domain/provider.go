package domain

import "context"

// RepositoryLister reads the full list of imported repositories.
type RepositoryLister interface {
	ListRepositories(ctx context.Context, filter ListFilter) ([]Repository, error)
}

// RepositoryImporter asks the backend to fetch and store a GitHub repository.
type RepositoryImporter interface {
	ImportRepository(ctx context.Context, req ImportRequest) (ImportResult, error)
}

// RepositoryRemover deletes an imported repository and returns the backend's message.
type RepositoryRemover interface {
	DeleteRepository(ctx context.Context, id int64) (string, error)
}

// RepositoryBackend is the port the dashboard uses to reach the tracking backend.
// The domain does not know how the backend is reached.
type RepositoryBackend interface {
	RepositoryLister
	RepositoryImporter
	RepositoryRemover
	PreviewRepository(ctx context.Context, req ImportRequest) (Repository, error)
}
