package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/waabox/repodeck/internal/domain"
	"go.uber.org/zap"
)

// Store holds the last known list of imported repositories.
// Refresh replaces the list on success and keeps it on failure.
type Store struct {
	lister domain.RepositoryLister
	logger *zap.Logger
	now    func() time.Time

	mu          sync.RWMutex
	filter      domain.ListFilter
	repos       []domain.Repository
	lastErr     error
	refreshedAt time.Time
}

// New creates an empty Store backed by lister.
func New(lister domain.RepositoryLister, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		lister: lister,
		logger: logger,
		now:    time.Now,
	}
}

// SetFilter changes the filter used by subsequent refreshes.
func (s *Store) SetFilter(filter domain.ListFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}

// Refresh fetches the list once. On failure the previous list is kept, the
// error is logged and returned.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.RLock()
	filter := s.filter
	s.mu.RUnlock()

	repos, err := s.lister.ListRepositories(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.logger.Error("refreshing repository list failed, keeping previous list",
			zap.Int("kept", len(s.repos)),
			zap.Error(err))
		return fmt.Errorf("refreshing repositories: %w", err)
	}
	s.repos = append([]domain.Repository(nil), repos...)
	s.lastErr = nil
	s.refreshedAt = s.now()
	s.logger.Debug("repository list refreshed", zap.Int("count", len(repos)))
	return nil
}

// Repositories returns a copy of the list in backend order.
func (s *Store) Repositories() []domain.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Repository(nil), s.repos...)
}

// Recent returns at most n repositories from the head of the list.
func (s *Store) Recent(n int) []domain.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	if n > len(s.repos) {
		n = len(s.repos)
	}
	return append([]domain.Repository(nil), s.repos[:n]...)
}

// Stats derives the dashboard figures from the current list.
func (s *Store) Stats() domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ComputeStats(s.repos)
}

// LastError returns the error of the latest refresh, or nil if it succeeded.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// LastRefreshed returns when the list was last replaced. Zero before the first success.
func (s *Store) LastRefreshed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
