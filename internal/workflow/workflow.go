package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/waabox/repodeck/internal/domain"
	"go.uber.org/zap"
)

// Fallback texts shown when the backend does not supply its own.
const (
	DefaultSuccessMessage = "Repository imported successfully!"
	DefaultFailureMessage = "Failed to import repository"
	NetworkFailureMessage = "Network error occurred. Please try again."
)

// ErrBusy is returned when a submission arrives while another is in flight.
var ErrBusy = errors.New("an import is already in progress")

// Refresher reloads the repository list after a successful import.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Outcome describes how a submission ended.
type Outcome struct {
	Request domain.ImportRequest
	Status  domain.Status
	Result  domain.ImportResult
	// ClearForm is set after a successful import.
	ClearForm bool
	// Err is the validation, busy or import error, nil on success.
	Err error
	// RefreshErr is set when the import succeeded but the list could not be reloaded.
	RefreshErr error
}

// Workflow submits import requests one at a time and refreshes the list after
// each success. It never retries.
type Workflow struct {
	importer  domain.RepositoryImporter
	refresher Refresher
	logger    *zap.Logger

	mu       sync.Mutex
	status   domain.Status
	inFlight bool
}

// New creates a Workflow. refresher may be nil when no list is displayed.
func New(importer domain.RepositoryImporter, refresher Refresher, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		importer:  importer,
		refresher: refresher,
		logger:    logger,
		status:    domain.Idle(),
	}
}

// Submit validates the inputs, sends one import request and, when it
// succeeds, refreshes the list once. Invalid input never reaches the backend.
func (w *Workflow) Submit(ctx context.Context, owner, name string) Outcome {
	req, err := domain.NewImportRequest(owner, name)
	if err != nil {
		return Outcome{Status: w.setStatus(domain.Failure(err.Error())), Err: err}
	}
	if !w.begin() {
		return Outcome{Request: req, Status: w.Status(), Err: ErrBusy}
	}
	defer w.end()

	log := w.logger.With(zap.String("repository", req.String()))
	result, err := w.importer.ImportRepository(ctx, req)
	if err != nil {
		log.Warn("import failed", zap.Error(err))
		return Outcome{Request: req, Status: w.setStatus(domain.Failure(failureMessage(err))), Err: err}
	}

	message := result.Message
	if message == "" {
		message = DefaultSuccessMessage
	}
	log.Info("repository imported", zap.Bool("created", result.Created))

	out := Outcome{
		Request:   req,
		Status:    w.setStatus(domain.Success(message)),
		Result:    result,
		ClearForm: true,
	}
	if w.refresher != nil {
		if err := w.refresher.Refresh(ctx); err != nil {
			out.RefreshErr = err
		}
	}
	return out
}

// Status returns the current form status.
func (w *Workflow) Status() domain.Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Reset returns a finished status to Idle. It has no effect while loading.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.inFlight {
		w.status = domain.Idle()
	}
}

func (w *Workflow) begin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight {
		return false
	}
	w.inFlight = true
	w.status = domain.Loading()
	return true
}

func (w *Workflow) end() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
}

func (w *Workflow) setStatus(s domain.Status) domain.Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = s
	return s
}

// failureMessage picks the text shown for a failed import: the backend's own
// error when present, a network message when the request never completed.
func failureMessage(err error) string {
	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		if backendErr.Message != "" {
			return backendErr.Message
		}
		return DefaultFailureMessage
	}
	if errors.Is(err, domain.ErrNetwork) {
		return NetworkFailureMessage
	}
	return DefaultFailureMessage
}
