package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yourusername/trackpull-go/internal/domain"
	"github.com/yourusername/trackpull-go/internal/infrastructure"
	"go.uber.org/zap"
)

// ErrTransferInFlight is returned when a submission arrives while another is
// still running. Only one transfer may be in flight per orchestrator.
var ErrTransferInFlight = errors.New("a transfer is already in flight")

// Orchestrator drives one submission end to end: build and validate the
// request from a form snapshot, perform the call with progress reporting,
// classify the outcome, save the payload, and record history. The form state
// it receives is a value copy, so concurrent field edits cannot affect a
// submission already underway.
type Orchestrator struct {
	client   *infrastructure.Client
	saver    *infrastructure.FileSaver
	repo     domain.TransferRepository
	notifier *infrastructure.NotificationService
	config   *domain.APIConfig
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight bool
	status   string
}

// NewOrchestrator creates an orchestrator. repo and notifier may be nil when
// history or alerts are not wanted (tests, one-shot runs with --no-history).
func NewOrchestrator(
	client *infrastructure.Client,
	saver *infrastructure.FileSaver,
	repo domain.TransferRepository,
	notifier *infrastructure.NotificationService,
	config *domain.APIConfig,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		client:   client,
		saver:    saver,
		repo:     repo,
		notifier: notifier,
		config:   config,
		logger:   logger,
		status:   "Ready",
	}
}

// Status returns the current transient status text.
func (o *Orchestrator) Status() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) setStatus(format string, args ...any) {
	o.mu.Lock()
	o.status = fmt.Sprintf(format, args...)
	o.mu.Unlock()
}

// Submit runs one transfer. It returns the terminal transfer record together
// with the classified error on failure. Submissions while another transfer
// is in flight are rejected with ErrTransferInFlight before any state is
// touched.
func (o *Orchestrator) Submit(ctx context.Context, form domain.FormState, progress domain.ProgressFunc) (*domain.Transfer, error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return nil, ErrTransferInFlight
	}
	o.inFlight = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}()

	transfer := domain.NewTransfer(form.SourceURL, form.Provider, form.Format)
	o.record(transfer, o.repoCreate)

	req, err := domain.BuildRequest(form)
	if err != nil {
		// Local validation failure: nothing was sent over the network.
		return o.fail(transfer, err)
	}
	transfer.Format = req.Format

	transfer.MarkInFlight()
	o.record(transfer, o.repoUpdate)
	o.setStatus("Downloading...")

	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	report := func(percent int) {
		transfer.SetProgress(percent)
		o.setStatus("Downloading: %d%%", transfer.ProgressPercent)
		if progress != nil {
			progress(transfer.ProgressPercent)
		}
	}

	result, err := o.client.Download(ctx, req, report)
	if err != nil {
		return o.fail(transfer, err)
	}
	defer result.Body.Close()

	path, written, err := o.saver.Save(result.Filename, result.Body)
	if err != nil {
		transfer.BytesReceived = result.BytesReceived()
		return o.fail(transfer, infrastructure.ClassifyTransport(err))
	}

	transfer.MarkSucceeded(result.Filename, path, written)
	o.record(transfer, o.repoUpdate)
	o.setStatus("Saved: %s", result.Filename)
	if progress != nil {
		progress(100)
	}
	if o.notifier != nil {
		o.notifier.NotifyTransferSucceeded(result.Filename)
	}

	o.logger.Info("Transfer succeeded",
		zap.String("id", transfer.ID),
		zap.String("filename", result.Filename),
		zap.Int64("bytes", written))

	return transfer, nil
}

// fail records the classified failure, surfaces it in the status text and
// the user-facing alert, and returns it. No partial file is ever kept.
func (o *Orchestrator) fail(transfer *domain.Transfer, err error) (*domain.Transfer, error) {
	classified := infrastructure.ClassifyTransport(err)

	transfer.MarkFailed(classified)
	o.record(transfer, o.repoUpdate)
	o.setStatus("%s", transfer.ErrorMessage)
	if o.notifier != nil {
		o.notifier.NotifyTransferFailed(transfer.ErrorMessage)
	}

	o.logger.Warn("Transfer failed",
		zap.String("id", transfer.ID),
		zap.String("kind", string(transfer.ErrorKind)),
		zap.String("message", transfer.ErrorMessage))

	return transfer, classified
}

func (o *Orchestrator) repoCreate(t *domain.Transfer) error { return o.repo.Create(t) }
func (o *Orchestrator) repoUpdate(t *domain.Transfer) error { return o.repo.Update(t) }

// record persists a history row when a repository is configured. History
// failures are logged, never allowed to break a transfer.
func (o *Orchestrator) record(t *domain.Transfer, op func(*domain.Transfer) error) {
	if o.repo == nil {
		return
	}
	if err := op(t); err != nil {
		o.logger.Warn("Failed to record transfer history",
			zap.String("id", t.ID),
			zap.Error(err))
	}
}
