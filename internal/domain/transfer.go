package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle state of a single transfer.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseInFlight  Phase = "in_flight"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// ProgressFunc reports download progress as an integer percentage 0-100.
type ProgressFunc func(percent int)

// Transfer is the record of one submission, created at submit and terminal at
// completion or failure. It doubles as the history row persisted to SQLite.
type Transfer struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	URL             string    `json:"url" gorm:"not null"`
	Provider        Provider  `json:"provider" gorm:"not null;index"`
	Format          Format    `json:"format"`
	Phase           Phase     `json:"phase" gorm:"not null;index"`
	ProgressPercent int       `json:"progress_percent"`
	ResultFilename  string    `json:"result_filename,omitempty"`
	SavedPath       string    `json:"saved_path,omitempty"`
	BytesReceived   int64     `json:"bytes_received"`
	ErrorKind       ErrorKind `json:"error_kind,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTransfer creates a transfer in the idle phase.
func NewTransfer(url string, provider Provider, format Format) *Transfer {
	now := time.Now()
	return &Transfer{
		ID:        uuid.New().String(),
		URL:       url,
		Provider:  provider,
		Format:    format,
		Phase:     PhaseIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkInFlight marks the transfer as submitted to the service.
func (t *Transfer) MarkInFlight() {
	t.Phase = PhaseInFlight
	now := time.Now()
	t.StartedAt = &now
	t.UpdatedAt = now
}

// MarkSucceeded records the derived filename and saved path, and pins the
// progress to 100.
func (t *Transfer) MarkSucceeded(filename, savedPath string, bytes int64) {
	t.Phase = PhaseSucceeded
	t.ResultFilename = filename
	t.SavedPath = savedPath
	t.BytesReceived = bytes
	t.ProgressPercent = 100
	now := time.Now()
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// MarkFailed records the classified outcome of a failed submission.
func (t *Transfer) MarkFailed(err error) {
	t.Phase = PhaseFailed
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		t.ErrorKind = ce.Kind
		t.ErrorMessage = ce.Error()
	} else {
		t.ErrorKind = KindUnknown
		t.ErrorMessage = err.Error()
	}
	now := time.Now()
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// SetProgress updates the progress percentage. The value is clamped to 100
// and never decreases within a transfer, so an approximate fallback estimate
// cannot make the indicator jump backwards.
func (t *Transfer) SetProgress(percent int) {
	if percent > 100 {
		percent = 100
	}
	if percent <= t.ProgressPercent {
		return
	}
	t.ProgressPercent = percent
	t.UpdatedAt = time.Now()
}

// IsTerminal reports whether the transfer reached a final phase.
func (t *Transfer) IsTerminal() bool {
	return t.Phase == PhaseSucceeded || t.Phase == PhaseFailed
}

// IsInFlight reports whether a submission is currently running.
func (t *Transfer) IsInFlight() bool {
	return t.Phase == PhaseInFlight
}
