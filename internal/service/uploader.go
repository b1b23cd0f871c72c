package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/paperchat/paperchat/internal/domain"
)

// Uploader sends a selected PDF to the upload endpoint and tracks the
// four-state upload status. A terminal status (success or error) reverts to
// idle after a fixed delay; the timer is not cancellable. There is no retry
// logic: a failed upload needs a new Upload call.
type Uploader struct {
	backend    *BackendService
	resetDelay time.Duration
	onChange   func(domain.UploadStatus)

	mu     sync.Mutex
	status domain.UploadStatus
	gen    int // bumped per settle so a stale reset timer cannot fire
}

func NewUploader(backend *BackendService, resetDelay time.Duration, onChange func(domain.UploadStatus)) *Uploader {
	return &Uploader{
		backend:    backend,
		resetDelay: resetDelay,
		onChange:   onChange,
	}
}

func (u *Uploader) Status() domain.UploadStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

// Upload sends one PDF. A second call while an upload is in flight is
// rejected with domain.ErrUploadInFlight.
func (u *Uploader) Upload(ctx context.Context, path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return domain.ErrNotPDF
	}

	u.mu.Lock()
	if u.status == domain.UploadInProgress {
		u.mu.Unlock()
		return domain.ErrUploadInFlight
	}
	u.status = domain.UploadInProgress
	u.mu.Unlock()
	u.notify(domain.UploadInProgress)

	f, err := os.Open(path)
	if err != nil {
		u.settle(domain.UploadError)
		return domain.ErrUploadFailed
	}
	defer f.Close()

	if err := u.backend.UploadPDF(ctx, path, f); err != nil {
		slog.Error("upload pdf", "error", err, "path", path)
		u.settle(domain.UploadError)
		return domain.ErrUploadFailed
	}

	u.settle(domain.UploadSuccess)
	return nil
}

// settle records a terminal status and schedules the reset back to idle.
// The timer only resets the settle that armed it, never a later upload's.
func (u *Uploader) settle(status domain.UploadStatus) {
	u.mu.Lock()
	u.status = status
	u.gen++
	gen := u.gen
	u.mu.Unlock()
	u.notify(status)

	time.AfterFunc(u.resetDelay, func() {
		u.mu.Lock()
		if u.gen != gen || !u.status.Terminal() {
			u.mu.Unlock()
			return
		}
		u.status = domain.UploadIdle
		u.mu.Unlock()
		u.notify(domain.UploadIdle)
	})
}

func (u *Uploader) notify(status domain.UploadStatus) {
	if u.onChange != nil {
		u.onChange(status)
	}
}
