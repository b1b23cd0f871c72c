package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paperchat/paperchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResetDelay = 30 * time.Millisecond

type statusRecorder struct {
	mu       sync.Mutex
	statuses []domain.UploadStatus
}

func (r *statusRecorder) record(s domain.UploadStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *statusRecorder) get() []domain.UploadStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.UploadStatus(nil), r.statuses...)
}

func writeTestPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))
	return path
}

func TestUploadSendsMultipartPDF(t *testing.T) {
	var gotField, gotFilename, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload/pdf", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("pdf")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		gotField = "pdf"
		gotFilename = header.Filename
		gotBody = string(data)
	}))
	defer srv.Close()

	rec := &statusRecorder{}
	u := NewUploader(NewBackendService(srv.URL), testResetDelay, rec.record)

	require.NoError(t, u.Upload(context.Background(), writeTestPDF(t)))

	assert.Equal(t, "pdf", gotField)
	assert.Equal(t, "paper.pdf", gotFilename)
	assert.Equal(t, "%PDF-1.4 test", gotBody)

	statuses := rec.get()
	require.GreaterOrEqual(t, len(statuses), 2)
	assert.Equal(t, []domain.UploadStatus{domain.UploadInProgress, domain.UploadSuccess}, statuses[:2])

	// Terminal status reverts to idle after the fixed delay.
	assert.Eventually(t, func() bool {
		return u.Status() == domain.UploadIdle
	}, time.Second, 5*time.Millisecond)
	statuses = rec.get()
	assert.Equal(t, domain.UploadIdle, statuses[len(statuses)-1])
}

func TestUploadRejectsNonPDF(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	rec := &statusRecorder{}
	u := NewUploader(NewBackendService(srv.URL), testResetDelay, rec.record)

	err := u.Upload(context.Background(), "notes.txt")
	assert.ErrorIs(t, err, domain.ErrNotPDF)
	assert.Zero(t, calls)
	assert.Empty(t, rec.get())
	assert.Equal(t, domain.UploadIdle, u.Status())
}

func TestUploadErrorOnServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := &statusRecorder{}
	u := NewUploader(NewBackendService(srv.URL), testResetDelay, rec.record)

	err := u.Upload(context.Background(), writeTestPDF(t))
	assert.ErrorIs(t, err, domain.ErrUploadFailed)

	statuses := rec.get()
	require.GreaterOrEqual(t, len(statuses), 2)
	assert.Equal(t, []domain.UploadStatus{domain.UploadInProgress, domain.UploadError}, statuses[:2])

	assert.Eventually(t, func() bool {
		return u.Status() == domain.UploadIdle
	}, time.Second, 5*time.Millisecond)
}

func TestUploadErrorOnMissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	u := NewUploader(NewBackendService(srv.URL), testResetDelay, nil)

	err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Equal(t, domain.UploadError, u.Status())
}

func TestUploadResetTimerScopedToItsUpload(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	resetDelay := 200 * time.Millisecond
	u := NewUploader(NewBackendService(srv.URL), resetDelay, nil)

	fail.Store(true)
	require.ErrorIs(t, u.Upload(context.Background(), writeTestPDF(t)), domain.ErrUploadFailed)
	require.Equal(t, domain.UploadError, u.Status())

	// Second upload settles while the first upload's reset timer is still
	// pending; that stale timer must not revert the new terminal status.
	time.Sleep(resetDelay * 3 / 5)
	fail.Store(false)
	require.NoError(t, u.Upload(context.Background(), writeTestPDF(t)))

	time.Sleep(resetDelay * 3 / 5) // past the first timer, before the second
	assert.Equal(t, domain.UploadSuccess, u.Status())

	assert.Eventually(t, func() bool {
		return u.Status() == domain.UploadIdle
	}, time.Second, 5*time.Millisecond)
}

func TestUploadRejectsConcurrentUpload(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	u := NewUploader(NewBackendService(srv.URL), testResetDelay, nil)

	done := make(chan error, 1)
	go func() {
		done <- u.Upload(context.Background(), writeTestPDF(t))
	}()

	require.Eventually(t, func() bool {
		return u.Status() == domain.UploadInProgress
	}, time.Second, time.Millisecond)

	err := u.Upload(context.Background(), writeTestPDF(t))
	assert.ErrorIs(t, err, domain.ErrUploadInFlight)

	close(release)
	require.NoError(t, <-done)
}
