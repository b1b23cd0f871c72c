package handler

import (
	"context"
	"errors"

	"github.com/paperchat/paperchat/internal/domain"
)

// handleUpload sends one PDF to the backend. Progress and results are
// surfaced through the uploader's status callback; only input mistakes get
// a banner here.
func (h *Handler) handleUpload(ctx context.Context, args string) error {
	if args == "" {
		h.renderer.Banner("usage: /upload <file.pdf>")
		return nil
	}

	err := h.uploader.Upload(ctx, args)
	switch {
	case errors.Is(err, domain.ErrNotPDF), errors.Is(err, domain.ErrUploadInFlight):
		h.renderer.Banner(err.Error())
	}
	return nil
}
