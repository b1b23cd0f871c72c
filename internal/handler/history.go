package handler

import "context"

func (h *Handler) handleHistory(ctx context.Context, args string) error {
	h.renderer.History(h.session.Messages())
	return nil
}

func (h *Handler) handleClear(ctx context.Context, args string) error {
	if err := h.session.Clear(); err != nil {
		h.renderer.Banner("couldn't clear the local cache")
		return err
	}
	h.renderer.Status("conversation cleared")
	return nil
}
