package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/paperchat/paperchat/internal/domain"
)

func (h *Handler) handleModels(ctx context.Context, args string) error {
	models, err := h.backend.ListModels(ctx)
	if err != nil {
		slog.Error("list models", "error", err)
		h.renderer.Banner("couldn't load the model list")
		return nil
	}
	h.renderer.Models(models, h.session.Model())
	return nil
}

func (h *Handler) handleModel(ctx context.Context, args string) error {
	if args == "" {
		h.renderer.Status("current model: " + h.session.Model())
		return nil
	}

	model, err := h.backend.GetModel(ctx, args)
	if err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			h.renderer.Banner("unknown model " + args + ", see /models")
		} else {
			slog.Error("get model", "error", err, "model", args)
			h.renderer.Banner("couldn't load the model list")
		}
		return nil
	}

	h.session.SetModel(model.ID)
	h.renderer.Status("model set to " + model.ID)
	return nil
}
