package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paperchat/paperchat/internal/config"
	"github.com/paperchat/paperchat/internal/domain"
	"github.com/paperchat/paperchat/internal/service"
)

// handleChat runs one conversation turn and renders the streamed reply.
func (h *Handler) handleChat(ctx context.Context, text string) error {
	var replying bool

	msg, err := h.session.Submit(ctx, text, service.TurnEvents{
		Fragment: func(fragment string) {
			if !replying {
				h.renderer.AssistantPrefix()
				replying = true
			}
			h.renderer.Fragment(fragment)
		},
		ModelInfo: func(model string) {
			h.renderer.Status("served by " + model)
		},
	})

	if err != nil {
		if replying {
			h.renderer.Line("")
		}
		var streamErr *domain.StreamError
		switch {
		case errors.Is(err, domain.ErrInputTooLong):
			h.renderer.Banner(fmt.Sprintf("message is too long, the limit is %d characters", config.MaxInputLen))
		case errors.As(err, &streamErr):
			h.renderer.Banner(streamErr.Message)
		default:
			slog.Error("chat turn", "error", err)
			h.renderer.Banner("something went wrong, please try again")
		}
		return nil
	}

	if msg == nil {
		// Turn was stopped; the user message stays, nothing was committed.
		if replying {
			h.renderer.Line("")
		}
		h.renderer.Status("stopped")
		return nil
	}

	if !replying {
		// Reply finished without a single fragment (empty answer).
		h.renderer.AssistantPrefix()
	}
	h.renderer.FinishTurn(msg)
	return nil
}
