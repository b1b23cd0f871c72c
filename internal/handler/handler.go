package handler

import (
	"context"
	"strings"

	"github.com/paperchat/paperchat/internal/config"
	"github.com/paperchat/paperchat/internal/middleware"
	"github.com/paperchat/paperchat/internal/service"
	"github.com/paperchat/paperchat/internal/term"
)

// Handler holds all dependencies needed by REPL command handlers.
type Handler struct {
	cfg      *config.Config
	backend  *service.BackendService
	uploader *service.Uploader
	session  *service.Session
	renderer *term.Renderer

	commands map[string]middleware.HandlerFunc
	chat     middleware.HandlerFunc
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg      *config.Config
	Backend  *service.BackendService
	Uploader *service.Uploader
	Session  *service.Session
	Renderer *term.Renderer
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:      deps.Cfg,
		backend:  deps.Backend,
		uploader: deps.Uploader,
		session:  deps.Session,
		renderer: deps.Renderer,
	}
}

// Register wires all command handlers with their middleware.
func (h *Handler) Register() {
	h.commands = make(map[string]middleware.HandlerFunc)
	register := func(name string, fn middleware.HandlerFunc) {
		h.commands[name] = middleware.Chain(fn,
			middleware.Recover(),
			middleware.Logging(name),
		)
	}

	register("/upload", h.handleUpload)
	register("/models", h.handleModels)
	register("/model", h.handleModel)
	register("/history", h.handleHistory)
	register("/clear", h.handleClear)
	register("/help", h.handleHelp)

	h.chat = middleware.Chain(h.handleChat,
		middleware.Recover(),
		middleware.Logging("chat"),
	)
}

// Dispatch routes one input line: slash commands go to their handler,
// everything else is a chat turn. Unknown commands surface a banner and
// never become chat turns.
func (h *Handler) Dispatch(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	if strings.HasPrefix(line, "/") {
		name, args, _ := strings.Cut(line, " ")
		fn, ok := h.commands[name]
		if !ok {
			h.renderer.Banner("unknown command " + name + ", try /help")
			return nil
		}
		return fn(ctx, strings.TrimSpace(args))
	}

	return h.chat(ctx, line)
}

func (h *Handler) handleHelp(ctx context.Context, args string) error {
	h.renderer.Line(`Commands:
  /upload <file.pdf>   upload a PDF to ask questions about
  /models              list available models
  /model [id]          show or switch the active model
  /history             show the cached conversation
  /clear               drop the conversation and its local cache
  /quit                exit
Anything else is sent to the assistant. Ctrl+C stops a streaming answer.`)
	return nil
}
