package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/paperchat/paperchat/internal/config"
	"github.com/paperchat/paperchat/internal/domain"
	"github.com/paperchat/paperchat/internal/handler"
	"github.com/paperchat/paperchat/internal/repository"
	"github.com/paperchat/paperchat/internal/service"
	"github.com/paperchat/paperchat/internal/term"
)

func main() {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if cfg.NoColor {
		color.NoColor = true
	}

	ctx := context.Background()
	renderer := term.NewRenderer(os.Stdout)

	backend := service.NewBackendService(cfg.APIURL)

	model := service.PickModel(ctx, backend, cfg.Model)

	history := repository.NewHistoryStore(cfg.HistoryPath)
	session := service.NewSession(backend, history, model)

	uploader := service.NewUploader(backend, config.UploadResetDelay, func(status domain.UploadStatus) {
		if label := status.Label(); label != "" {
			renderer.Status(label)
		}
	})

	h := handler.New(handler.Deps{
		Cfg:      cfg,
		Backend:  backend,
		Uploader: uploader,
		Session:  session,
		Renderer: renderer,
	})
	h.Register()

	// First Ctrl+C stops a streaming answer; with nothing in flight it exits.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigCh {
			if !session.Stop() {
				fmt.Println()
				os.Exit(0)
			}
		}
	}()

	renderer.Status("paperchat — upload a PDF with /upload, then ask away (/help for commands)")
	renderer.Status("model: " + model)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Print(renderer.Prompt())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		if cmd := strings.TrimSpace(line); cmd == "/quit" || cmd == "/exit" {
			break
		}

		if err := h.Dispatch(ctx, line); err != nil {
			slog.Error("dispatch", "error", err)
		}
	}

	slog.Debug("session ended")
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
