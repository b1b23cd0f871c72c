package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paperchat/paperchat/internal/config"
	"github.com/paperchat/paperchat/internal/domain"
	"github.com/shopspring/decimal"
)

// BackendService is the HTTP client for the PDF question-answering backend.
// The backend is opaque: this client only uploads files, lists models and
// consumes the chat event stream.
type BackendService struct {
	baseURL    string
	httpClient *http.Client // upload + models, fixed timeout
	chatClient *http.Client // chat stream, no global timeout
	cache      *ModelsCache
}

func NewBackendService(baseURL string) *BackendService {
	return &BackendService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		chatClient: &http.Client{},
		cache:      NewModelsCache(config.ModelCacheDuration),
	}
}

// UploadPDF sends one file as a multipart POST to the upload endpoint.
// Any 2xx status counts as success.
func (s *BackendService) UploadPDF(ctx context.Context, filename string, r io.Reader) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile(config.UploadFieldName, filepath.Base(filename))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy file data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/upload/pdf", &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload status %d", resp.StatusCode)
	}
	return nil
}

// HistoryEntry is one prior turn sent as conversational context.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message             string         `json:"message"`
	ConversationHistory []HistoryEntry `json:"conversationHistory"`
	Model               string         `json:"model"`
}

// Chat sends one turn and returns the event stream for a 2xx response.
// The caller owns the returned stream and must Close it.
func (s *BackendService) Chat(ctx context.Context, chatReq ChatRequest) (*ChatStream, error) {
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.chatClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("chat status %d", resp.StatusCode)
	}

	return NewChatStream(resp.Body), nil
}

// ListModels fetches the backend's model catalog, served through a TTL cache.
func (s *BackendService) ListModels(ctx context.Context) ([]domain.AIModel, error) {
	if cached := s.cache.Get(); cached != nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("models status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Models map[string]struct {
			Name        string          `json:"name"`
			Provider    string          `json:"provider"`
			Cost        decimal.Decimal `json:"cost"`
			Description string          `json:"description"`
		} `json:"models"`
		Default string `json:"default"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}

	models := make([]domain.AIModel, 0, len(result.Models))
	for id, m := range result.Models {
		models = append(models, domain.AIModel{
			ID:          id,
			Name:        m.Name,
			Provider:    m.Provider,
			Cost:        m.Cost,
			Description: m.Description,
		})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

	s.cache.Set(models, result.Default)
	return models, nil
}

// DefaultModel returns the model the backend advertises as its default.
func (s *BackendService) DefaultModel(ctx context.Context) (string, error) {
	if _, err := s.ListModels(ctx); err != nil {
		return "", err
	}
	return s.cache.Default(), nil
}

// PickModel selects the model used for new turns: the configured model when
// set, else the backend's advertised default, else a fixed fallback when the
// models endpoint is unreachable — the chat stays usable either way.
func PickModel(ctx context.Context, backend *BackendService, configured string) string {
	if configured != "" {
		return configured
	}
	model, err := backend.DefaultModel(ctx)
	if err != nil {
		slog.Warn("fetch default model", "error", err)
		return config.FallbackModel
	}
	return model
}

func (s *BackendService) GetModel(ctx context.Context, modelID string) (*domain.AIModel, error) {
	models, err := s.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		if m.ID == modelID {
			return &m, nil
		}
	}
	return nil, domain.ErrModelNotFound
}
