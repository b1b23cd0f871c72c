package config

import "time"

const (
	// Upload/models request timeout. The chat stream carries no fixed
	// deadline; it is bounded by context cancellation only.
	RequestTimeout = 30 * time.Second

	// Upload status reverts to idle this long after success or error.
	UploadResetDelay = 3 * time.Second

	// Multipart field name for the PDF upload.
	UploadFieldName = "pdf"

	// Input validation ceiling, in runes.
	MaxInputLen = 2000

	// Most-recent messages persisted to the local cache.
	HistoryLimit = 20

	// Most-recent messages sent as conversational context with each turn.
	ContextWindow = 10

	// Model list cache duration.
	ModelCacheDuration = 1 * time.Hour

	// Used when the models endpoint is unreachable and no model is configured.
	FallbackModel = "gpt-4o-mini"
)
