package domain

import "errors"

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrInputTooLong   = errors.New("message exceeds the input limit")
	ErrModelNotFound  = errors.New("model not found")
	ErrUploadInFlight = errors.New("upload already in progress")
	ErrNotPDF         = errors.New("only PDF files are supported")
	ErrUploadFailed   = errors.New("upload failed")
)

// StreamError carries an error the backend declared inside the event stream.
// Its text is shown to the user verbatim.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string {
	return e.Message
}
