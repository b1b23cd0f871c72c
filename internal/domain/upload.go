package domain

// UploadStatus tracks the upload client's four-state lifecycle.
type UploadStatus int

const (
	UploadIdle UploadStatus = iota
	UploadInProgress
	UploadSuccess
	UploadError
)

func (s UploadStatus) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadInProgress:
		return "uploading"
	case UploadSuccess:
		return "success"
	case UploadError:
		return "error"
	}
	return "unknown"
}

// Label returns the human-readable status line shown to the user.
func (s UploadStatus) Label() string {
	switch s {
	case UploadInProgress:
		return "Uploading PDF..."
	case UploadSuccess:
		return "PDF uploaded, you can ask questions about it now"
	case UploadError:
		return "Upload failed, please try again"
	}
	return ""
}

// Terminal reports whether the status auto-reverts to idle after the reset delay.
func (s UploadStatus) Terminal() bool {
	return s == UploadSuccess || s == UploadError
}
