package extract

import (
	"context"
	"errors"
)

// Extractor pulls plain text out of the PDF stored at fileLocation.
type Extractor interface {
	ExtractText(ctx context.Context, fileLocation string) (string, error)
}

var (
	ErrNotConfigured = errors.New("extraction service is not configured")
	ErrNoText        = errors.New("no text extracted from document")
)

type extractOptions struct {
	PreserveLayout bool `json:"preserveLayout"`
	MaxPages       int  `json:"maxPages,omitempty"`
}

type extractRequest struct {
	PresignedURL string         `json:"presignedUrl"`
	Options      extractOptions `json:"options"`
}

type extractResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}
