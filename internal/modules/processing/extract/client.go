// Package extract talks to the PDF text extraction service.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appcfg "github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/logger"
	"go.uber.org/zap"
)

const maxErrorBody = 1024

// URLResolver turns a stored file location into a URL the extraction
// service can fetch. *objectstore.Presigner satisfies it.
type URLResolver interface {
	Resolve(ctx context.Context, location string) (string, time.Time, error)
}

// Client posts presigned document URLs to the extraction service.
type Client struct {
	endpoint   string
	apiKey     string
	urls       URLResolver
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg appcfg.ExtractionConfig, urls URLResolver, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		urls:       urls,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.OrNop(log),
	}
}

// ExtractText implements Extractor.
func (c *Client) ExtractText(ctx context.Context, fileLocation string) (string, error) {
	if c.endpoint == "" {
		return "", ErrNotConfigured
	}
	url, _, err := c.urls.Resolve(ctx, fileLocation)
	if err != nil {
		return "", fmt.Errorf("resolve file location: %w", err)
	}

	body, err := json.Marshal(extractRequest{
		PresignedURL: url,
		Options:      extractOptions{PreserveLayout: false},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "BriefBank-Extractor/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("extraction service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode extraction response: %w", err)
	}
	if !out.Success {
		if out.Error == "" {
			out.Error = "unknown error"
		}
		return "", fmt.Errorf("extraction failed: %s", out.Error)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", ErrNoText
	}

	c.log.Debug("deck text extracted",
		zap.Int("chars", len(out.Text)),
		zap.Duration("latency", time.Since(start)),
	)
	return out.Text, nil
}
