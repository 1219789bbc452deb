package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcfg "github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	err error
}

func (f fakeResolver) Resolve(_ context.Context, location string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return "https://signed.example/" + location, time.Time{}, nil
}

func TestExtractText(t *testing.T) {
	var got extractRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(extractResponse{Success: true, Text: "Problem. Solution. Market."})
	}))
	defer srv.Close()

	c := NewClient(appcfg.ExtractionConfig{Endpoint: srv.URL + "/", APIKey: "k"}, fakeResolver{}, nil)
	text, err := c.ExtractText(context.Background(), "deck.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Problem. Solution. Market.", text)
	assert.Equal(t, "https://signed.example/deck.pdf", got.PresignedURL)
	assert.Equal(t, "Bearer k", auth)
}

func TestExtractTextFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload any
	}{
		{name: "http error", status: http.StatusInternalServerError, payload: map[string]string{"error": "boom"}},
		{name: "unsuccessful", status: http.StatusOK, payload: extractResponse{Success: false, Error: "encrypted pdf"}},
		{name: "empty text", status: http.StatusOK, payload: extractResponse{Success: true, Text: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.payload)
			}))
			defer srv.Close()

			c := NewClient(appcfg.ExtractionConfig{Endpoint: srv.URL}, fakeResolver{}, nil)
			_, err := c.ExtractText(context.Background(), "deck.pdf")
			assert.Error(t, err)
		})
	}
}

func TestExtractTextNotConfigured(t *testing.T) {
	c := NewClient(appcfg.ExtractionConfig{}, fakeResolver{}, nil)
	_, err := c.ExtractText(context.Background(), "deck.pdf")
	assert.ErrorIs(t, err, ErrNotConfigured)

	resolveErr := errors.New("no bucket")
	c = NewClient(appcfg.ExtractionConfig{Endpoint: "http://127.0.0.1:1"}, fakeResolver{err: resolveErr}, nil)
	_, err = c.ExtractText(context.Background(), "s3://b/k.pdf")
	assert.ErrorIs(t, err, resolveErr)
}
