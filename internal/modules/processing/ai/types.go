package ai

import (
	"context"
	"errors"

	"github.com/coderhuBypassion/BriefBank/internal/models"
)

// Summarizer turns extracted deck text into a structured summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*models.AISummary, error)
}

var (
	errEmptyResponse = errors.New("empty response from AI")
	errEmptyInput    = errors.New("no deck text to summarize")
)

const (
	providerOpenAI           = "openai"
	providerAnthropic        = "anthropic"
	providerOpenAICompatible = "openai-compatible"

	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
)

type deckSummaryOutput struct {
	Summary      []string `json:"summary"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	FundingStage string   `json:"fundingStage"`
}

type disabled struct{ err error }

// Disabled returns a Summarizer that always fails with err. The server uses
// it when no AI provider is configured so the rest of the API still runs.
func Disabled(err error) Summarizer {
	return disabled{err: err}
}

func (d disabled) Summarize(context.Context, string) (*models.AISummary, error) {
	return nil, d.err
}
