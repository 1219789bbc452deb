package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/logger"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
	"go.uber.org/zap"
)

// Provider summarizes deck text with the configured model. OpenAI and
// Anthropic go through the jetify SDK; openai-compatible endpoints are called
// over plain HTTP since many of them lack the newer OpenAI APIs.
type Provider struct {
	providerType string
	apiKey       string
	endpoint     string
	modelID      string
	maxTokens    int
	model        jetapi.LanguageModel
	httpClient   *http.Client
	log          *zap.Logger
}

func NewProvider(cfg appcfg.AIConfig, log *zap.Logger) (*Provider, error) {
	p := &Provider{
		providerType: normalizeProviderType(cfg.Provider),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		endpoint:     strings.TrimSpace(cfg.Endpoint),
		modelID:      strings.TrimSpace(cfg.Model),
		maxTokens:    cfg.MaxOutputTokens,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		log:          logger.OrNop(log),
	}
	if p.apiKey == "" {
		return nil, errors.New("AI provider api key is empty")
	}
	if p.maxTokens <= 0 {
		p.maxTokens = 1024
	}
	if p.httpClient.Timeout <= 0 {
		p.httpClient.Timeout = 60 * time.Second
	}

	if p.providerType != providerOpenAICompatible {
		model, err := p.buildLanguageModel()
		if err != nil {
			return nil, err
		}
		p.model = model
	}
	return p, nil
}

// Summarize implements Summarizer.
func (p *Provider) Summarize(ctx context.Context, text string) (*models.AISummary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errEmptyInput
	}
	systemPrompt, prompt := buildDeckSummaryPrompt(text)

	start := time.Now()
	raw, err := p.generate(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	summary, err := parseDeckSummary(raw)
	if err != nil {
		p.log.Warn("unparseable AI summary", zap.String("provider", p.providerType), zap.String("raw", truncateText(raw, 500)))
		return nil, err
	}
	p.log.Debug("deck summarized",
		zap.String("provider", p.providerType),
		zap.String("model", p.modelID),
		zap.Duration("latency", time.Since(start)),
	)
	return summary, nil
}

func (p *Provider) generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if p.providerType == providerOpenAICompatible {
		return p.callOpenAICompatibleChatCompletions(ctx, systemPrompt, prompt)
	}

	resp, err := jetai.GenerateText(
		ctx,
		buildAIPromptMessages(systemPrompt, prompt),
		jetai.WithModel(p.model),
		jetai.WithMaxOutputTokens(p.maxTokens),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromAIResponse(resp)
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	switch t {
	case "", providerOpenAI:
		return providerOpenAI
	case "openaicompatible":
		return providerOpenAICompatible
	default:
		return t
	}
}

func (p *Provider) buildLanguageModel() (jetapi.LanguageModel, error) {
	switch p.providerType {
	case providerAnthropic:
		if p.modelID == "" {
			p.modelID = defaultAnthropicModel
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(p.apiKey),
			anthropicoption.WithMaxRetries(1),
			anthropicoption.WithHTTPClient(p.httpClient),
		}
		if p.endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(p.endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(p.modelID, jetanthropic.WithClient(client)), nil
	case providerOpenAI:
		if p.modelID == "" {
			p.modelID = defaultOpenAIModel
		}
		opts := []openaioption.RequestOption{
			openaioption.WithAPIKey(p.apiKey),
			openaioption.WithMaxRetries(1),
			openaioption.WithHTTPClient(p.httpClient),
		}
		if normalized := normalizeOpenAIBaseURL(p.endpoint); normalized != "" {
			opts = append(opts, openaioption.WithBaseURL(normalized))
		}
		client := openaiclient.NewClient(opts...)
		return jetopenai.NewLanguageModel(p.modelID, jetopenai.WithClient(client)), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", p.providerType)
	}
}

func (p *Provider) callOpenAICompatibleChatCompletions(ctx context.Context, systemPrompt, prompt string) (string, error) {
	endpoint := normalizeOpenAICompatibleEndpoint(p.endpoint)
	model := p.modelID
	if model == "" {
		model = defaultOpenAIModel
	}

	messages := make([]map[string]string, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, map[string]string{
			"role":    "system",
			"content": systemPrompt,
		})
	}
	messages = append(messages, map[string]string{
		"role":    "user",
		"content": prompt,
	})

	body, err := json.Marshal(map[string]interface{}{
		"model":           model,
		"messages":        messages,
		"max_tokens":      p.maxTokens,
		"response_format": map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("openai-compatible error (%d): %s", resp.StatusCode, truncateText(strings.TrimSpace(string(respBody)), 300))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("openai-compatible error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", errEmptyResponse
	}
	return result.Choices[0].Message.Content, nil
}

func unmarshalAIJSON(raw string, out interface{}) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("invalid JSON response from AI")
}

func parseDeckSummary(raw string) (*models.AISummary, error) {
	var output deckSummaryOutput
	if err := unmarshalAIJSON(raw, &output); err != nil {
		return nil, err
	}
	summary := &models.AISummary{
		Summary:      cleanItems(output.Summary),
		Strengths:    cleanItems(output.Strengths),
		Weaknesses:   cleanItems(output.Weaknesses),
		FundingStage: strings.TrimSpace(output.FundingStage),
	}
	if len(summary.Summary) == 0 {
		return nil, fmt.Errorf("summary is empty in AI response")
	}
	if summary.FundingStage == "" {
		summary.FundingStage = "Unknown"
	}
	return summary, nil
}

func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func buildAIPromptMessages(systemPrompt, prompt string) []jetapi.Message {
	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: systemPrompt})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})
	return messages
}

func extractTextFromAIResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errEmptyResponse
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeOpenAICompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(strings.TrimRight(base, "/"), "/v1")
	}

	parsed.Path = strings.TrimSuffix(strings.TrimRight(parsed.Path, "/"), "/v1")
	return strings.TrimRight(parsed.String(), "/")
}
