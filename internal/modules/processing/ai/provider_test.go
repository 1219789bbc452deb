package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appcfg "github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeckSummary(t *testing.T) {
	raw := "```json\n{\"summary\":[\" Notes for teams \",\"\"],\"strengths\":[\"PLG\"],\"weaknesses\":[\"Crowded\"],\"fundingStage\":\"\"}\n```"
	s, err := parseDeckSummary(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes for teams"}, s.Summary)
	assert.Equal(t, []string{"PLG"}, s.Strengths)
	assert.Equal(t, "Unknown", s.FundingStage)
}

func TestParseDeckSummaryEmbedded(t *testing.T) {
	raw := `Here you go: {"summary":["Ride hailing"],"strengths":[],"weaknesses":[],"fundingStage":"Seed"} hope it helps`
	s, err := parseDeckSummary(raw)
	require.NoError(t, err)
	assert.Equal(t, "Seed", s.FundingStage)
	assert.Empty(t, s.Strengths)
}

func TestParseDeckSummaryRejects(t *testing.T) {
	_, err := parseDeckSummary("not json at all")
	assert.Error(t, err)

	_, err = parseDeckSummary(`{"summary":[" "],"fundingStage":"Seed"}`)
	assert.Error(t, err)
}

func TestNormalizeEndpoints(t *testing.T) {
	assert.Equal(t, "https://api.example.com/v1", normalizeOpenAIBaseURL("https://api.example.com/"))
	assert.Equal(t, "https://api.example.com/v1", normalizeOpenAIBaseURL("https://api.example.com/v1"))
	assert.Equal(t, "", normalizeOpenAIBaseURL(" "))
	assert.Equal(t, "https://llm.local", normalizeOpenAICompatibleEndpoint("https://llm.local/v1/"))
	assert.Equal(t, "https://api.openai.com", normalizeOpenAICompatibleEndpoint(""))
}

func TestNormalizeProviderType(t *testing.T) {
	assert.Equal(t, providerOpenAI, normalizeProviderType(""))
	assert.Equal(t, providerOpenAICompatible, normalizeProviderType("OpenAI_Compatible"))
	assert.Equal(t, providerAnthropic, normalizeProviderType(" Anthropic "))
}

func TestNewProviderValidation(t *testing.T) {
	_, err := NewProvider(appcfg.AIConfig{Provider: "openai"}, nil)
	assert.Error(t, err)

	_, err = NewProvider(appcfg.AIConfig{Provider: "gemini", APIKey: "k"}, nil)
	assert.Error(t, err)

	p, err := NewProvider(appcfg.AIConfig{Provider: "anthropic", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultAnthropicModel, p.modelID)
	assert.NotNil(t, p.model)
}

func TestSummarizeOpenAICompatible(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		content := `{"summary":["Notion is an all-in-one workspace"],"strengths":["Viral growth"],"weaknesses":["Competition"],"fundingStage":"Series A"}`
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		})
	}))
	defer srv.Close()

	p, err := NewProvider(appcfg.AIConfig{
		Provider:        "openai-compatible",
		APIKey:          "secret",
		Endpoint:        srv.URL + "/v1",
		Model:           "local-model",
		MaxOutputTokens: 256,
		Timeout:         5 * time.Second,
	}, nil)
	require.NoError(t, err)

	s, err := p.Summarize(context.Background(), "Notion pitch deck text")
	require.NoError(t, err)
	assert.Equal(t, "Series A", s.FundingStage)
	assert.Equal(t, []string{"Viral growth"}, s.Strengths)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "local-model", gotBody["model"])
	assert.EqualValues(t, 256, gotBody["max_tokens"])

	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	user := msgs[1].(map[string]any)
	assert.True(t, strings.Contains(user["content"].(string), "Notion pitch deck text"))
}

func TestSummarizeOpenAICompatibleErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	p, err := NewProvider(appcfg.AIConfig{Provider: "openai-compatible", APIKey: "k", Endpoint: srv.URL}, nil)
	require.NoError(t, err)

	_, err = p.Summarize(context.Background(), "deck")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	_, err = p.Summarize(context.Background(), "   ")
	assert.ErrorIs(t, err, errEmptyInput)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", truncateText("abc", 5))
	assert.Equal(t, "ab...", truncateText("abcdef", 2))
	_, user := buildDeckSummaryPrompt(strings.Repeat("x", maxInputRunes+10))
	assert.Less(t, len(user), maxInputRunes+40)
}
