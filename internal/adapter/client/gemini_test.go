package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dream-analyzer/internal/domain/entity"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return c
}

func textResponse(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]}}]}`, text)
}

func TestBuildContentConfig(t *testing.T) {
	cfg := buildContentConfig(entity.NewGenerationConfig())

	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, float32(1), *cfg.Temperature)
	assert.Equal(t, float32(0.95), *cfg.TopP)
	assert.Equal(t, float32(40), *cfg.TopK)
	assert.Equal(t, int32(8192), cfg.MaxOutputTokens)
	require.Len(t, cfg.SystemInstruction.Parts, 1)
	assert.Equal(t, entity.DefaultSystemInstruction, cfg.SystemInstruction.Parts[0].Text)
}

func TestClassifyError(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		err := classifyError(genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"})

		var upstream *entity.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.True(t, upstream.IsRateLimit())
		assert.Equal(t, "quota", upstream.Message)
	})

	t.Run("wrapped api error", func(t *testing.T) {
		err := classifyError(fmt.Errorf("call: %w", genai.APIError{Code: 400, Message: "API key not valid"}))

		var upstream *entity.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.False(t, upstream.IsRateLimit())
		assert.Equal(t, 400, upstream.Code)
	})

	t.Run("transport", func(t *testing.T) {
		err := classifyError(errors.New("connection reset by peer"))

		assert.ErrorIs(t, err, entity.ErrGenerationFailed)
		assert.Contains(t, err.Error(), "connection reset by peer")
	})
}

func TestGeminiClient_Generate(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, textResponse("**Flying** means freedom"))
	})

	text, err := NewGeminiClientFromClient(c).Generate(context.Background(), entity.GenerationRequest{
		Model:  "gemini-2.5-flash",
		Prompt: "I could fly over the city",
		Config: entity.NewGenerationConfig(),
	})

	require.NoError(t, err)
	assert.Equal(t, "**Flying** means freedom", text)
	assert.Contains(t, body, "systemInstruction")
	assert.Contains(t, body, "generationConfig")
}

func TestGeminiClient_GenerateRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	})

	_, err := NewGeminiClientFromClient(c).Generate(context.Background(), entity.GenerationRequest{
		Model:  "gemini-2.5-flash",
		Prompt: "a dream",
		Config: entity.NewGenerationConfig(),
	})

	var upstream *entity.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.True(t, upstream.IsRateLimit())
}

func TestParseVerdict(t *testing.T) {
	assert.True(t, parseVerdict("YES"))
	assert.True(t, parseVerdict(" yes\n"))
	assert.False(t, parseVerdict("NO"))
	assert.False(t, parseVerdict("no."))
	assert.True(t, parseVerdict(""))
}

func TestModelClassifier(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		answer := "YES"
		if strings.Contains(string(raw), "what time is it") {
			answer = "NO"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, textResponse(answer))
	})
	clf := NewModelClassifier(c, "gemini-2.5-flash")

	assert.True(t, clf.IsDreamLike(context.Background(), "I was lost in a forest of glass"))
	assert.False(t, clf.IsDreamLike(context.Background(), "what time is it"))
}

func TestModelClassifier_ErrorAllows(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)
	})

	assert.True(t, NewModelClassifier(c, "gemini-2.5-flash").IsDreamLike(context.Background(), "anything"))
}

func TestGeminiClient_ListModels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"models":[{"name":"models/gemini-2.5-flash"},{"name":"models/gemini-2.5-pro"}]}`)
	})

	names, err := NewGeminiClientFromClient(c).ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"models/gemini-2.5-flash", "models/gemini-2.5-pro"}, names)
}

func TestModelClassifier_DisablesThinking(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, textResponse("NO"))
	})

	assert.False(t, NewModelClassifier(c, "gemini-2.5-flash").IsDreamLike(context.Background(), "what time is it"))

	genCfg, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig missing: %v", body)
	thinking, ok := genCfg["thinkingConfig"].(map[string]any)
	require.True(t, ok, "thinkingConfig missing: %v", genCfg)
	assert.EqualValues(t, 0, thinking["thinkingBudget"])
}

func TestModelClassifier_NoTextVerdictIsLogged(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(func() { logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks)) })

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model"},"finishReason":"MAX_TOKENS"}]}`)
	})

	allowed := NewModelClassifier(c, "gemini-2.5-flash").IsDreamLike(context.Background(), "what time is it")

	assert.True(t, allowed)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "MAX_TOKENS", entry.Data["finish_reason"])
}
