package client

import (
	"context"
	"errors"
	"fmt"

	"dream-analyzer/internal/domain/entity"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient builds a Gemini Developer API client authenticated with apiKey.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client}, nil
}

func NewGeminiClientFromClient(c *genai.Client) *GeminiClient {
	return &GeminiClient{client: c}
}

func (g *GeminiClient) Generate(ctx context.Context, req entity.GenerationRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, req.Model, contents, buildContentConfig(req.Config))
	if err != nil {
		return "", classifyError(err)
	}

	text := result.Text()
	if text == "" {
		return "", entity.ErrEmptyResponse
	}
	return text, nil
}

func (g *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for model, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, classifyError(err)
		}
		names = append(names, model.Name)
	}
	return names, nil
}

func buildContentConfig(cfg entity.GenerationConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		TopP:            genai.Ptr(cfg.TopP),
		TopK:            genai.Ptr(cfg.TopK),
		MaxOutputTokens: cfg.MaxOutputTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(cfg.SystemInstruction)},
		},
	}
}

// classifyError maps SDK errors onto domain errors. API errors keep their
// code and message; anything else is a transport-level failure.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &entity.UpstreamError{Code: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &entity.UpstreamError{Code: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message}
	}
	return fmt.Errorf("%w: %v", entity.ErrGenerationFailed, err)
}
