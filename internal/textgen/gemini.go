package textgen

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate - один вызов модели. Таймаут задает вызывающий через ctx, повторов нет.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) ([]GeneratedReview, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(req)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.9),
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	return ParseReviews(resp.Text(), req.Quantity)
}
