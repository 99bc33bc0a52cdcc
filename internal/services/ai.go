package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// aiCallTimeout bounds every outbound model call. The AI service is treated
// as untrusted and possibly slow; callers degrade rather than wait forever.
const aiCallTimeout = 30 * time.Second

// Completer is the outbound AI boundary. Implementations are injected into
// whichever service needs them; there is no package-level default client.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: "gemini-3-flash-preview",
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, aiCallTimeout)
	defer cancel()

	// Generation settings vary per call, so configure a fresh model handle
	// rather than mutating a shared one.
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(temperature)
	model.SetTopP(0.95)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return extractText(resp), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
