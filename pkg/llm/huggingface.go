package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultHuggingFaceBaseURL = "https://router.huggingface.co"
	DefaultHuggingFaceModel   = "meta-llama/Llama-3.1-8B-Instruct"
)

// HuggingFaceClient talks to the Hugging Face inference router through its
// OpenAI-compatible chat completions endpoint.
type HuggingFaceClient struct {
	client *openai.Client
	model  string
}

func NewHuggingFaceClient(apiKey, model, baseURL string) *HuggingFaceClient {
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	if baseURL == "" {
		baseURL = DefaultHuggingFaceBaseURL
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/v1/"),
		option.WithMaxRetries(0),
	)
	return &HuggingFaceClient{
		client: &client,
		model:  model,
	}
}

func (c *HuggingFaceClient) Name() string {
	return ProviderHuggingFace
}

func (c *HuggingFaceClient) Model() string {
	return c.model
}

func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(2048),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("huggingface API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("huggingface: %w", ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}
