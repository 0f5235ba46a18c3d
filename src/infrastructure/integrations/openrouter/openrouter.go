package openrouter

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"

	"faqrag/src/core/faq"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// go-openai tags Temperature with omitempty, so a literal 0 would be
// dropped from the request body and the provider would fall back to its
// own default. The smallest nonzero float is the library's documented
// stand-in for an explicit temperature of 0.
const requestTemperature = math.SmallestNonzeroFloat32

const systemInstructions = "You are an HR SaaS product assistant. Use only the provided chunks to answer the user. " +
	"When appropriate, cite the chunk_id(s) you used in brackets like [chunk_0001]. " +
	"If the answer is not found, say you don't know and suggest next steps."

// Client generates grounded answers through OpenRouter's OpenAI-compatible
// chat completion API.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// NewClient fails up front on a missing API key so the pipeline reports
// a typed generator error instead of failing mid-request.
func NewClient(apiKey, baseURL, model string, maxTokens int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENROUTER_API_KEY is required", faq.ErrGeneratorUnavailable)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Generate asks the model for a concise, cited answer built only from
// the retrieved context. Temperature is pinned to zero to keep answers
// reproducible for the same retrieval.
func (c *Client) Generate(ctx context.Context, question, contextText string) (faq.Generation, error) {
	userPrompt := fmt.Sprintf(
		"Context:\n%s\n\nQuestion: %s\n\nAnswer concisely, accurately, and cite chunk ids that support the answer.",
		contextText, question,
	)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstructions},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: requestTemperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return faq.Generation{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return faq.Generation{}, fmt.Errorf("chat completion returned no choices")
	}

	return faq.Generation{
		Text:             resp.Choices[0].Message.Content,
		TokensPrompt:     resp.Usage.PromptTokens,
		TokensCompletion: resp.Usage.CompletionTokens,
	}, nil
}
