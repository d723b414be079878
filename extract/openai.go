package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4o

// OpenAIProvider extracts through the OpenAI chat completion API. It
// works from extracted text rather than the PDF itself, so the caller
// must populate Request.Text.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	model := config.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

// IsAvailable checks the API is reachable with the configured key.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Extract sends the document text with the extraction instruction and
// decodes the structured reply.
func (p *OpenAIProvider) Extract(ctx context.Context, req Request) (*DocumentExtraction, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("openai provider needs extracted document text")
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = BodyExtractionPrompt
	}
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("%s\n\nDocument text:\n\n%s", prompt, req.Text),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai extraction: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in openai response")
	}

	return parseResponse(resp.Choices[0].Message.Content)
}
