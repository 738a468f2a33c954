package llm

import (
	"context"
	"errors"
	"fmt"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/docduel/docduel/internal/models"
)

// ErrNoChoiceInResponse is returned when the chat completion has no choices.
var ErrNoChoiceInResponse = errors.New("openai: no choice in response")

const openaiDefaultModel = openaisdk.ChatModelGPT4oMini

// OpenAIProvider calls the OpenAI chat completions API via the official SDK.
type OpenAIProvider struct {
	sdk   openaisdk.Client
	model openaisdk.ChatModel
}

var _ Provider = (*OpenAIProvider)(nil)

// OpenAIProviderOption configures the OpenAIProvider.
type OpenAIProviderOption func(*OpenAIProvider)

// WithModel overrides the default chat model (gpt-4o-mini).
func WithModel(model string) OpenAIProviderOption {
	return func(p *OpenAIProvider) {
		p.model = openaisdk.ChatModel(model)
	}
}

// NewOpenAIProvider creates an OpenAI completion provider.
func NewOpenAIProvider(apiKey string, opts ...OpenAIProviderOption) *OpenAIProvider {
	p := &OpenAIProvider{
		sdk:   openaisdk.NewClient(option.WithAPIKey(apiKey)),
		model: openaiDefaultModel,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the persisted provider identifier.
func (p *OpenAIProvider) Name() string {
	return models.ProviderOpenAI
}

// Complete sends a system+user chat completion request.
// Temperature 0 and top_p 1 keep both providers' sampling comparable.
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (Completion, error) {
	resp, err := p.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(userPrompt),
		},
		MaxTokens:   param.NewOpt(int64(maxTokens)),
		Temperature: param.NewOpt(0.0),
		TopP:        param.NewOpt(1.0),
	})
	if err != nil {
		return Completion{}, fmt.Errorf("openai completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Completion{}, ErrNoChoiceInResponse
	}

	return Completion{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}
