package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/comparia/comparia/internal/model"
)

// OpenAIProvider suggests terms through OpenAI's chat completions API
type OpenAIProvider struct {
	client *openai.Client
	cfg    model.OracleConfig
	log    zerolog.Logger
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(cfg model.OracleConfig, log zerolog.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		log:    log,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.ListModels(ctx); err != nil {
		p.log.Debug().Err(err).Msg("openai availability check failed")
		return false
	}
	return true
}

// SuggestTerms asks for term suggestions in JSON mode
func (p *OpenAIProvider) SuggestTerms(ctx context.Context, req SuggestRequest) ([]TermSuggestion, error) {
	m := p.cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	maxTerms := req.MaxTerms
	if maxTerms == 0 {
		maxTerms = p.cfg.MaxTerms
	}
	if maxTerms == 0 {
		maxTerms = defaultMaxTerms
	}

	timeout := p.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: m,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(req, maxTerms),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrMalformedResponse
	}

	return parseSuggestions([]byte(resp.Choices[0].Message.Content), maxTerms)
}
