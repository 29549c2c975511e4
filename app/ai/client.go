package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

// Supported completion service providers. All speak the OpenAI chat
// completion protocol and differ only in base URL and model names.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGLM        = "glm"
)

// CompletionRequest describes one chat completion call
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int64
	JSONMode    bool
}

// CompletionClient is the surface the scorer, title optimizer and rewriter
// depend on. Satisfied by Client; faked in tests.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	FastModel() string
	QualityModel() string
}

// ClientConfig selects the provider and optional overrides
type ClientConfig struct {
	Provider     string
	APIKey       string
	APIBase      string
	FastModel    string
	QualityModel string
}

// Client wraps the OpenAI-compatible completion service. Every call waits on
// the shared rate limiter before going out.
type Client struct {
	oa           openai.Client
	limiter      *Limiter
	fastModel    string
	qualityModel string
}

var _ CompletionClient = (*Client)(nil)

// NewClient builds a completion client for the configured provider
func NewClient(config ClientConfig, limiter *Limiter) *Client {
	baseURL := config.APIBase
	fastModel := config.FastModel
	qualityModel := config.QualityModel

	switch config.Provider {
	case ProviderOpenRouter:
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		if fastModel == "" {
			fastModel = "google/gemma-2-9b-it:free"
		}
		if qualityModel == "" {
			qualityModel = "anthropic/claude-3.5-sonnet"
		}
	case ProviderGLM:
		if baseURL == "" {
			baseURL = "https://open.bigmodel.cn/api/paas/v4/"
		}
		if fastModel == "" {
			fastModel = "glm-4-flash"
		}
		if qualityModel == "" {
			qualityModel = "glm-4"
		}
	default:
		if fastModel == "" {
			fastModel = "gpt-4o-mini"
		}
		if qualityModel == "" {
			qualityModel = "gpt-4o"
		}
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	slog.Info("Completion client initialized",
		"provider", config.Provider,
		"fast_model", fastModel,
		"quality_model", qualityModel)

	return &Client{
		oa:           openai.NewClient(opts...),
		limiter:      limiter,
		fastModel:    fastModel,
		qualityModel: qualityModel,
	}
}

// FastModel returns the model used for scoring and title generation
func (c *Client) FastModel() string {
	return c.fastModel
}

// QualityModel returns the model used for full rewrites
func (c *Client) QualityModel() string {
	return c.qualityModel
}

// Complete issues one chat completion call after acquiring a rate limit slot
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}

	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	response, err := c.oa.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return response.Choices[0].Message.Content, nil
}
