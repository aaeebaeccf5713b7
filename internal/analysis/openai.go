package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultChatBaseURL     = "https://api.groq.com/openai/v1"
	DefaultChatModel       = "llama-3.1-8b-instant"
	DefaultChatVisionModel = "llama-3.2-90b-vision-preview"

	chatMaxTokens   = 1500
	chatTemperature = 0.1
)

// ChatConfig configures an OpenAI-compatible chat completion backend.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
	HTTPClient  *http.Client
	Retry       *RetryConfig
}

// ChatInterpreter interprets report text with an OpenAI-compatible
// chat completions endpoint.
type ChatInterpreter struct {
	client      *openai.Client
	model       string
	visionModel string
	retry       RetryConfig
}

// NewChatInterpreter creates a chat interpreter. Empty fields fall back to
// the Groq defaults.
func NewChatInterpreter(cfg ChatConfig) *ChatInterpreter {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = DefaultChatBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	}

	c := &ChatInterpreter{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		retry:       DefaultInterpreterRetryConfig,
	}
	if c.model == "" {
		c.model = DefaultChatModel
	}
	if c.visionModel == "" {
		c.visionModel = DefaultChatVisionModel
	}
	if cfg.Retry != nil {
		c.retry = *cfg.Retry
	}
	return c
}

func (c *ChatInterpreter) Name() string { return "chat:" + c.model }

// Interpret sends extracted report text and returns the raw model output.
func (c *ChatInterpreter) Interpret(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: TextPrompt(text)},
		},
	}
	return WithRetry(ctx, c.retry, func(ctx context.Context) (string, error) {
		return c.complete(ctx, req)
	})
}

// InterpretImage submits the report image itself as a multimodal turn.
func (c *ChatInterpreter) InterpretImage(ctx context.Context, img *Image) (string, error) {
	uri, err := img.DataURI()
	if err != nil {
		return "", &InterpretationError{Kind: KindTransport, Backend: c.Name(), Message: "read image", Cause: err}
	}
	req := openai.ChatCompletionRequest{
		Model:       c.visionModel,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: ImagePrompt()},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: uri}},
				},
			},
		},
	}
	return WithRetry(ctx, c.retry, func(ctx context.Context) (string, error) {
		return c.complete(ctx, req)
	})
}

func (c *ChatInterpreter) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", c.classify(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &InterpretationError{Kind: KindEmptyResponse, Backend: c.Name(), Message: "no content in completion"}
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *ChatInterpreter) classify(err error) *InterpretationError {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status == 0 {
		kind := classifyTransport(err)
		return &InterpretationError{
			Kind:      kind,
			Backend:   c.Name(),
			Message:   "chat completion request failed",
			Retryable: kind == KindTransport,
			Cause:     err,
		}
	}

	kind := classifyStatus(status)
	return &InterpretationError{
		Kind:      kind,
		Backend:   c.Name(),
		Message:   fmt.Sprintf("chat completion returned status %d", status),
		Retryable: kind == KindTransport && status >= 500,
		Cause:     err,
	}
}
