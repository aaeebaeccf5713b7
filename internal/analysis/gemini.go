package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiConfig configures the Gemini interpreter.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Retry      *RetryConfig
}

// GeminiInterpreter interprets reports with the Gemini generateContent API.
type GeminiInterpreter struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	retry      RetryConfig
}

// NewGeminiInterpreter creates a Gemini interpreter.
func NewGeminiInterpreter(cfg GeminiConfig) *GeminiInterpreter {
	g := &GeminiInterpreter{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
		retry:      DefaultInterpreterRetryConfig,
	}
	if g.baseURL == "" {
		g.baseURL = DefaultGeminiBaseURL
	}
	if g.model == "" {
		g.model = DefaultGeminiModel
	}
	if g.httpClient == nil {
		g.httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.Retry != nil {
		g.retry = *cfg.Retry
	}
	return g
}

func (g *GeminiInterpreter) Name() string { return "gemini:" + g.model }

// Interpret sends extracted report text and returns the raw model output.
func (g *GeminiInterpreter) Interpret(ctx context.Context, text string) (string, error) {
	parts := []map[string]any{{"text": TextPrompt(text)}}
	return WithRetry(ctx, g.retry, func(ctx context.Context) (string, error) {
		return g.generate(ctx, parts)
	})
}

// InterpretImage submits the report image as inline data.
func (g *GeminiInterpreter) InterpretImage(ctx context.Context, img *Image) (string, error) {
	data, err := img.Bytes()
	if err != nil {
		return "", &InterpretationError{Kind: KindTransport, Backend: g.Name(), Message: "read image", Cause: err}
	}
	parts := []map[string]any{
		{"text": ImagePrompt()},
		{
			"inline_data": map[string]string{
				"mime_type": detectMimeType(data),
				"data":      base64.StdEncoding.EncodeToString(data),
			},
		},
	}
	return WithRetry(ctx, g.retry, func(ctx context.Context) (string, error) {
		return g.generate(ctx, parts)
	})
}

func (g *GeminiInterpreter) generate(ctx context.Context, parts []map[string]any) (string, error) {
	requestBody := map[string]any{
		"systemInstruction": map[string]any{
			"parts": []map[string]any{{"text": SystemPrompt()}},
		},
		"contents": []map[string]any{
			{"role": "user", "parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature":      chatTemperature,
			"maxOutputTokens":  chatMaxTokens,
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		kind := classifyTransport(err)
		return "", &InterpretationError{
			Kind:      kind,
			Backend:   g.Name(),
			Message:   "Gemini API request failed",
			Retryable: kind == KindTransport,
			Cause:     stripKey(err, g.apiKey),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		kind := classifyStatus(resp.StatusCode)
		return "", &InterpretationError{
			Kind:      kind,
			Backend:   g.Name(),
			Message:   fmt.Sprintf("Gemini API error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(body))),
			Retryable: kind == KindTransport && resp.StatusCode >= 500,
		}
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", &InterpretationError{Kind: KindEmptyResponse, Backend: g.Name(), Message: "decode response", Cause: err}
	}

	var sb strings.Builder
	if len(geminiResp.Candidates) > 0 {
		for _, p := range geminiResp.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", &InterpretationError{Kind: KindEmptyResponse, Backend: g.Name(), Message: "no response from Gemini"}
	}
	return sb.String(), nil
}

// stripKey removes the API key from URL errors, which embed the request URL.
func stripKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "***"), cause: err}
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }
