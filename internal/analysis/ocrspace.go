package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultOCRSpaceURL = "https://api.ocr.space/parse/image"

	// OCRSpaceMaxBytes is the hosted OCR upload ceiling.
	OCRSpaceMaxBytes = 10 << 20
)

// OCRSpaceClient extracts text with the OCR.space hosted service.
type OCRSpaceClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewOCRSpaceClient creates an OCR.space client. An empty endpoint uses
// the public API.
func NewOCRSpaceClient(apiKey, endpoint string) *OCRSpaceClient {
	if endpoint == "" {
		endpoint = DefaultOCRSpaceURL
	}
	return &OCRSpaceClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *OCRSpaceClient) Name() string { return "ocr-space" }

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		ErrorMessage      string `json:"ErrorMessage"`
		FileParseExitCode int    `json:"FileParseExitCode"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// Extract uploads the image and returns the parsed text.
func (c *OCRSpaceClient) Extract(ctx context.Context, img *Image) (string, error) {
	if img.Size() > OCRSpaceMaxBytes {
		return "", tooLarge(c.Name(), img.Size(), OCRSpaceMaxBytes)
	}

	uri, err := img.DataURI()
	if err != nil {
		return "", c.fail(KindTransport, "read image", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := []struct{ key, value string }{
		{"base64Image", uri},
		{"apikey", c.apiKey},
		{"language", "eng"},
		{"isOverlayRequired", "false"},
		{"detectOrientation", "true"},
		{"isTable", "true"},
		{"scale", "true"},
		{"OCREngine", "2"},
	}
	for _, f := range fields {
		if err := writer.WriteField(f.key, f.value); err != nil {
			return "", fmt.Errorf("write field %s: %w", f.key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.fail(classifyTransport(err), "send request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(classifyTransport(err), "read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.fail(classifyStatus(resp.StatusCode),
			fmt.Sprintf("OCR service returned status %d: %s", resp.StatusCode, truncate(string(body), 200)), nil)
	}

	var result ocrSpaceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", c.fail(KindTransport, "decode response", err)
	}

	if result.IsErroredOnProcessing && len(result.ParsedResults) == 0 {
		return "", c.fail(KindNoText, "processing failed: "+ocrErrorMessage(result.ErrorMessage), nil)
	}
	if len(result.ParsedResults) == 0 {
		return "", c.fail(KindNoText, "no parsed results", nil)
	}

	text := result.ParsedResults[0].ParsedText
	if !hasEnoughText(text) {
		msg := "extracted text below threshold"
		if e := result.ParsedResults[0].ErrorMessage; e != "" {
			msg += ": " + e
		}
		return "", c.fail(KindNoText, msg, nil)
	}
	return strings.TrimSpace(text), nil
}

func (c *OCRSpaceClient) fail(kind ErrorKind, msg string, cause error) *ExtractionError {
	return &ExtractionError{Kind: kind, Backend: c.Name(), Message: msg, Cause: cause}
}

// ocrErrorMessage renders the ErrorMessage field, which the service sends
// either as a string or as an array of strings.
func ocrErrorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "unknown error"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return string(raw)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
