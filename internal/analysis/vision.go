package analysis

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// VisionMaxBytes is the Cloud Vision upload ceiling.
const VisionMaxBytes = 20 << 20

// VisionClient extracts text with Google Cloud Vision text detection.
type VisionClient struct {
	svc *vision.Service
}

// NewVisionClient creates a Vision client authenticated by API key. Extra
// options (endpoint, HTTP client) are applied after the key.
func NewVisionClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*VisionClient, error) {
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := vision.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}
	return &VisionClient{svc: svc}, nil
}

func (c *VisionClient) Name() string { return "google-vision" }

// Extract runs document and plain text detection and returns the full text.
func (c *VisionClient) Extract(ctx context.Context, img *Image) (string, error) {
	if img.Size() > VisionMaxBytes {
		return "", tooLarge(c.Name(), img.Size(), VisionMaxBytes)
	}
	data, err := img.Bytes()
	if err != nil {
		return "", c.fail(KindTransport, "read image", err)
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image: &vision.Image{Content: base64.StdEncoding.EncodeToString(data)},
			Features: []*vision.Feature{
				{Type: "DOCUMENT_TEXT_DETECTION", MaxResults: 50},
				{Type: "TEXT_DETECTION", MaxResults: 50},
			},
		}},
	}

	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return "", c.fail(classifyStatus(gerr.Code), fmt.Sprintf("annotate returned status %d", gerr.Code), err)
		}
		return "", c.fail(classifyTransport(err), "annotate request failed", err)
	}

	if len(resp.Responses) == 0 {
		return "", c.fail(KindNoText, "empty annotate response", nil)
	}
	r := resp.Responses[0]
	if r.Error != nil && r.Error.Code != 0 {
		return "", c.fail(KindNoText, "annotate error: "+r.Error.Message, nil)
	}

	var text string
	switch {
	case r.FullTextAnnotation != nil && r.FullTextAnnotation.Text != "":
		text = r.FullTextAnnotation.Text
	case len(r.TextAnnotations) > 0:
		text = r.TextAnnotations[0].Description
	}
	if !hasEnoughText(text) {
		return "", c.fail(KindNoText, "extracted text below threshold", nil)
	}
	return strings.TrimSpace(text), nil
}

func (c *VisionClient) fail(kind ErrorKind, msg string, cause error) *ExtractionError {
	return &ExtractionError{Kind: kind, Backend: c.Name(), Message: msg, Cause: cause}
}
