package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// PDFMaxBytes bounds PDFs read for their text layer.
	PDFMaxBytes = 20 << 20

	maxPDFTextBytes = 100 * 1024
)

// PDFTextExtractor reads the embedded text layer of PDF reports. It does
// no OCR; scanned PDFs and images fail with no_text.
type PDFTextExtractor struct{}

// NewPDFTextExtractor creates a PDF text layer extractor.
func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

func (p *PDFTextExtractor) Name() string { return "pdf-text" }

// Offline reports that no network is used.
func (p *PDFTextExtractor) Offline() bool { return true }

// Extract returns the plain text of the PDF.
func (p *PDFTextExtractor) Extract(ctx context.Context, img *Image) (text string, err error) {
	if img.Size() > PDFMaxBytes {
		return "", tooLarge(p.Name(), img.Size(), PDFMaxBytes)
	}
	data, err := img.Bytes()
	if err != nil {
		return "", p.fail(KindTransport, "read document", err)
	}
	if detectMimeType(data) != "application/pdf" {
		return "", p.fail(KindNoText, "not a PDF document", nil)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = p.fail(KindNoText, "malformed PDF", fmt.Errorf("panic during PDF parsing: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", p.fail(KindNoText, "open PDF reader", err)
	}
	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", p.fail(KindNoText, "extract plain text", err)
	}
	textBytes, err := io.ReadAll(io.LimitReader(plainText, maxPDFTextBytes))
	if err != nil {
		return "", p.fail(KindNoText, "read plain text", err)
	}

	text = strings.TrimSpace(string(textBytes))
	if !hasEnoughText(text) {
		return "", p.fail(KindNoText, fmt.Sprintf("text layer empty across %d pages", reader.NumPage()), nil)
	}
	return text, nil
}

func (p *PDFTextExtractor) fail(kind ErrorKind, msg string, cause error) *ExtractionError {
	return &ExtractionError{Kind: kind, Backend: p.Name(), Message: msg, Cause: cause}
}
