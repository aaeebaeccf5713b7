package analysis

import (
	"context"
	"fmt"
	"strings"
)

// LocalOCRMaxBytes is the on-device OCR ceiling.
const LocalOCRMaxBytes = 20 << 20

// OCRWorker is a single-use recognition engine. Implementations hold
// native resources that are freed by Close.
type OCRWorker interface {
	SetLanguage(langs ...string) error
	SetImage(path string) error
	SetImageFromBytes(data []byte) error
	Text() (string, error)
	Close() error
}

// WorkerFactory acquires a fresh OCR worker.
type WorkerFactory func() (OCRWorker, error)

// LocalOCR runs OCR in-process. A worker is acquired for each call and
// released when the call ends, or as soon as recognition returns if the
// call timed out first.
type LocalOCR struct {
	newWorker WorkerFactory
	language  string
}

// NewLocalOCR creates a local OCR extractor. An empty language means "eng".
func NewLocalOCR(factory WorkerFactory, language string) *LocalOCR {
	if language == "" {
		language = "eng"
	}
	return &LocalOCR{newWorker: factory, language: language}
}

func (l *LocalOCR) Name() string { return "tesseract" }

// Offline reports that no network is used.
func (l *LocalOCR) Offline() bool { return true }

// Extract recognizes text from the image.
func (l *LocalOCR) Extract(ctx context.Context, img *Image) (string, error) {
	if img.Size() > LocalOCRMaxBytes {
		return "", tooLarge(l.Name(), img.Size(), LocalOCRMaxBytes)
	}
	if err := ctx.Err(); err != nil {
		return "", l.fail(KindTimeout, "context done before recognition", err)
	}

	worker, err := l.newWorker()
	if err != nil {
		return "", l.fail(KindTransport, "create worker", err)
	}
	release := true
	defer func() {
		if release {
			worker.Close()
		}
	}()

	if err := worker.SetLanguage(l.language); err != nil {
		return "", l.fail(KindTransport, "set language", err)
	}

	if img.Path() != "" {
		err = worker.SetImage(img.Path())
	} else {
		var data []byte
		if data, err = img.Bytes(); err == nil {
			err = worker.SetImageFromBytes(data)
		}
	}
	if err != nil {
		return "", l.fail(KindNoText, "load image", err)
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := worker.Text()
		done <- result{text, err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		// Recognition cannot be interrupted. The worker is closed once it
		// returns so Close never runs during recognition.
		release = false
		go func() {
			<-done
			worker.Close()
		}()
		return "", l.fail(KindTimeout, "recognition timed out", ctx.Err())
	}

	if r.err != nil {
		return "", l.fail(KindNoText, "recognize", r.err)
	}
	if !hasEnoughText(r.text) {
		return "", l.fail(KindNoText, fmt.Sprintf("recognized %d characters", len(strings.TrimSpace(r.text))), nil)
	}
	return strings.TrimSpace(r.text), nil
}

func (l *LocalOCR) fail(kind ErrorKind, msg string, cause error) *ExtractionError {
	return &ExtractionError{Kind: kind, Backend: l.Name(), Message: msg, Cause: cause}
}
