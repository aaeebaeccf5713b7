// Package tesseract provides the native OCR worker used by local extraction.
// It requires cgo and the Tesseract libraries at build time.
package tesseract

import (
	"github.com/otiai10/gosseract/v2"

	"github.com/castlemilk/cardiagno/internal/analysis"
)

// Worker wraps a gosseract client.
type Worker struct {
	client *gosseract.Client
}

// NewWorker allocates a Tesseract client. It satisfies analysis.WorkerFactory.
func NewWorker() (analysis.OCRWorker, error) {
	return &Worker{client: gosseract.NewClient()}, nil
}

func (w *Worker) SetLanguage(langs ...string) error {
	return w.client.SetLanguage(langs...)
}

func (w *Worker) SetImage(path string) error {
	return w.client.SetImage(path)
}

func (w *Worker) SetImageFromBytes(data []byte) error {
	return w.client.SetImageFromBytes(data)
}

func (w *Worker) Text() (string, error) {
	return w.client.Text()
}

func (w *Worker) Close() error {
	return w.client.Close()
}
