package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlemilk/cardiagno/internal/analysis"
	"github.com/castlemilk/cardiagno/internal/archive"
	"github.com/castlemilk/cardiagno/internal/config"
)

func noWorkers() (analysis.OCRWorker, error) {
	return nil, errors.New("no tesseract in tests")
}

func extractorNames(chain []analysis.Extractor) []string {
	names := make([]string, 0, len(chain))
	for _, ex := range chain {
		names = append(names, ex.Name())
	}
	return names
}

func TestBuildExtractors(t *testing.T) {
	t.Run("keyless backends are skipped", func(t *testing.T) {
		cfg := config.Default()
		chain, err := buildExtractors(context.Background(), cfg, noWorkers)
		require.NoError(t, err)
		assert.Equal(t, []string{"pdf-text", "tesseract"}, extractorNames(chain))
	})

	t.Run("configured order is kept", func(t *testing.T) {
		cfg := config.Default()
		cfg.OCR.Chain = []string{config.ExtractorVision, config.ExtractorOCRSpace, config.ExtractorPDFText}
		cfg.OCR.VisionAPIKey = "vision-key"
		cfg.OCR.OCRSpaceAPIKey = "ocr-key"

		chain, err := buildExtractors(context.Background(), cfg, noWorkers)
		require.NoError(t, err)
		assert.Equal(t, []string{"google-vision", "ocr-space", "pdf-text"}, extractorNames(chain))
	})
}

func TestBuildInterpreter(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		model    string
		wantName string
	}{
		{"no key means ocr only", config.ProviderGroq, "", "", ""},
		{"none provider", config.ProviderNone, "key", "", ""},
		{"groq default model", config.ProviderGroq, "key", "", "chat:" + analysis.DefaultChatModel},
		{"openai with model", config.ProviderOpenAI, "key", "gpt-4o-mini", "chat:gpt-4o-mini"},
		{"gemini", config.ProviderGemini, "key", "", "gemini:" + analysis.DefaultGeminiModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Interpreter.Provider = tt.provider
			cfg.Interpreter.APIKey = tt.apiKey
			cfg.Interpreter.Model = tt.model

			interp := buildInterpreter(cfg)
			if tt.wantName == "" {
				assert.Nil(t, interp)
				return
			}
			require.NotNil(t, interp)
			assert.Equal(t, tt.wantName, interp.Name())
		})
	}
}

func TestBuildArchive(t *testing.T) {
	cfg := config.Default()
	arch, closeFn, err := buildArchive(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, arch)
	closeFn()

	cfg.Archive.Backend = config.BackendMemory
	arch, _, err = buildArchive(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &archive.Memory{}, arch)
}
