package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadOrDefault_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{ExtractorPDFText, ExtractorOCRSpace, ExtractorTesseract}, cfg.OCR.Chain)
	assert.Equal(t, 30*time.Second, cfg.StageTimeout())
}

func TestLoad_File(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("ARCHIVE_BUCKET", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("INTERPRETER_PROVIDER", "")
	path := writeConfig(t, `
server:
  port: 9000
ocr:
  chain: [ocr-space, google-vision]
  language: deu
interpreter:
  provider: gemini
  apiKey: from-file
  visionFallback: true
pipeline:
  stageTimeout: 5s
archive:
  backend: minio
  bucket: reports
  endpoint: localhost:9000
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{ExtractorOCRSpace, ExtractorVision}, cfg.OCR.Chain)
	assert.Equal(t, "deu", cfg.OCR.Language)
	assert.Equal(t, ProviderGemini, cfg.Interpreter.Provider)
	assert.True(t, cfg.Interpreter.VisionFallback)
	assert.Equal(t, 5*time.Second, cfg.StageTimeout())
	assert.Equal(t, BackendMinIO, cfg.Archive.Backend)
	// untouched defaults survive
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "pipeline:\n  stageTimeout: soon\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "secrets and port",
			env: map[string]string{
				"PORT":                  "8080",
				"OCR_SPACE_API_KEY":     "ocr",
				"GOOGLE_VISION_API_KEY": "vision",
				"GROQ_API_KEY":          "groq",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "ocr", cfg.OCR.OCRSpaceAPIKey)
				assert.Equal(t, "vision", cfg.OCR.VisionAPIKey)
				assert.Equal(t, "groq", cfg.Interpreter.APIKey)
				assert.True(t, cfg.InterpreterEnabled())
			},
		},
		{
			name: "gemini key only for gemini provider",
			env:  map[string]string{"INTERPRETER_PROVIDER": "gemini", "GEMINI_API_KEY": "gem", "GROQ_API_KEY": "groq"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "gem", cfg.Interpreter.APIKey)
			},
		},
		{
			name: "generic key wins",
			env:  map[string]string{"GROQ_API_KEY": "groq", "INTERPRETER_API_KEY": "generic"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "generic", cfg.Interpreter.APIKey)
			},
		},
		{
			name: "project selects firestore",
			env:  map[string]string{"GOOGLE_CLOUD_PROJECT": "proj"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendFirestore, cfg.Store.Backend)
				assert.Equal(t, "proj", cfg.Store.ProjectID)
			},
		},
		{
			name: "memory store overrides project",
			env:  map[string]string{"GOOGLE_CLOUD_PROJECT": "proj", "USE_MEMORY_STORE": "true"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendMemory, cfg.Store.Backend)
			},
		},
		{
			name: "bucket enables gcs archive",
			env:  map[string]string{"ARCHIVE_BUCKET": "reports", "SKIP_AUTH": "true", "LOG_LEVEL": "debug"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendGCS, cfg.Archive.Backend)
				assert.Equal(t, "reports", cfg.Archive.Bucket)
				assert.True(t, cfg.Auth.Skip)
				assert.Equal(t, "debug", cfg.Log.Level)
			},
		},
		{
			name: "application credentials take precedence",
			env: map[string]string{
				"GOOGLE_APPLICATION_CREDENTIALS": "/secrets/adc.json",
				"FIREBASE_SERVICE_ACCOUNT_KEY":   "/secrets/firebase.json",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/secrets/adc.json", cfg.Auth.CredentialsFile)
			},
		},
		{
			name: "no key disables interpreter",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.InterpreterEnabled())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.applyEnv(envMap(tt.env)))
			require.NoError(t, cfg.Validate())
			tt.check(t, cfg)
		})
	}
}

func TestApplyEnv_BadPort(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.applyEnv(envMap(map[string]string{"PORT": "http"})))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown extractor", func(c *Config) { c.OCR.Chain = []string{"magic"} }, "unknown extractor"},
		{"unknown provider", func(c *Config) { c.Interpreter.Provider = "bard" }, "unknown interpreter provider"},
		{"firestore without project", func(c *Config) { c.Store.Backend = BackendFirestore }, "projectId"},
		{"gcs without bucket", func(c *Config) { c.Archive.Backend = BackendGCS }, "archive.bucket"},
		{"minio without endpoint", func(c *Config) { c.Archive.Backend = BackendMinIO; c.Archive.Bucket = "b" }, "archive.endpoint"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
