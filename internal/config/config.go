// Package config loads service configuration from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by Load when the file does not exist.
// LoadOrDefault treats it as "use defaults".
var ErrConfigNotFound = errors.New("config file not found")

// Extractor names accepted in OCR.Chain.
const (
	ExtractorPDFText   = "pdf-text"
	ExtractorOCRSpace  = "ocr-space"
	ExtractorVision    = "google-vision"
	ExtractorTesseract = "tesseract"
)

// Interpreter providers.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Store and archive backends.
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendGCS       = "gcs"
	BackendMinIO     = "minio"
	BackendNone      = "none"
)

// Duration decodes YAML strings such as "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config is the full service configuration.
type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`

	OCR struct {
		Chain          []string `yaml:"chain"`
		OCRSpaceAPIKey string   `yaml:"ocrSpaceApiKey"`
		OCRSpaceURL    string   `yaml:"ocrSpaceUrl"`
		VisionAPIKey   string   `yaml:"visionApiKey"`
		Language       string   `yaml:"language"`
	} `yaml:"ocr"`

	Interpreter struct {
		Provider       string `yaml:"provider"`
		APIKey         string `yaml:"apiKey"`
		BaseURL        string `yaml:"baseUrl"`
		Model          string `yaml:"model"`
		VisionModel    string `yaml:"visionModel"`
		VisionFallback bool   `yaml:"visionFallback"`
		Retries        int    `yaml:"retries"`
	} `yaml:"interpreter"`

	Pipeline struct {
		StageTimeout Duration `yaml:"stageTimeout"`
	} `yaml:"pipeline"`

	Store struct {
		Backend   string `yaml:"backend"`
		ProjectID string `yaml:"projectId"`
	} `yaml:"store"`

	Archive struct {
		Backend   string `yaml:"backend"`
		Bucket    string `yaml:"bucket"`
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
		Region    string `yaml:"region"`
		UseSSL    bool   `yaml:"useSSL"`
	} `yaml:"archive"`

	Auth struct {
		Skip bool `yaml:"skip"`
		// CredentialsFile is a service account key. Empty uses the
		// ambient credentials (Cloud Run metadata server).
		CredentialsFile string `yaml:"credentialsFile"`
	} `yaml:"auth"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8111
	cfg.Server.CORSOrigins = []string{
		"http://localhost:1234",
		"http://localhost:3000",
		"http://localhost:8081",
	}
	cfg.OCR.Chain = []string{ExtractorPDFText, ExtractorOCRSpace, ExtractorTesseract}
	cfg.OCR.Language = "eng"
	cfg.Interpreter.Provider = ProviderGroq
	cfg.Interpreter.Retries = 1
	cfg.Pipeline.StageTimeout = Duration(30 * time.Second)
	cfg.Store.Backend = BackendMemory
	cfg.Archive.Backend = BackendNone
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault is Load, falling back to defaults plus environment when
// the file is missing.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrConfigNotFound) {
		cfg = Default()
		if err := cfg.applyEnv(os.Getenv); err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}
	return cfg, err
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	setString(&c.OCR.OCRSpaceAPIKey, getenv("OCR_SPACE_API_KEY"))
	setString(&c.OCR.VisionAPIKey, getenv("GOOGLE_VISION_API_KEY"))

	// GEMINI_API_KEY only applies when gemini is the provider.
	setString(&c.Interpreter.Provider, getenv("INTERPRETER_PROVIDER"))
	setString(&c.Interpreter.APIKey, getenv("GROQ_API_KEY"))
	if c.Interpreter.Provider == ProviderGemini {
		setString(&c.Interpreter.APIKey, getenv("GEMINI_API_KEY"))
	}
	setString(&c.Interpreter.APIKey, getenv("INTERPRETER_API_KEY"))

	if getenv("USE_MEMORY_STORE") == "true" {
		c.Store.Backend = BackendMemory
	}
	if v := getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		c.Store.ProjectID = v
		if getenv("USE_MEMORY_STORE") != "true" {
			c.Store.Backend = BackendFirestore
		}
	}
	if getenv("SKIP_AUTH") == "true" {
		c.Auth.Skip = true
	}
	setString(&c.Auth.CredentialsFile, getenv("FIREBASE_SERVICE_ACCOUNT_KEY"))
	setString(&c.Auth.CredentialsFile, getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	if v := getenv("ARCHIVE_BUCKET"); v != "" {
		c.Archive.Bucket = v
		if c.Archive.Backend == BackendNone {
			c.Archive.Backend = BackendGCS
		}
	}
	setString(&c.Archive.AccessKey, getenv("ARCHIVE_ACCESS_KEY"))
	setString(&c.Archive.SecretKey, getenv("ARCHIVE_SECRET_KEY"))
	setString(&c.Log.Level, getenv("LOG_LEVEL"))
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate reports configuration that cannot start the service.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	for _, name := range c.OCR.Chain {
		switch name {
		case ExtractorPDFText, ExtractorOCRSpace, ExtractorVision, ExtractorTesseract:
		default:
			return fmt.Errorf("unknown extractor %q in ocr.chain", name)
		}
	}
	switch c.Interpreter.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini, ProviderNone, "":
	default:
		return fmt.Errorf("unknown interpreter provider %q", c.Interpreter.Provider)
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFirestore:
		if c.Store.ProjectID == "" {
			return errors.New("store.projectId is required for firestore")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Archive.Backend {
	case BackendNone, BackendMemory:
	case BackendGCS:
		if c.Archive.Bucket == "" {
			return errors.New("archive.bucket is required for gcs")
		}
	case BackendMinIO:
		if c.Archive.Bucket == "" || c.Archive.Endpoint == "" {
			return errors.New("archive.bucket and archive.endpoint are required for minio")
		}
	default:
		return fmt.Errorf("unknown archive backend %q", c.Archive.Backend)
	}
	if c.Pipeline.StageTimeout < 0 {
		return errors.New("pipeline.stageTimeout must not be negative")
	}
	return nil
}

// StageTimeout returns the per-stage timeout as a time.Duration.
func (c *Config) StageTimeout() time.Duration {
	return time.Duration(c.Pipeline.StageTimeout)
}

// InterpreterEnabled reports whether an LLM interpreter is configured.
func (c *Config) InterpreterEnabled() bool {
	p := strings.ToLower(c.Interpreter.Provider)
	return p != "" && p != ProviderNone && c.Interpreter.APIKey != ""
}
