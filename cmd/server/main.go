package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	gcsstorage "cloud.google.com/go/storage"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/castlemilk/cardiagno/internal/analysis"
	"github.com/castlemilk/cardiagno/internal/analysis/tesseract"
	"github.com/castlemilk/cardiagno/internal/archive"
	"github.com/castlemilk/cardiagno/internal/auth"
	"github.com/castlemilk/cardiagno/internal/config"
	logpkg "github.com/castlemilk/cardiagno/internal/log"
	"github.com/castlemilk/cardiagno/internal/service"
	"github.com/castlemilk/cardiagno/internal/store"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logpkg.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractors, err := buildExtractors(ctx, cfg, tesseract.NewWorker)
	if err != nil {
		return err
	}
	pipeline := analysis.NewPipeline(analysis.Options{
		Extractors:     extractors,
		Interpreter:    buildInterpreter(cfg),
		VisionFallback: cfg.Interpreter.VisionFallback,
		StageTimeout:   cfg.StageTimeout(),
		Logger:         logger,
	})
	logger.Info("analysis pipeline ready", "chain", pipeline.Describe())

	var storeImpl store.Store
	switch cfg.Store.Backend {
	case config.BackendFirestore:
		client, err := firestore.NewClient(ctx, cfg.Store.ProjectID)
		if err != nil {
			return fmt.Errorf("create firestore client: %w", err)
		}
		defer client.Close()
		storeImpl = store.NewFirestoreStore(client)
		logger.Info("using firestore store", "project", cfg.Store.ProjectID)
	default:
		storeImpl = store.NewMemoryStore()
		logger.Info("using in-memory store for local development")
	}

	arch, closeArchive, err := buildArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeArchive()

	// Debug impersonation runs last so it can replace the local dev user.
	var authn []func(http.Handler) http.Handler
	if cfg.Auth.Skip || cfg.Store.Backend == config.BackendMemory {
		logger.Warn("authentication disabled, using local dev user")
		authn = append(authn, auth.LocalDevMiddleware())
	} else {
		firebaseAuth, err := auth.NewFirebaseAuth(ctx, auth.FirebaseConfig{
			ProjectID:       cfg.Store.ProjectID,
			CredentialsFile: cfg.Auth.CredentialsFile,
		})
		if err != nil {
			return fmt.Errorf("initialize firebase auth: %w", err)
		}
		authn = append(authn, auth.Middleware(firebaseAuth, logger))
	}
	authn = append(authn, auth.DebugImpersonation(cfg.Auth.Skip))

	svc := service.NewService(pipeline, storeImpl, arch, logger)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
			auth.DebugImpersonateHeader,
		},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(c.Handler(svc.Routes(authn...)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildExtractors creates the extraction chain in configured order.
// Backends without credentials are skipped.
func buildExtractors(ctx context.Context, cfg *config.Config, workers analysis.WorkerFactory) ([]analysis.Extractor, error) {
	var chain []analysis.Extractor
	for _, name := range cfg.OCR.Chain {
		switch name {
		case config.ExtractorPDFText:
			chain = append(chain, analysis.NewPDFTextExtractor())
		case config.ExtractorOCRSpace:
			if cfg.OCR.OCRSpaceAPIKey == "" {
				slog.Warn("skipping extractor without api key", "backend", name)
				continue
			}
			chain = append(chain, analysis.NewOCRSpaceClient(cfg.OCR.OCRSpaceAPIKey, cfg.OCR.OCRSpaceURL))
		case config.ExtractorVision:
			if cfg.OCR.VisionAPIKey == "" {
				slog.Warn("skipping extractor without api key", "backend", name)
				continue
			}
			vision, err := analysis.NewVisionClient(ctx, cfg.OCR.VisionAPIKey)
			if err != nil {
				return nil, fmt.Errorf("create vision client: %w", err)
			}
			chain = append(chain, vision)
		case config.ExtractorTesseract:
			chain = append(chain, analysis.NewLocalOCR(workers, cfg.OCR.Language))
		}
	}
	return chain, nil
}

// buildInterpreter returns nil when no provider key is configured, which
// puts the pipeline in OCR-only mode.
func buildInterpreter(cfg *config.Config) analysis.Interpreter {
	if !cfg.InterpreterEnabled() {
		return nil
	}
	retry := analysis.DefaultInterpreterRetryConfig
	retry.MaxRetries = cfg.Interpreter.Retries

	switch cfg.Interpreter.Provider {
	case config.ProviderGemini:
		return analysis.NewGeminiInterpreter(analysis.GeminiConfig{
			APIKey:  cfg.Interpreter.APIKey,
			BaseURL: cfg.Interpreter.BaseURL,
			Model:   cfg.Interpreter.Model,
			Retry:   &retry,
		})
	case config.ProviderOpenAI:
		baseURL := cfg.Interpreter.BaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		return analysis.NewChatInterpreter(analysis.ChatConfig{
			APIKey:      cfg.Interpreter.APIKey,
			BaseURL:     baseURL,
			Model:       cfg.Interpreter.Model,
			VisionModel: cfg.Interpreter.VisionModel,
			Retry:       &retry,
		})
	default:
		return analysis.NewChatInterpreter(analysis.ChatConfig{
			APIKey:      cfg.Interpreter.APIKey,
			BaseURL:     cfg.Interpreter.BaseURL,
			Model:       cfg.Interpreter.Model,
			VisionModel: cfg.Interpreter.VisionModel,
			Retry:       &retry,
		})
	}
}

// buildArchive returns a nil Archive when image archiving is disabled.
func buildArchive(ctx context.Context, cfg *config.Config) (archive.Archive, func(), error) {
	noop := func() {}
	switch cfg.Archive.Backend {
	case config.BackendGCS:
		client, err := gcsstorage.NewClient(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("create storage client: %w", err)
		}
		return archive.NewGCS(client.Bucket(cfg.Archive.Bucket)), func() { client.Close() }, nil
	case config.BackendMinIO:
		m, err := archive.NewMinIO(ctx, archive.MinIOConfig{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			Bucket:    cfg.Archive.Bucket,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			return nil, noop, err
		}
		return m, noop, nil
	case config.BackendMemory:
		return archive.NewMemory(), noop, nil
	default:
		return nil, noop, nil
	}
}
