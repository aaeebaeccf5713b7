package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
)

const (
	// MinTextChars is the number of non-whitespace characters extracted
	// text needs before it is worth interpreting.
	MinTextChars = 10

	// DefaultStageTimeout bounds each backend call.
	DefaultStageTimeout = 30 * time.Second
)

// Extractor turns an image into plain text. Failures are *ExtractionError.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, img *Image) (string, error)
}

// Interpreter turns report text into raw model output. Failures are
// *InterpretationError.
type Interpreter interface {
	Name() string
	Interpret(ctx context.Context, text string) (string, error)
}

// ImageInterpreter can also read the report image directly.
type ImageInterpreter interface {
	Interpreter
	InterpretImage(ctx context.Context, img *Image) (string, error)
}

// offline is implemented by extractors that never touch the network.
type offline interface {
	Offline() bool
}

// Options configures a Pipeline.
type Options struct {
	// Extractors are tried in order until one yields usable text.
	Extractors []Extractor
	// Interpreter may be nil, in which case only offline extractors run
	// and results are OCR-only.
	Interpreter Interpreter
	// VisionFallback sends the raw image to the interpreter when every
	// extractor fails. Requires an ImageInterpreter.
	VisionFallback bool
	Fallback       *FallbackGenerator
	StageTimeout   time.Duration
	Logger         *slog.Logger
}

// Pipeline analyzes report images. It is safe for concurrent use.
type Pipeline struct {
	extractors     []Extractor
	interpreter    Interpreter
	visionFallback bool
	fallback       *FallbackGenerator
	stageTimeout   time.Duration
	log            *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(opts Options) *Pipeline {
	p := &Pipeline{
		extractors:     append([]Extractor(nil), opts.Extractors...),
		interpreter:    opts.Interpreter,
		visionFallback: opts.VisionFallback,
		fallback:       opts.Fallback,
		stageTimeout:   opts.StageTimeout,
		log:            opts.Logger,
	}
	if p.fallback == nil {
		p.fallback = NewFallbackGenerator(nil)
	}
	if p.stageTimeout <= 0 {
		p.stageTimeout = DefaultStageTimeout
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p
}

// Analyze produces an Analysis for img. Backend failures never surface:
// they fall through to the next backend and finally to simulated data.
// The only errors returned wrap ErrFileTooLarge or, if even the
// simulated fallback fails, ErrAnalysisFailed.
func (p *Pipeline) Analyze(ctx context.Context, img *Image) (result *Analysis, err error) {
	if img == nil {
		return nil, errors.New("analyze: image is required")
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("analysis stage panicked, using simulated result", "panic", r)
			result, err = p.simulated()
		}
	}()

	if p.interpreter == nil {
		return p.analyzeOCROnly(ctx, img)
	}

	text, source, err := p.extract(ctx, img, p.extractors)
	if err != nil {
		return nil, err
	}

	if text == "" {
		if a, ok := p.interpretImage(ctx, img); ok {
			return a, nil
		}
		p.log.Warn("no text extracted, using simulated result", "image", img.Name())
		return p.simulated()
	}

	raw, err := p.interpret(ctx, text)
	if err != nil {
		p.log.Warn("interpretation failed, using simulated result",
			"interpreter", p.interpreter.Name(), "kind", kindOf(err), "error", err)
		a, serr := p.simulated()
		if serr != nil {
			return nil, serr
		}
		a.ExtractedText = text
		a.AnalysisMethod = source + " + " + simulatedMethod
		a.KeyMetrics = append(a.KeyMetrics, KeyMetric{
			Name:   "Interpretation Status",
			Value:  "Unavailable",
			Status: StatusAbnormal,
		})
		return a, nil
	}

	a := Normalize(raw)
	a.ExtractedText = text
	a.AnalysisMethod = source + " + " + p.interpreter.Name()
	return &a, nil
}

// extract runs the chain in order. It returns "" with a nil error when
// every backend failed, and an error only for oversized input.
func (p *Pipeline) extract(ctx context.Context, img *Image, chain []Extractor) (string, string, error) {
	for _, ex := range chain {
		start := time.Now()
		text, err := p.runExtractor(ctx, ex, img)
		if err == nil && !hasEnoughText(text) {
			err = &ExtractionError{Kind: KindNoText, Backend: ex.Name(), Message: "extracted text below threshold"}
		}
		if err != nil {
			if errors.Is(err, ErrFileTooLarge) {
				p.log.Warn("image rejected as too large", "backend", ex.Name(), "size", img.Size())
				return "", "", fmt.Errorf("extract with %s: %w", ex.Name(), err)
			}
			p.log.Info("extraction backend failed",
				"backend", ex.Name(), "kind", kindOf(err), "duration", time.Since(start), "error", err)
			continue
		}
		p.log.Info("text extracted",
			"backend", ex.Name(), "chars", len(text), "duration", time.Since(start))
		return text, ex.Name(), nil
	}
	return "", "", nil
}

func (p *Pipeline) runExtractor(ctx context.Context, ex Extractor, img *Image) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	return ex.Extract(ctx, img)
}

func (p *Pipeline) interpret(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	start := time.Now()
	raw, err := p.interpreter.Interpret(ctx, text)
	if err == nil {
		p.log.Info("report interpreted",
			"interpreter", p.interpreter.Name(), "duration", time.Since(start))
	}
	return raw, err
}

func (p *Pipeline) interpretImage(ctx context.Context, img *Image) (*Analysis, bool) {
	if !p.visionFallback {
		return nil, false
	}
	vi, ok := p.interpreter.(ImageInterpreter)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	raw, err := vi.InterpretImage(ctx, img)
	if err != nil {
		p.log.Warn("image interpretation failed",
			"interpreter", vi.Name(), "kind", kindOf(err), "error", err)
		return nil, false
	}
	a := Normalize(raw)
	a.AnalysisMethod = vi.Name() + " (vision)"
	return &a, true
}

// analyzeOCROnly handles the no-interpreter configuration.
func (p *Pipeline) analyzeOCROnly(ctx context.Context, img *Image) (*Analysis, error) {
	var chain []Extractor
	for _, ex := range p.extractors {
		if o, ok := ex.(offline); ok && o.Offline() {
			chain = append(chain, ex)
		}
	}

	text, source, err := p.extract(ctx, img, chain)
	if err != nil {
		return nil, err
	}
	if text == "" {
		p.log.Warn("no text extracted offline, using simulated result", "image", img.Name())
		return p.simulated()
	}

	a := newAnalysis()
	a.Summary = "Successfully extracted text from medical report image. Manual review recommended for detailed analysis."
	a.KeyMetrics = []KeyMetric{
		{Name: "OCR Status", Value: "Text extracted successfully", Status: StatusNormal},
		{Name: "Text Length", Value: fmt.Sprintf("%d characters", len([]rune(text))), Status: StatusNormal},
		{Name: "Analysis Method", Value: source, Status: StatusNormal},
	}
	a.RiskFactors = []string{
		"Automated analysis unavailable",
		"Manual review of extracted text required",
	}
	a.Recommendations = []string{
		"Review the extracted text below for specific values",
		"Compare values with normal medical ranges",
		"Consult healthcare provider for interpretation",
		"Ask specific questions about values in the chat",
	}
	a.ExtractedText = text
	a.AnalysisMethod = source + " (OCR only)"
	return &a, nil
}

func (p *Pipeline) simulated() (result *Analysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("simulated fallback panicked", "panic", r)
			result, err = nil, ErrAnalysisFailed
		}
	}()
	a := p.fallback.Generate()
	return &a, nil
}

// hasEnoughText reports whether s holds at least MinTextChars
// non-whitespace characters.
func hasEnoughText(s string) bool {
	n := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		n++
		if n >= MinTextChars {
			return true
		}
	}
	return false
}

// Describe lists the configured chain, for startup logging.
func (p *Pipeline) Describe() string {
	names := make([]string, 0, len(p.extractors))
	for _, ex := range p.extractors {
		names = append(names, ex.Name())
	}
	interp := "none"
	if p.interpreter != nil {
		interp = p.interpreter.Name()
	}
	return fmt.Sprintf("extractors=[%s] interpreter=%s", strings.Join(names, ", "), interp)
}
