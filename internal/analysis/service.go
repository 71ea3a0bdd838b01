package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/observability"
	"github.com/yungbote/materials-advisor/internal/platform/llm"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

var (
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrEmptyInput     = errors.New("no text available for analysis")
)

type Options struct {
	Temperature float64
	MaxTokens   int
	// Timeout bounds the single model call.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Temperature <= 0 {
		o.Temperature = 0.3
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 4000
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	return o
}

type Service struct {
	log       *logger.Logger
	completer llm.Completer
	opts      Options
}

func NewService(log *logger.Logger, completer llm.Completer, opts Options) (*Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if completer == nil {
		return nil, fmt.Errorf("completer required")
	}
	return &Service{
		log:       log.With("service", "AnalysisService"),
		completer: completer,
		opts:      opts.withDefaults(),
	}, nil
}

// Analyze asks the model once for a six-section analysis of text.
// Model failures wrap ErrAnalysisFailed; a successful call always yields a Result.
func (s *Service) Analyze(ctx context.Context, text string, lang domain.Language) (res Result, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptyInput
	}
	lang = domain.ParseLanguage(string(lang))

	ctx, span := observability.StartSpan(ctx, "analysis.Analyze",
		attribute.String("language", string(lang)),
		attribute.Int("input_runes", len([]rune(text))),
	)
	defer func() {
		if err == nil {
			span.SetAttributes(attribute.String("result_kind", res.Kind.String()))
		}
		observability.EndSpan(span, err)
	}()

	system, user, err := BuildPrompts(text, lang)
	if err != nil {
		return Result{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	started := time.Now()
	raw, err := s.completer.Complete(callCtx, llm.Request{
		System:      system,
		User:        user,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		s.log.Error("model call failed", "language", lang, "duration_ms", time.Since(started).Milliseconds(), "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	if strings.TrimSpace(raw) == "" {
		s.log.Error("model returned empty completion", "language", lang)
		return Result{}, fmt.Errorf("%w: empty completion", ErrAnalysisFailed)
	}

	res = Normalize(raw, lang)
	if res.IsFallback() {
		s.log.Warn("model output was not valid JSON, using fallback record", "language", lang, "raw_response", raw)
	} else {
		s.log.Info("analysis complete", "language", lang, "duration_ms", time.Since(started).Milliseconds())
	}
	return res, nil
}
