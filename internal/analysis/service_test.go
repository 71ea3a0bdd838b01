package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/platform/llm"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

type fakeCompleter struct {
	calls int
	last  llm.Request
	out   string
	err   error
	wait  bool
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.calls++
	f.last = req
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.out, f.err
}

func newTestService(t *testing.T, c llm.Completer, opts Options) *Service {
	t.Helper()
	s, err := NewService(logger.Nop(), c, opts)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func TestAnalyzeStructured(t *testing.T) {
	fc := &fakeCompleter{out: "```json\n{\"material_selection\":{\"primary_choice\":\"40X\"}}\n```"}
	s := newTestService(t, fc, Options{})

	res, err := s.Analyze(context.Background(), "  shaft, 600 MPa  ", domain.LanguageEN)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Kind != Structured {
		t.Fatalf("kind=%v", res.Kind)
	}
	if fc.calls != 1 {
		t.Fatalf("calls=%d", fc.calls)
	}
	if fc.last.Temperature != 0.3 || fc.last.MaxTokens != 4000 {
		t.Fatalf("request options: %+v", fc.last)
	}
	if !strings.Contains(fc.last.User, "shaft, 600 MPa") || !strings.Contains(fc.last.User, `"testing_methods"`) {
		t.Fatalf("user prompt missing input or schema")
	}
	if !strings.Contains(fc.last.System, `"product_assessment"`) {
		t.Fatalf("system prompt missing schema")
	}
}

func TestAnalyzeRussianPrompt(t *testing.T) {
	fc := &fakeCompleter{out: "не JSON"}
	s := newTestService(t, fc, Options{})
	res, err := s.Analyze(context.Background(), "вал", domain.LanguageRU)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Kind != Fallback {
		t.Fatalf("kind=%v", res.Kind)
	}
	if !strings.Contains(fc.last.User, "ИСХОДНЫЕ ДАННЫЕ") || !strings.Contains(fc.last.System, "русском") {
		t.Fatalf("expected russian prompts")
	}
}

func TestAnalyzeEmptyInputSkipsModel(t *testing.T) {
	fc := &fakeCompleter{}
	s := newTestService(t, fc, Options{})
	if _, err := s.Analyze(context.Background(), " \n\t", domain.LanguageEN); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got=%v", err)
	}
	if fc.calls != 0 {
		t.Fatalf("model must not be called, calls=%d", fc.calls)
	}
}

func TestAnalyzeUpstreamFailureNoRetry(t *testing.T) {
	upstream := errors.New("status=503")
	fc := &fakeCompleter{err: upstream}
	s := newTestService(t, fc, Options{})
	_, err := s.Analyze(context.Background(), "bracket", domain.LanguageEN)
	if !errors.Is(err, ErrAnalysisFailed) || !errors.Is(err, upstream) {
		t.Fatalf("expected wrapped failure, got=%v", err)
	}
	if fc.calls != 1 {
		t.Fatalf("expected a single attempt, calls=%d", fc.calls)
	}
}

func TestAnalyzeEmptyCompletionFails(t *testing.T) {
	s := newTestService(t, &fakeCompleter{out: "   "}, Options{})
	if _, err := s.Analyze(context.Background(), "bracket", domain.LanguageEN); !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got=%v", err)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	s := newTestService(t, &fakeCompleter{wait: true}, Options{Timeout: 10 * time.Millisecond})
	_, err := s.Analyze(context.Background(), "bracket", domain.LanguageEN)
	if !errors.Is(err, ErrAnalysisFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout failure, got=%v", err)
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(nil, &fakeCompleter{}, Options{}); err == nil {
		t.Fatalf("expected logger error")
	}
	if _, err := NewService(logger.Nop(), nil, Options{}); err == nil {
		t.Fatalf("expected completer error")
	}
}
