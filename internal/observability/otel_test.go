package observability

import (
	"context"
	"errors"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc , bad, x=,=y, team=materials ")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "materials" {
		t.Fatalf("unexpected headers: %#v", got)
	}
	if ParseHeaders("  ") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestClampRatio(t *testing.T) {
	if clampRatio(-1) != 0 || clampRatio(2) != 1 || clampRatio(0.25) != 0.25 {
		t.Fatalf("clampRatio out of range")
	}
}

func TestSpanHelpersWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.span")
	if ctx == nil || span == nil {
		t.Fatalf("expected span and context")
	}
	EndSpan(span, errors.New("boom"))
}
