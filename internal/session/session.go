package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/materials-advisor/internal/analysis"
	"github.com/yungbote/materials-advisor/internal/domain"
)

var ErrNotFound = errors.New("session: analysis not found")

const (
	DefaultTTL = time.Hour
	// MaxInputRunes bounds the stored input text.
	MaxInputRunes = 1000
)

// Analysis is one finished analysis kept for the PDF download.
type Analysis struct {
	ID           string          `json:"id"`
	InputText    string          `json:"input_text"`
	Record       analysis.Record `json:"record"`
	OCRExtracted bool            `json:"ocr_extracted"`
	Fallback     bool            `json:"fallback"`
	Language     domain.Language `json:"language"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewAnalysis assigns an id and truncates the input text for storage.
func NewAnalysis(input string, res analysis.Result, ocrExtracted bool, lang domain.Language, now time.Time) *Analysis {
	return &Analysis{
		ID:           uuid.NewString(),
		InputText:    TruncateInput(input),
		Record:       res.Record,
		OCRExtracted: ocrExtracted,
		Fallback:     res.IsFallback(),
		Language:     lang,
		CreatedAt:    now.UTC(),
	}
}

func TruncateInput(s string) string {
	r := []rune(s)
	if len(r) <= MaxInputRunes {
		return s
	}
	return string(r[:MaxInputRunes]) + "..."
}

// Store keeps analyses for a limited time. Get does not remove the entry so
// the report can be downloaded more than once.
type Store interface {
	Put(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, id string) (*Analysis, error)
	Close() error
}
