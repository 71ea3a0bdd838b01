package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

var (
	ErrNoFile      = errors.New("upload: no file")
	ErrInvalidType = errors.New("upload: file type not allowed")
	ErrTooLarge    = errors.New("upload: file too large")
)

const (
	DefaultMaxBytes = 16 << 20
	DefaultMaxAge   = time.Hour
	// SniffLen is how many leading bytes Validate needs to detect the content type.
	SniffLen = 512
)

var DefaultExtensions = []string{"png", "jpg", "jpeg"}

// Validator checks an uploaded drawing before it is stored.
type Validator struct {
	AllowedExtensions []string
	MaxBytes          int64
}

func NewValidator(maxBytes int64) Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Validator{AllowedExtensions: DefaultExtensions, MaxBytes: maxBytes}
}

// Validate checks the file name, declared size and leading bytes.
func (v Validator) Validate(name string, size int64, head []byte) error {
	if strings.TrimSpace(name) == "" || size == 0 {
		return ErrNoFile
	}
	if !v.allowedExt(name) {
		return fmt.Errorf("%w: %q", ErrInvalidType, filepath.Ext(name))
	}
	if v.MaxBytes > 0 && size > v.MaxBytes {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	switch ct := http.DetectContentType(head); ct {
	case "image/png", "image/jpeg":
		return nil
	default:
		return fmt.Errorf("%w: content %s", ErrInvalidType, ct)
	}
}

func (v Validator) allowedExt(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	allowed := v.AllowedExtensions
	if len(allowed) == 0 {
		allowed = DefaultExtensions
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName strips directories and anything outside [A-Za-z0-9._-].
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}

// Saver writes uploads into Dir.
type Saver struct {
	Dir string
	log *logger.Logger
}

func NewSaver(log *logger.Logger, dir string) (*Saver, error) {
	if dir == "" {
		return nil, errors.New("upload: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: mkdir %s: %w", dir, err)
	}
	return &Saver{Dir: dir, log: log.With("service", "UploadSaver")}, nil
}

// Save stores r under a uuid-prefixed sanitized name and returns the path.
// The caller removes the file once it is done with it.
func (s *Saver) Save(r io.Reader, name string) (string, error) {
	path := filepath.Join(s.Dir, uuid.NewString()+"_"+SanitizeName(name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("upload: create: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("upload: write: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("upload: close: %w", err)
	}
	return path, nil
}

// Remove deletes a saved upload, logging failures.
func (s *Saver) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("failed to remove upload", "path", path, "error", err)
	}
}

// Sweeper deletes uploads left behind by interrupted requests.
type Sweeper struct {
	Dir    string
	MaxAge time.Duration
	log    *logger.Logger
}

func NewSweeper(log *logger.Logger, dir string, maxAge time.Duration) *Sweeper {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Sweeper{Dir: dir, MaxAge: maxAge, log: log.With("service", "UploadSweeper")}
}

// Sweep removes regular files older than MaxAge relative to now.
func (s *Sweeper) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("upload: read dir: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < s.MaxAge {
			continue
		}
		path := filepath.Join(s.Dir, e.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("sweep remove failed", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Info("swept stale uploads", "removed", removed)
	}
	return removed, nil
}
