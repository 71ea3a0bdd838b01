package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/yungbote/materials-advisor/internal/platform/ctxutil"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

type Config struct {
	// BinaryPath defaults to "tesseract" resolved through PATH.
	BinaryPath string
	Languages  string
	OEM        int
	PSM        int
	Timeout    time.Duration
}

// Engine runs the tesseract CLI with the image on stdin and reads text from stdout.
type Engine struct {
	log     *logger.Logger
	bin     string
	args    []string
	timeout time.Duration
}

func New(log *logger.Logger, cfg Config) (*Engine, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BinaryPath) == "" {
		cfg.BinaryPath = "tesseract"
	}
	if strings.TrimSpace(cfg.Languages) == "" {
		cfg.Languages = "rus+eng"
	}
	if cfg.OEM < 0 || cfg.OEM > 3 {
		cfg.OEM = 3
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Engine{
		log:     log.With("service", "tesseract.Engine"),
		bin:     cfg.BinaryPath,
		args:    buildArgs(cfg),
		timeout: cfg.Timeout,
	}, nil
}

func buildArgs(cfg Config) []string {
	return []string{
		"stdin", "stdout",
		"-l", cfg.Languages,
		"--oem", fmt.Sprint(cfg.OEM),
		"--psm", fmt.Sprint(cfg.PSM),
	}
}

func (e *Engine) Name() string { return "tesseract" }

// AssertReady checks that the binary can be found.
func (e *Engine) AssertReady() error {
	if _, err := exec.LookPath(e.bin); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", e.bin, err)
	}
	return nil
}

func (e *Engine) ExtractText(ctx context.Context, img []byte, mimeType string) (string, error) {
	if len(img) == 0 {
		return "", nil
	}
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.bin, e.args...)
	cmd.Stdin = bytes.NewReader(img)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if s := strings.TrimSpace(stderr.String()); s != "" {
			return "", fmt.Errorf("tesseract: %w; stderr=%s", err, s)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return stdout.String(), nil
}
