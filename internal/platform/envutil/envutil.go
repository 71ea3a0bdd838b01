package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

// Env reads typed values from the environment. Values that are set but do
// not parse are reported on the logger before the default is used.
type Env struct {
	log *logger.Logger
}

// New returns an Env that warns on log. A nil log stays silent.
func New(log *logger.Logger) *Env {
	return &Env{log: log}
}

func lookup(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func (e *Env) invalid(name, raw string, def any, err error) {
	if e.log == nil {
		return
	}
	e.log.Warn("Environment variable could not be parsed, using default",
		"env_var", name, "provided", raw, "default", def, "error", err)
}

func (e *Env) String(name string, def string) string {
	if v := lookup(name); v != "" {
		return v
	}
	return def
}

// FirstString returns the first non-empty variable among names.
func (e *Env) FirstString(def string, names ...string) string {
	for _, name := range names {
		if v := lookup(name); v != "" {
			return v
		}
	}
	return def
}

func (e *Env) Int(name string, def int) int {
	v := lookup(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.invalid(name, v, def, err)
		return def
	}
	return i
}

func (e *Env) Float(name string, def float64) float64 {
	v := lookup(name)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.invalid(name, v, def, err)
		return def
	}
	return f
}

func (e *Env) Bool(name string, def bool) bool {
	v := lookup(name)
	switch strings.ToLower(v) {
	case "":
		return def
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		e.invalid(name, v, def, strconv.ErrSyntax)
		return def
	}
}

// Duration accepts either a Go duration string ("90s", "1h") or a bare
// integer number of seconds. Non-positive values fall back to def.
func (e *Env) Duration(name string, def time.Duration) time.Duration {
	v := lookup(name)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		if d <= 0 {
			e.invalid(name, v, def, strconv.ErrRange)
			return def
		}
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.invalid(name, v, def, err)
		return def
	}
	if n <= 0 {
		e.invalid(name, v, def, strconv.ErrRange)
		return def
	}
	return time.Duration(n) * time.Second
}
