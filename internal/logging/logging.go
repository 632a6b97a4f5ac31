package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/getcook-dev/cook/internal/config"
)

// ANSI color codes used for verbose-mode terminal output.
const (
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"

	// ttyTimeFormat matches the charmbracelet/log format used for debug output.
	ttyTimeFormat = "15:04:05 01/02/2006"
)

// Logger writes timestamped lines to a log file and optionally to the terminal.
type Logger struct {
	mu   sync.Mutex
	w    io.Writer // file writer (always plain text)
	tty  io.Writer // terminal writer (nil in file-only mode)
	file *os.File
}

type option struct{ fileOnly bool }

// Option configures Logger behaviour.
type Option func(*option)

// FileOnly suppresses stderr output; only the log file is written.
func FileOnly() Option { return func(o *option) { o.fileOnly = true } }

// Discard returns a logger that writes nowhere. Used by tests and callers
// that do not want a run log file.
func Discard() *Logger {
	return &Logger{w: io.Discard}
}

func New(cookbookName, runID string, opts ...Option) (*Logger, error) {
	var cfg option
	for _, o := range opts {
		o(&cfg)
	}

	ts := time.Now().Format("20060102-150405")
	rid := runID
	if len(rid) > 8 {
		rid = rid[:8]
	}
	filename := fmt.Sprintf("%s-%s-%s.log", cookbookName, rid, ts)
	path := filepath.Join(config.LogDir, filename)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}

	l := &Logger{
		w:    f,
		file: f,
	}
	if !cfg.fileOnly {
		l.tty = os.Stderr
	}

	return l, nil
}

func (l *Logger) Log(format string, args ...any) {
	now := time.Now()
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	_, _ = fmt.Fprintf(l.w, "[%s] %s\n", now.UTC().Format(time.RFC3339), msg)
	if l.tty != nil {
		_, _ = fmt.Fprintf(l.tty, "%s[%s]%s %s\n",
			ansiDim, now.Format(ttyTimeFormat), ansiReset, msg)
	}
	l.mu.Unlock()
}

// Recipe returns a RecipeLogger scoped to the given recipe name.
func (l *Logger) Recipe(name string) *RecipeLogger {
	return &RecipeLogger{l: l, name: name}
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// RecipeLogger writes lines prefixed with the recipe name.
type RecipeLogger struct {
	l    *Logger
	name string
}

// Log writes a timestamped, recipe-scoped line.
func (r *RecipeLogger) Log(format string, args ...any) {
	now := time.Now()
	msg := fmt.Sprintf(format, args...)
	r.l.mu.Lock()
	_, _ = fmt.Fprintf(r.l.w, "[%s] [%s] %s\n", now.UTC().Format(time.RFC3339), r.name, msg)
	if r.l.tty != nil {
		_, _ = fmt.Fprintf(r.l.tty, "%s[%s]%s %s[%s]%s %s\n",
			ansiDim, now.Format(ttyTimeFormat), ansiReset, ansiCyan, r.name, ansiReset, msg)
	}
	r.l.mu.Unlock()
}

// Exit writes an "exit N" line for a finished task or worker.
func (r *RecipeLogger) Exit(status int) {
	now := time.Now()
	r.l.mu.Lock()
	_, _ = fmt.Fprintf(r.l.w, "[%s] [%s] exit %d\n", now.UTC().Format(time.RFC3339), r.name, status)
	if r.l.tty != nil {
		exitColor := ansiGreen
		if status != 0 {
			exitColor = ansiRed
		}
		_, _ = fmt.Fprintf(r.l.tty, "%s[%s]%s %s[%s]%s %sexit %d%s\n",
			ansiDim, now.Format(ttyTimeFormat), ansiReset, ansiCyan, r.name, ansiReset, exitColor, status, ansiReset)
	}
	r.l.mu.Unlock()
}

// Writer returns an io.Writer that routes each line through Log.
func (r *RecipeLogger) Writer() io.Writer {
	return &recipeWriter{rl: r}
}

// recipeWriter implements io.Writer, splitting input into lines routed through RecipeLogger.Log.
type recipeWriter struct {
	rl *RecipeLogger
}

func (w *recipeWriter) Write(p []byte) (int, error) {
	s := strings.TrimRight(string(p), "\n")
	if s != "" {
		for _, line := range strings.Split(s, "\n") {
			w.rl.Log("%s", line)
		}
	}
	return len(p), nil
}
