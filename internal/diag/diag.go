// Package diag renders diagnostics for the terminal.
package diag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/LegacyCodeHQ/maat/depgraph"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// FileKey is the log attribute naming the file a diagnostic refers to.
const FileKey = "file"

var (
	bold         = color.New(color.Bold)
	errorLabel   = color.New(color.Bold, color.FgRed)
	warningLabel = color.New(color.Bold, color.FgYellow)
	noteLabel    = color.New(color.Bold, color.FgHiBlue)
	debugLabel   = color.New(color.Faint)
)

// SetColor forces colored output on or off.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Handler is a slog.Handler printing records as compiler-style diagnostics:
//
//	main.f: note: file is already included in module (include=b.f module=main)
type Handler struct {
	mu    *sync.Mutex
	out   io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

// NewHandler returns a Handler writing records at or above level to out.
func NewHandler(out io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{mu: &sync.Mutex{}, out: out, level: level}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var file string
	var details []string

	collect := func(a slog.Attr) bool {
		if a.Key == FileKey {
			file = a.Value.String()
			return true
		}
		details = append(details, fmt.Sprintf("%s=%s", a.Key, a.Value.String()))
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	record.Attrs(collect)

	var sb strings.Builder
	if file != "" {
		sb.WriteString(bold.Sprint(file + ": "))
	}
	sb.WriteString(levelLabel(record.Level))
	sb.WriteString(bold.Sprint(": " + record.Message))
	if len(details) > 0 {
		sb.WriteString(" (" + strings.Join(details, " ") + ")")
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *Handler) WithGroup(_ string) slog.Handler {
	return h
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return errorLabel.Sprint("error")
	case level >= slog.LevelWarn:
		return warningLabel.Sprint("warning")
	case level >= slog.LevelInfo:
		return noteLabel.Sprint("note")
	default:
		return debugLabel.Sprint("debug")
	}
}

// PrintError writes err as an error diagnostic, naming the offending file when known.
func PrintError(out io.Writer, err error) {
	var resolveErr *depgraph.Error
	if errors.As(err, &resolveErr) && resolveErr.File != "" {
		fmt.Fprintf(out, "%s%s%s\n",
			bold.Sprint(resolveErr.File+": "),
			errorLabel.Sprint("error"),
			bold.Sprint(": "+resolveErr.Message))
		return
	}
	fmt.Fprintf(out, "%s%s\n", errorLabel.Sprint("error"), bold.Sprint(": "+err.Error()))
}

// NewLogger returns a logger printing diagnostics to out.
// Debug records are included when verbose is set.
func NewLogger(out io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewHandler(out, level))
}

// LoggerFor returns a diagnostics logger writing to the command's error stream,
// honoring the persistent --verbose and --no-color flags when they are defined.
func LoggerFor(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if noColor, err := cmd.Flags().GetBool("no-color"); err == nil && noColor {
		SetColor(false)
	}
	return NewLogger(cmd.ErrOrStderr(), verbose)
}
