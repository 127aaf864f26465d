// Package console provides the human-readable progress output of a run.
// Messages are styled with lipgloss; the renderer is bound to the output
// writer so pipes and test buffers receive plain text.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Level controls how much output the Logger produces
type Level int

const (
	// LevelQuiet prints warnings, errors and the final summary only
	LevelQuiet Level = iota
	// LevelNormal adds per-item progress
	LevelNormal
	// LevelVerbose adds debug details
	LevelVerbose
)

// Logger writes styled progress messages
type Logger struct {
	out   io.Writer
	err   io.Writer
	level Level

	header  lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	accent  lipgloss.Style
	muted   lipgloss.Style
	plain   lipgloss.Style
}

// New creates a logger writing regular output to out and errors to errOut
func New(out, errOut io.Writer, level Level) *Logger {
	r := lipgloss.NewRenderer(out)
	return &Logger{
		out:     out,
		err:     errOut,
		level:   level,
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		accent:  r.NewStyle().Foreground(lipgloss.Color("12")),
		muted:   r.NewStyle().Faint(true),
		plain:   r.NewStyle(),
	}
}

// Default returns a logger on stdout/stderr
func Default(level Level) *Logger {
	return New(os.Stdout, os.Stderr, level)
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New(io.Discard, io.Discard, LevelQuiet)
}

// Level returns the configured verbosity
func (l *Logger) Level() Level {
	return l.level
}

// Header prints a section title
func (l *Logger) Header(format string, args ...any) {
	l.print(LevelQuiet, l.out, l.header, "=== "+format+" ===", args...)
}

// Info prints a plain progress message
func (l *Logger) Info(format string, args ...any) {
	l.print(LevelNormal, l.out, l.plain, format, args...)
}

// Success prints a confirmation
func (l *Logger) Success(format string, args ...any) {
	l.print(LevelQuiet, l.out, l.success, "✅ "+format, args...)
}

// Warn prints a degraded-but-continuing condition
func (l *Logger) Warn(format string, args ...any) {
	l.print(LevelQuiet, l.out, l.warn, "⚠️  "+format, args...)
}

// Error prints a failure to the error writer
func (l *Logger) Error(format string, args ...any) {
	l.print(LevelQuiet, l.err, l.fail, "❌ "+format, args...)
}

// Debug prints details shown only in verbose mode
func (l *Logger) Debug(format string, args ...any) {
	l.print(LevelVerbose, l.out, l.muted, "  "+format, args...)
}

// Field prints a label followed by an accented value
func (l *Logger) Field(label, value string) {
	fmt.Fprintf(l.out, "%s %s\n", label, l.accent.Render(value))
}

// Progress prints one per-item line in the form "[i/n] icon word"
func (l *Logger) Progress(index, total int, icon, word string) {
	if l.level < LevelNormal {
		return
	}
	fmt.Fprintf(l.out, "   [%d/%d] %s %s\n", index, total, icon, word)
}

func (l *Logger) print(min Level, w io.Writer, style lipgloss.Style, format string, args ...any) {
	if l.level < min {
		return
	}
	fmt.Fprintln(w, style.Render(fmt.Sprintf(format, args...)))
}
