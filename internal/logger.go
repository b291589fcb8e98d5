package internal

import (
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Logger is a slog logger that tags every record with the kind and name
// of the component that emitted it.
type Logger struct {
	*slog.Logger

	kind string
	name string
}

// NewLogger returns a logger writing colored output to the terminal.
func NewLogger(kind, name string) *Logger {
	var handler slog.Handler

	if runtime.GOOS == "windows" {
		w := colorable.NewColorableStdout()
		handler = tint.NewHandler(w, nil)
	} else {
		w := os.Stderr
		handler = tint.NewHandler(w, &tint.Options{
			NoColor: !isatty.IsTerminal(w.Fd()),
		})
	}

	return NewLoggerWithHandler(kind, name, handler)
}

// NewWriterLogger returns a logger writing uncolored output to w.
func NewWriterLogger(kind, name string, w io.Writer) *Logger {
	return NewLoggerWithHandler(kind, name, tint.NewHandler(w, &tint.Options{NoColor: true}))
}

func NewLoggerWithHandler(kind, name string, handler slog.Handler) *Logger {
	return &Logger{
		Logger: slog.New(handler),

		kind: kind,
		name: name,
	}
}

func (l *Logger) getInfo() slog.Attr {
	return slog.Group("info", slog.String("kind", l.kind), slog.String("name", l.name))
}

func (l *Logger) getArgs(args ...any) []any {
	return append([]any{l.getInfo()}, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.Logger.Debug(msg, l.getArgs(args...)...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.Logger.Info(msg, l.getArgs(args...)...)
}

func (l *Logger) Error(msg string, err error, args ...any) {
	tmpArgs := append([]any{tint.Err(err)}, args...)
	l.Logger.Error(msg, l.getArgs(tmpArgs...)...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.Logger.Warn(msg, l.getArgs(args...)...)
}
