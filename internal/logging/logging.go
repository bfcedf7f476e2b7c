// Package logging configures the zerolog logger used by the CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel overrides the configured log level when set.
const EnvLevel = "LLMFILES_LOG_LEVEL"

// Level resolves the effective level: the environment wins over configured,
// and anything unparsable falls back to info.
func Level(configured string) zerolog.Level {
	name := configured
	if env := os.Getenv(EnvLevel); env != "" {
		name = env
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

// New returns a console logger writing to w. Logs go to stderr in the CLI so
// that extracted content on stdout stays clean.
func New(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    !IsTerminal(w),
	}
	return zerolog.New(out).
		Level(Level(level)).
		With().
		Timestamp().
		Logger()
}

// IsTerminal reports whether w is a character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
