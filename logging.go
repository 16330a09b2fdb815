package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// newLogger writes diagnostics to redline.log under the config dir. The TUI
// owns the terminal, so nothing is logged to stdout unless debug mode routes
// a console writer to stderr.
func newLogger(dir, level string, debug bool) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	if debug {
		parsed = zerolog.DebugLevel
	}

	var writers []io.Writer
	_ = ensureDir(dir)
	file, err := os.OpenFile(filepath.Join(dir, "redline.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		writers = append(writers, file)
	}
	if debug {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parsed).
		With().
		Timestamp().
		Logger()
}
