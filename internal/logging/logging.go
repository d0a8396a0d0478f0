package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much the process logs.
//
// The terminal belongs to the TUI, so logs always go to a rotating file.
type Options struct {
	Path  string
	Debug bool
}

// Setup returns a logger writing to a rotating file and a closer for that file.
// An empty path discards all output.
func Setup(opts Options) (zerolog.Logger, io.Closer) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return zerolog.Nop(), nopCloser{}
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return New(file, opts.Debug), file
}

// New builds the logger used across the app on top of w.
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if debug {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:     w,
			NoColor: true,
			FormatTimestamp: func(i any) string {
				return time.Now().Format(time.RFC3339)
			},
		}).With().Caller().Logger()
	}
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
