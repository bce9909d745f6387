package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Init points the default slog logger at a text log file. The terminal
// belongs to the TUI, so nothing is logged to stdout or stderr. The
// returned closer releases the file.
func Init(path string, verbose bool) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	log.SetOutput(file)
	log.SetFlags(log.LstdFlags)

	return file, nil
}

// Discard silences logging, for tests and one-shot commands run without a
// log file.
func Discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
