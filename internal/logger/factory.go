package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Default creates a new default charm log on stderr that respects the global log level
func Default(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, false, log.TextFormatter)
}

// ToFile creates a logfmt logger appending to path, for surfaces that own
// the terminal. The returned closer releases the file.
func ToFile(path, prefix string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWithConfig(f, prefix, log.GetLevel(), true, true, log.LogfmtFormatter), f, nil
}
