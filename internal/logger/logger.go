// Package logger builds the application zap logger. Output goes to a file
// in the data directory because the terminal belongs to the interface.
package logger

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/saranya/tutorquest/internal/store"
)

// New creates a logger writing to tutorquest.log in the data directory.
// The production environment uses the JSON encoder; everything else uses
// the console encoder at debug level.
func New(env string) (*zap.Logger, error) {
	dir, err := store.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve log dir: %w", err)
	}
	path := filepath.Join(dir, "tutorquest.log")
	if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	return cfg.Build()
}
