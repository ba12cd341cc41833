package app

import (
	"fmt"
	"log/slog"

	"github.com/heartmarshall/a1-lessons/internal/config"
)

// Bootstrap loads configuration from path (see config.LoadFrom) and
// initializes the default logger from it.
func Bootstrap(path string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, nil, err
	}

	logger := NewLogger(cfg.Log)
	logger.Debug("configuration loaded",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("content_dir", contentLabel(cfg.Content.Dir)),
	)

	return cfg, logger, nil
}

func contentLabel(dir string) string {
	if dir == "" {
		return "embedded"
	}
	return fmt.Sprintf("dir:%s", dir)
}
