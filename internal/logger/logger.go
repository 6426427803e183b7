package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/config"
)

// New returns a JSON logger in production and a console logger otherwise.
// cfg.Log.Level overrides the default level; cfg.Log.File redirects output.
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zapCfg.Level = level
	}
	if cfg.Log.File != "" {
		zapCfg.OutputPaths = []string{cfg.Log.File}
		zapCfg.ErrorOutputPaths = []string{cfg.Log.File}
	}

	return zapCfg.Build()
}
