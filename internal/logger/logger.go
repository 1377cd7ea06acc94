package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Release mode gets JSON production output,
// anything else gets the human-readable development encoder.
func New(ginMode string) (*zap.Logger, error) {
	var cfg zap.Config
	if ginMode == "release" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
