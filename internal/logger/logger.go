package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the player's base logger at the configured level using
// production encoding. An invalid level is a configuration error surfaced to
// the caller, not silently downgraded
func NewLogger(level string) (*zap.Logger, error) {
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = parsed

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return zapLogger, nil
}

// NewComponentLogger derives a named child logger for one player component
// (session, loader, clock, view) so every line carries its origin
func NewComponentLogger(base *zap.Logger, component string) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(component)
}
