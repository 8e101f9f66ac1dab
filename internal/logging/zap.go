package logging

import (
	"go.uber.org/zap"

	"github.com/yonashaile/consup/types"
)

// ZapLogger implements types.Logger using zap's SugaredLogger.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// Compile-time assertion that ZapLogger implements Logger.
var _ types.Logger = (*ZapLogger)(nil)

// NewZap creates a new zap-based logger.
//
// Parameters:
//   - logger: The underlying zap.SugaredLogger instance to use
//
// Returns:
//   - *ZapLogger: A new logger instance that wraps the provided SugaredLogger
//
// Example:
//
//	base, _ := zap.NewProduction()
//	logger := NewZap(base.Sugar())
//	logger.Info("controller started", "connection", "orders")
func NewZap(logger *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

// Info logs an info-level message with optional key-value pairs.
func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Infow(msg, keysAndValues...)
}

// Warn logs a warning-level message with optional key-value pairs.
func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warnw(msg, keysAndValues...)
}

// Error logs an error-level message with optional key-value pairs.
func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, keysAndValues...)
}
