// Package logging wraps zap for the daemon and the real capability drivers.
// The connection manager core does not log through this package — its
// diagnostic output goes through the offline log buffer instead.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop().Sugar()

// LogLevelEnvVar controls logging verbosity when no level is passed to
// Initialize. When unset or empty, logging is silent.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "CONNMAN_LOG_LEVEL"

// Initialize creates the process logger with the specified level.
// If level is empty, it checks CONNMAN_LOG_LEVEL. If neither is set,
// logging stays disabled (nop logger).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop().Sugar()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info rather than rejecting the flag
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	logger = built.Sugar()
	return nil
}

// InitializeFromEnv initializes the logger from CONNMAN_LOG_LEVEL alone.
func InitializeFromEnv() error {
	return Initialize("")
}

// Debug logs at debug level with alternating key/value context.
func Debug(msg string, kv ...interface{}) {
	logger.Debugw(msg, kv...)
}

// Info logs at info level with alternating key/value context.
func Info(msg string, kv ...interface{}) {
	logger.Infow(msg, kv...)
}

// Warn logs at warn level with alternating key/value context.
func Warn(msg string, kv ...interface{}) {
	logger.Warnw(msg, kv...)
}

// Error logs at error level with alternating key/value context.
func Error(msg string, kv ...interface{}) {
	logger.Errorw(msg, kv...)
}

// Sync flushes buffered log entries. Safe to call on the nop logger.
func Sync() {
	_ = logger.Sync()
}
