package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// defaultZapLevel defines the fallback log level when an unknown level string is provided.
const defaultZapLevel = zapcore.DebugLevel

// toZapLevel converts a textual level to zapcore.Level using known level constants.
func toZapLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return defaultZapLevel
	}
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder

	if format == FormatJSON {
		cfg.TimeKey = "ts"
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.TimeKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// newCore builds a zapcore.Core writing to ws with the requested encoding.
func newCore(opts Options, ws zapcore.WriteSyncer) zapcore.Core {
	return zapcore.NewCore(newEncoder(opts.Format), ws, zap.NewAtomicLevelAt(toZapLevel(opts.Level)))
}

// New constructs a sugared zap logger writing to stdout.
func New(opts Options) *Logger {
	return newWithSyncer(opts, zapcore.Lock(os.Stdout))
}

func newWithSyncer(opts Options, ws zapcore.WriteSyncer) *Logger {
	return &Logger{
		SugaredLogger: zap.New(newCore(opts, ws)).Sugar(),
	}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
