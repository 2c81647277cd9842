package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewFilePathDebugLogger builds a debug-level console logger that tees
// everything to the file at fn as well as stdout/stderr. The viewserver's
// -logFile flag uses it to keep a capture of a serving session; it is a
// debugging aid, not a logger for production use.
func NewFilePathDebugLogger(fn, name string) (*zap.SugaredLogger, error) {
	logger, err := zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.DebugLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{fn, "stdout"},
		ErrorOutputPaths:  []string{fn, "stderr"},
	}.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar().Named(name), nil
}
