package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// New returns a JSON logger that writes to stdout only.
func New() *Logger {
	return newLogger(zapcore.AddSync(os.Stdout))
}

// NewWithFile tees log output to stdout and a size-rotated file at path.
// An empty path behaves like New.
func NewWithFile(path string) *Logger {
	if path == "" {
		return New()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		l := New()
		l.Warn("Failed to create log directory for %s: %v (logging to stdout only)", path, err)
		return l
	}

	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	})
	return newLogger(zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), file))
}

func newLogger(out zapcore.WriteSyncer) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.MessageKey = "msg"
	encoderCfg.LevelKey = "level"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), out, zap.DebugLevel)
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &Logger{
		base:  base,
		sugar: base.Sugar(),
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// With returns a child logger that attaches the given key/value pairs to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	sugar := l.sugar.With(keysAndValues...)
	return &Logger{
		base:  sugar.Desugar(),
		sugar: sugar,
	}
}

// Zap exposes the structured logger for libraries that want a *zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.base.WithOptions(zap.AddCallerSkip(-1))
}

func (l *Logger) Sync() error {
	return l.base.Sync()
}
