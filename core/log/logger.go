package log

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger = newLogger(zapcore.Lock(os.Stdout))
)

func newLogger(out zapcore.WriteSyncer) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), out, level)
	return zap.New(core).Sugar()
}

func Info(msg string, args ...any) {
	logger.Infow(msg, args...)
}

func Debug(msg string, args ...any) {
	logger.Debugw(msg, args...)
}

func Warn(msg string, args ...any) {
	logger.Warnw(msg, args...)
}

func Error(msg string, args ...any) {
	logger.Errorw(msg, args...)
}

// SetLevel accepts debug, info, warn or error
func SetLevel(name string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	level.SetLevel(l)
	return nil
}

// SetOutput redirects all subsequent log lines, used by tests to capture output
func SetOutput(out zapcore.WriteSyncer) {
	logger = newLogger(out)
}

func Sync() {
	_ = logger.Sync()
}
