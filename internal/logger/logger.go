package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a sugared zap logger
type Logger struct {
	*zap.SugaredLogger
}

// New builds a logger named after the service, configured for env
// ("development", "debug" or "production").
func New(serviceName, env string) (*Logger, error) {
	cfg, withCaller := buildConfig(env)

	z, err := cfg.Build(zap.WithCaller(withCaller))
	if err != nil {
		return nil, fmt.Errorf("cannot init zap logger: %w", err)
	}
	return &Logger{SugaredLogger: z.Named(serviceName).Sugar()}, nil
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func buildConfig(env string) (zap.Config, bool) {
	var cfg zap.Config
	withCaller := false

	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "debug":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		withCaller = true
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.DisableStacktrace = !withCaller

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "msg"
	if withCaller {
		cfg.EncoderConfig.CallerKey = "caller"
	} else {
		cfg.EncoderConfig.CallerKey = zapcore.OmitKey
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	return cfg, withCaller
}

// With returns a child logger carrying the given key/value pairs
func (l *Logger) With(args ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// SafeSync flushes buffered entries, ignoring errors from non-syncable
// outputs such as terminals.
func (l *Logger) SafeSync() {
	if l == nil {
		return
	}
	if err := l.Sync(); err != nil {
		s := strings.ToLower(err.Error())
		if !strings.Contains(s, "invalid argument") && !strings.Contains(s, "inappropriate ioctl for device") {
			l.Errorf("log sync error: %v", err)
		}
	}
}
