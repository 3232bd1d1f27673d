package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nimburion/catalog-api/pkg/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel is a configured verbosity name.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// LogFormat selects the entry encoding.
type LogFormat string

const (
	JSONFormat LogFormat = "json"
	TextFormat LogFormat = "text"
)

var zapLevels = map[LogLevel]zapcore.Level{
	DebugLevel: zapcore.DebugLevel,
	InfoLevel:  zapcore.InfoLevel,
	WarnLevel:  zapcore.WarnLevel,
	ErrorLevel: zapcore.ErrorLevel,
}

var levelAliases = map[string]LogLevel{
	"debug":   DebugLevel,
	"info":    InfoLevel,
	"warn":    WarnLevel,
	"warning": WarnLevel,
	"error":   ErrorLevel,
}

var formatAliases = map[string]LogFormat{
	"json":    JSONFormat,
	"text":    TextFormat,
	"console": TextFormat,
}

// Config drives NewZapLogger. A nil Output writes to stdout.
type Config struct {
	Level  LogLevel
	Format LogFormat
	Output io.Writer
}

// ZapLogger adapts a zap SugaredLogger to Logger.
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a logger from cfg. Levels it does not know log at info.
func NewZapLogger(cfg Config) (*ZapLogger, error) {
	level, ok := zapLevels[cfg.Level]
	if !ok {
		level = zapcore.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.AddSync(out), zap.NewAtomicLevelAt(level))
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &ZapLogger{base: base, sugar: base.Sugar()}, nil
}

func newEncoder(format LogFormat) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.MessageKey = "message"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == TextFormat {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func (l *ZapLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *ZapLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *ZapLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *ZapLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

func (l *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{base: l.base, sugar: l.sugar.With(args...)}
}

func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	id, _ := ctx.Value(middleware.RequestIDKey).(string)
	if id == "" {
		return l
	}
	return l.With("request_id", id)
}

// Sync flushes buffered entries; call it before the process exits.
func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}

// ParseLogLevel accepts debug, info, warn (or warning) and error, in any case.
func ParseLogLevel(level string) (LogLevel, error) {
	if lv, ok := levelAliases[strings.ToLower(strings.TrimSpace(level))]; ok {
		return lv, nil
	}
	return "", fmt.Errorf("invalid log level: %s", level)
}

// ParseLogFormat accepts json, text and console (an alias of text).
func ParseLogFormat(format string) (LogFormat, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(format))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("invalid log format: %s", format)
}
