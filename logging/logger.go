//Package logging provides the structured logging interface used across gorif
//and its zap-backed implementation. Library packages take a Logger in their
//options and default to the no-op logger, so they stay silent unless the
//caller injects one. Only this package imports go.uber.org/zap directly.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//Field is a typed key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

//String constructs a Field with a string value.
func String(key, val string) Field { return Field{Key: key, Value: val} }

//Int constructs a Field with an int value.
func Int(key string, val int) Field { return Field{Key: key, Value: val} }

//Float64 constructs a Field with a float64 value.
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }

//Bool constructs a Field with a bool value.
func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }

//Ints constructs a Field with an int slice value.
func Ints(key string, val []int) Field { return Field{Key: key, Value: val} }

//Duration constructs a Field with a time.Duration value.
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }

//Err constructs a Field that captures an error under the key "error".
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

//Any constructs a Field with an arbitrary value.
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }

//Logger is the structured logging contract.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	//With returns a child Logger that includes fields in every entry.
	With(fields ...Field) Logger

	//Named returns a child Logger with name appended to the parent's name.
	Named(name string) Logger
}

//LogConfig carries the parameters needed to build a Logger.
type LogConfig struct {
	//Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string `mapstructure:"level" yaml:"level"`

	//Format is "json" or "console". Defaults to "console".
	Format string `mapstructure:"format" yaml:"format"`

	//OutputPaths lists files or "stdout"/"stderr". Defaults to ["stderr"].
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths"`
}

type zapLogger struct {
	z *zap.Logger
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case float64:
			out = append(out, zap.Float64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case []int:
			out = append(out, zap.Ints(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(toZapFields(fields)...)}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}

//ParseLevel converts a level name to a zapcore.Level. Unknown names give InfoLevel.
func ParseLevel(s string) zapcore.Level {
	switch s {
	case "debug", "DEBUG":
		return zapcore.DebugLevel
	case "warn", "WARN":
		return zapcore.WarnLevel
	case "error", "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

//ValidLevel returns true if s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	switch s {
	case "debug", "DEBUG", "info", "INFO", "warn", "WARN", "error", "ERROR":
		return true
	}
	return false
}

//NewLogger builds a zap-backed Logger according to cfg.
func NewLogger(cfg LogConfig) (Logger, error) {
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = []string{"stderr"}
	}
	var encCfg zapcore.EncoderConfig
	encoding := "console"
	if cfg.Format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
		encoding = "json"
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}
	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return &zapLogger{z: z}, nil
}

//NewLoggerFromCore builds a Logger from an existing zapcore.Core.
//Tests use it with zaptest/observer.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core, zap.AddCallerSkip(1))}
}

type nopLogger struct{}

func (nopLogger) Debug(_ string, _ ...Field) {}
func (nopLogger) Info(_ string, _ ...Field)  {}
func (nopLogger) Warn(_ string, _ ...Field)  {}
func (nopLogger) Error(_ string, _ ...Field) {}
func (n nopLogger) With(_ ...Field) Logger   { return n }
func (n nopLogger) Named(_ string) Logger    { return n }

//NewNopLogger returns a Logger that discards every entry.
func NewNopLogger() Logger { return nopLogger{} }

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

//SetDefault replaces the process-wide default Logger. nil is ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

//Default returns the process-wide default Logger.
func Default() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	return l
}
