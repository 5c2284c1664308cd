package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var sugar = zap.NewNop().Sugar()

// Options controls how Init builds the global logger.
type Options struct {
	Level       string
	File        string
	Development bool
}

// Init replaces the package logger. When File is set, JSON logs are also
// written to a rotated file.
func Init(opts Options) error {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}
	if opts.Development && opts.Level == "" {
		level.SetLevel(zapcore.DebugLevel)
	}

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if !opts.Development {
		consoleEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
	}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			level,
		))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	zap.ReplaceGlobals(l)
	sugar = l.Sugar()
	return nil
}

func Info(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// With returns a structured logger carrying the given key/value pairs.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	// Callers log through the returned logger directly, not a package wrapper.
	return sugar.WithOptions(zap.AddCallerSkip(-1)).With(keysAndValues...)
}

func Sync() {
	_ = sugar.Sync()
}

// LogOrderError records a failed order mutation without failing the request.
func LogOrderError(orderID, action string, err error) {
	Warn("Order log error: action=%s, orderID=%s, error=%v", action, orderID, err)
}
