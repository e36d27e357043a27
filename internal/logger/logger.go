// Package logger wraps zap behind a small interface so callers never import
// zap directly, writing to a rotated file sink plus console exactly the way
// the rest of this stack's ambient logging does.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// Logger is the logging surface every collaborator package depends on.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

type logger struct {
	log   *zap.Logger
	sugar *zap.SugaredLogger
}

// New builds a Logger that writes JSON lines to stdout and to a daily
// rolling file under logsDir, filtered at level.
func New(logsDir, level string) Logger {
	currentDate := time.Now().Format("20060102")
	logFileName := filepath.Join(logsDir, fmt.Sprintf("chunkdex-%s.log", currentDate))

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFileName,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
		LocalTime:  true,
	})

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logLevel, exists := logLevelMap[strings.ToLower(level)]
	if !exists {
		logLevel = zapcore.InfoLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(os.Stdout), logLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, logLevel),
	)

	zapLogger := zap.New(core, zap.AddCaller())
	return &logger{log: zapLogger, sugar: zapLogger.Sugar()}
}

func (l *logger) Debug(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *logger) Info(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *logger) Warn(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *logger) Error(format string, args ...any) { l.sugar.Errorf(format, args...) }
func (l *logger) Fatal(format string, args ...any) { l.sugar.Fatalf(format, args...) }

// WithLocation prefixes a message with "file:line:col " the way every
// recoverable-lexical warning out of the pipeline is reported.
func WithLocation(file string, line, col int, format string, args ...any) string {
	return fmt.Sprintf("%s:%d:%d %s", file, line, col, fmt.Sprintf(format, args...))
}
