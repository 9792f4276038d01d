package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogsDir is used when no directory is configured
const DefaultLogsDir = "logs"

// Options controls where and how verbosely the scheduler logs
type Options struct {
	// Env prefixes the log file name
	Env string
	// Dir holds the JSON log files. Empty means DefaultLogsDir.
	Dir string
	// Verbose lowers the console level to debug
	Verbose bool
}

// InitLogger initializes a zap logger that writes human readable output to the
// console and JSON to a timestamped file
func InitLogger(opts Options) (*zap.Logger, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultLogsDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.OpenFile(LogFileName(dir, opts.Env, time.Now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	consoleLevel := zapcore.InfoLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder(), zapcore.AddSync(os.Stderr), consoleLevel),
		zapcore.NewCore(fileEncoder(), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// LogFileName builds the file path for a run started at the given time
func LogFileName(dir, env string, started time.Time) string {
	if env == "" {
		env = "default"
	}
	return filepath.Join(dir, fmt.Sprintf("scheduler_%s_%s.log", env, started.Format("2006-01-02_15-04-05")))
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func fileEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}
