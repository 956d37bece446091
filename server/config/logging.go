package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogManager owns the rotating log file
type LogManager struct {
	config *LogConfig
	writer *lumberjack.Logger
}

// NewLogManager creates a new log manager
func NewLogManager(cfg *LogConfig) *LogManager {
	return &LogManager{
		config: cfg,
	}
}

// CleanupLogFile clears the log file before starting logging
func CleanupLogFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return errors.New(ErrLogFileOpenFailed, "failed to open log file for cleanup", err)
	}
	return file.Close()
}

// GetWriter returns a writer that rotates by size, count and age
func (lm *LogManager) GetWriter() (io.Writer, error) {
	if lm.config.FilePath == "" {
		return nil, errors.New(ErrLogFilePathRequired, "no log file path specified", nil)
	}

	logDir := filepath.Dir(lm.config.FilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, errors.New(ErrLogDirectoryCreationFailed, "failed to create log directory", err).AddContext("dir", logDir)
	}

	lm.writer = &lumberjack.Logger{
		Filename:   lm.config.FilePath,
		MaxSize:    lm.config.MaxSize,
		MaxBackups: lm.config.MaxBackups,
		MaxAge:     lm.config.MaxAge,
		Compress:   lm.config.Compress,
	}
	return lm.writer, nil
}

// Close closes the log manager and any open files
func (lm *LogManager) Close() error {
	if lm.writer != nil {
		return lm.writer.Close()
	}
	return nil
}

// SetupLogger creates a configured zerolog logger based on the configuration.
// The returned closer releases the log file and is never nil.
func SetupLogger(cfg *Config) (zerolog.Logger, io.Closer, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer

	if cfg.Log.Console {
		if cfg.Log.Format == "json" {
			writers = append(writers, os.Stdout)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: time.RFC3339,
			})
		}
	}

	logManager := NewLogManager(&cfg.Log)
	if cfg.Log.FilePath != "" {
		if cfg.Log.Cleanup {
			if err := CleanupLogFile(cfg.Log.FilePath); err != nil {
				return zerolog.Logger{}, logManager, errors.New(ErrLogCleanupFailed, "failed to cleanup log file", err)
			}
		}

		fileWriter, err := logManager.GetWriter()
		if err != nil {
			return zerolog.Logger{}, logManager, errors.New(ErrLogFileWriterSetupFailed, "failed to setup file writer", err)
		}
		writers = append(writers, fileWriter)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).With().
		Timestamp().
		Str("component", "mcwire-server").
		Logger()

	return logger, logManager, nil
}
