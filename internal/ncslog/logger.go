// Package ncslog provides the logging system shared by every NCS process
// (plant, controller, simulator), with support for level filtering and
// optional dual console/file output.
package ncslog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level represents the severity of a log message.
type Level int

const (
	// Debug is for detailed information, typically only valuable while debugging.
	Debug Level = iota
	// Info is for general operational information.
	Info
	// Error is for error events that might still allow the process to continue.
	Error
	// None disables all logging.
	None
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a level-filtered logger with optional console and file sinks.
type Logger struct {
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	consoleLevel  Level
	fileLevel     Level
	file          *os.File
}

// New creates a Logger writing to os.Stdout at consoleLevel. If filePath is
// non-empty, a second sink is opened at fileLevel.
func New(consoleLevel Level, filePath string, fileLevel Level) (*Logger, error) {
	l := &Logger{
		consoleLogger: log.New(os.Stdout, "", log.LstdFlags),
		consoleLevel:  consoleLevel,
		fileLevel:     fileLevel,
	}

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file %q: %w", filePath, err)
		}
		l.file = f
		l.fileLogger = log.New(f, "", log.LstdFlags)
	} else {
		l.fileLevel = None
	}

	return l, nil
}

// Default returns a console-only logger at Info level, used where the caller
// did not supply one (mirrors the zero-value-friendly pattern of log.Default).
func Default() *Logger {
	l, _ := New(Info, "", None)
	return l
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.log(Debug, format, v...) }

// Infof logs an info message.
func (l *Logger) Infof(format string, v ...interface{}) { l.log(Info, format, v...) }

// Errorf logs an error message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.log(Error, format, v...) }

// Fatalf logs an error message and exits the process with status 1.
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.log(Error, format, v...)
	os.Exit(1)
}

func (l *Logger) log(level Level, format string, v ...interface{}) {
	message := fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, v...))

	if l.consoleLogger != nil && level >= l.consoleLevel {
		l.consoleLogger.Println(message)
	}
	if l.fileLogger != nil && level >= l.fileLevel {
		l.fileLogger.Println(message)
	}
}

// Writer returns an io.Writer fanning out to both configured sinks, for
// interop with libraries that want a plain io.Writer (e.g. a custom
// net.Conn diagnostics dump).
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return io.MultiWriter(os.Stdout, l.file)
	}
	return os.Stdout
}
