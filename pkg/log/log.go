// Package log defines the leveled logging interface consumed by the
// rpc client and a colored console implementation of it.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	debugTag = color.New(color.FgCyan, color.Bold).Sprint("DEBUG")
	infoTag  = color.New(color.FgGreen, color.Bold).Sprint("INFO ")
	warnTag  = color.New(color.FgYellow, color.Bold).Sprint("WARN ")
	errorTag = color.New(color.FgRed, color.Bold).Sprint("ERROR")
)

// ConsoleLogger writes timestamped, level-tagged lines to a writer.
type ConsoleLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

func NewConsoleLogger(level Level) *ConsoleLogger {
	return &ConsoleLogger{
		out:   os.Stderr,
		level: level,
	}
}

// NewConsoleLoggerWithWriter directs output somewhere other than stderr.
func NewConsoleLoggerWithWriter(level Level, out io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		out:   out,
		level: level,
	}
}

func (l *ConsoleLogger) Debug(msg string) {
	l.log(LevelDebug, debugTag, msg)
}

func (l *ConsoleLogger) Info(msg string) {
	l.log(LevelInfo, infoTag, msg)
}

func (l *ConsoleLogger) Warn(msg string) {
	l.log(LevelWarn, warnTag, msg)
}

func (l *ConsoleLogger) Error(msg string) {
	l.log(LevelError, errorTag, msg)
}

func (l *ConsoleLogger) log(level Level, tag string, msg string) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s %s\n", time.Now().Format(time.RFC3339), tag, msg)
}
