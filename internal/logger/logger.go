package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

type implLogger struct {
	logger    *log.Logger
	level     string
	component string
}

// New creates a new Logger instance
func New(level string) Logger {
	return &implLogger{
		logger: log.New(os.Stdout, "", log.LstdFlags),
		level:  strings.ToLower(level),
	}
}

func (l *implLogger) With(component string) Logger {
	return &implLogger{
		logger:    l.logger,
		level:     l.level,
		component: component,
	}
}

func (l *implLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
	}

	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) printf(level, msg string, args ...interface{}) {
	tag := "[" + strings.ToUpper(level) + "]"
	if l.component != "" {
		tag += " [" + l.component + "]"
	}
	l.logger.Printf(tag+" "+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("debug") {
		l.printf("debug", msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("info") {
		l.printf("info", msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("warn") {
		l.printf("warn", msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("error") {
		l.printf("error", msg, args...)
	}
}

// Helper to format error messages
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
