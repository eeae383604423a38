// Package adapters provides logger adapters for plugging external logging
// libraries into the notification core.
package adapters

import (
	"context"
	"time"

	"github.com/Mallinanga/nanga-notifications/logger"
)

// AdapterBase provides common level handling for logger adapters
type AdapterBase struct {
	level logger.LogLevel
}

// NewAdapterBase creates a new adapter base
func NewAdapterBase(level logger.LogLevel) *AdapterBase {
	return &AdapterBase{level: level}
}

// ShouldLog checks if the message should be logged at the given level
func (a *AdapterBase) ShouldLog(level logger.LogLevel) bool {
	return a.level >= level
}

// Level returns the current log level
func (a *AdapterBase) Level() logger.LogLevel {
	return a.level
}

// LogFunc defines a function signature for simple logging functions
type LogFunc func(level string, msg string, args ...interface{})

// FuncAdapter adapts a plain function to the logger interface
type FuncAdapter struct {
	*AdapterBase
	logFunc LogFunc
}

// NewFuncAdapter creates a new function adapter
func NewFuncAdapter(logFunc LogFunc, level logger.LogLevel) logger.Interface {
	return &FuncAdapter{
		AdapterBase: NewAdapterBase(level),
		logFunc:     logFunc,
	}
}

func (f *FuncAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return &FuncAdapter{
		AdapterBase: NewAdapterBase(level),
		logFunc:     f.logFunc,
	}
}

func (f *FuncAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if f.ShouldLog(logger.Info) {
		f.logFunc("info", msg, data...)
	}
}

func (f *FuncAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if f.ShouldLog(logger.Warn) {
		f.logFunc("warn", msg, data...)
	}
}

func (f *FuncAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if f.ShouldLog(logger.Error) {
		f.logFunc("error", msg, data...)
	}
}

func (f *FuncAdapter) Debug(ctx context.Context, msg string, data ...interface{}) {
	if f.ShouldLog(logger.Debug) {
		f.logFunc("debug", msg, data...)
	}
}

func (f *FuncAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if f.Level() <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	operation, recipients := fc()

	if err != nil && f.ShouldLog(logger.Error) {
		f.logFunc("error", "Dispatch failed",
			"operation", operation,
			"duration_ms", float64(elapsed.Nanoseconds())/1e6,
			"recipients", recipients,
			"error", err.Error())
	} else if f.ShouldLog(logger.Info) {
		f.logFunc("info", "Dispatch completed",
			"operation", operation,
			"duration_ms", float64(elapsed.Nanoseconds())/1e6,
			"recipients", recipients)
	}
}

// StdLogger interface for Go's standard log package
type StdLogger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
}

// StdLogAdapter adapts the standard log package to the logger interface
type StdLogAdapter struct {
	*AdapterBase
	logger StdLogger
}

// NewStdLogAdapter creates a new standard log adapter
func NewStdLogAdapter(stdLogger StdLogger, level logger.LogLevel) logger.Interface {
	return &StdLogAdapter{
		AdapterBase: NewAdapterBase(level),
		logger:      stdLogger,
	}
}

func (s *StdLogAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return &StdLogAdapter{
		AdapterBase: NewAdapterBase(level),
		logger:      s.logger,
	}
}

func (s *StdLogAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if s.ShouldLog(logger.Info) {
		s.logger.Printf("[INFO] "+msg, data...)
	}
}

func (s *StdLogAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if s.ShouldLog(logger.Warn) {
		s.logger.Printf("[WARN] "+msg, data...)
	}
}

func (s *StdLogAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if s.ShouldLog(logger.Error) {
		s.logger.Printf("[ERROR] "+msg, data...)
	}
}

func (s *StdLogAdapter) Debug(ctx context.Context, msg string, data ...interface{}) {
	if s.ShouldLog(logger.Debug) {
		s.logger.Printf("[DEBUG] "+msg, data...)
	}
}

func (s *StdLogAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if s.Level() <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	operation, recipients := fc()

	if err != nil && s.ShouldLog(logger.Error) {
		s.logger.Printf("[ERROR] Dispatch failed: %s, Duration: %.3fms, Recipients: %d, Error: %v",
			operation, float64(elapsed.Nanoseconds())/1e6, recipients, err)
	} else if s.ShouldLog(logger.Info) {
		s.logger.Printf("[INFO] Dispatch: %s, Duration: %.3fms, Recipients: %d",
			operation, float64(elapsed.Nanoseconds())/1e6, recipients)
	}
}
