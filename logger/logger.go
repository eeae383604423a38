package logger

import (
	"context"
	"fmt"
	"log"
	"time"
)

const prefix = "nanga-notifications"

// defaultLogger implements Interface on top of a Writer
type defaultLogger struct {
	Writer
	Config
	infoStr, warnStr, errStr, debugStr  string
	traceStr, traceWarnStr, traceErrStr string
}

// New creates a new logger instance writing to the given Writer
func New(writer Writer, config Config) Interface {
	var (
		infoStr      = "%s [info] "
		warnStr      = "%s [warn] "
		errStr       = "%s [error] "
		debugStr     = "%s [debug] "
		traceStr     = "%s [%.3fms] [recipients:%v] %s"
		traceWarnStr = "%s %s [%.3fms] [recipients:%v] %s"
		traceErrStr  = "%s %s [%.3fms] [recipients:%v] %s"
	)

	if config.Colorful {
		infoStr = Green + "%s " + Reset + Green + "[info] " + Reset
		warnStr = Blue + "%s " + Reset + Magenta + "[warn] " + Reset
		errStr = Magenta + "%s " + Reset + Red + "[error] " + Reset
		debugStr = White + "%s " + Reset + Blue + "[debug] " + Reset
		traceStr = Green + "%s " + Reset + Yellow + "[%.3fms] " + Blue + "[recipients:%v]" + Reset + " %s"
		traceWarnStr = Green + "%s " + Yellow + "%s " + Reset + RedBold + "[%.3fms] " + Yellow + "[recipients:%v]" + Magenta + " %s" + Reset
		traceErrStr = RedBold + "%s " + Magenta + "%s " + Reset + Yellow + "[%.3fms] " + Blue + "[recipients:%v]" + Reset + " %s"
	}

	return &defaultLogger{
		Writer:       writer,
		Config:       config,
		infoStr:      infoStr,
		warnStr:      warnStr,
		errStr:       errStr,
		debugStr:     debugStr,
		traceStr:     traceStr,
		traceWarnStr: traceWarnStr,
		traceErrStr:  traceErrStr,
	}
}

// LogMode creates a new logger with the specified log level
func (l *defaultLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *defaultLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.Printf(l.infoStr+msg, append([]interface{}{prefix}, data...)...)
	}
}

func (l *defaultLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.Printf(l.warnStr+msg, append([]interface{}{prefix}, data...)...)
	}
}

func (l *defaultLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.Printf(l.errStr+msg, append([]interface{}{prefix}, data...)...)
	}
}

func (l *defaultLogger) Debug(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Debug {
		l.Printf(l.debugStr+msg, append([]interface{}{prefix}, data...)...)
	}
}

// Trace logs a dispatch operation with its duration and recipient count
func (l *defaultLogger) Trace(ctx context.Context, begin time.Time, fc func() (operation string, recipients int64), err error) {
	if l.LogLevel <= Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.LogLevel >= Error:
		operation, recipients := fc()
		l.Printf(l.traceErrStr, prefix, err, float64(elapsed.Nanoseconds())/1e6, recipientCount(recipients), operation)
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.LogLevel >= Warn:
		operation, recipients := fc()
		slowLog := fmt.Sprintf("SLOW DISPATCH >= %v", l.SlowThreshold)
		l.Printf(l.traceWarnStr, prefix, slowLog, float64(elapsed.Nanoseconds())/1e6, recipientCount(recipients), operation)
	case l.LogLevel >= Info:
		operation, recipients := fc()
		l.Printf(l.traceStr, prefix, float64(elapsed.Nanoseconds())/1e6, recipientCount(recipients), operation)
	}
}

// recipientCount renders -1 as unknown
func recipientCount(n int64) interface{} {
	if n == -1 {
		return "-"
	}
	return n
}

// NewStdLogger creates a logger that outputs through Go's standard log package
func NewStdLogger(level LogLevel) Interface {
	return New(stdWriter{}, Config{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	})
}

// stdWriter wraps Go's standard log package
type stdWriter struct{}

func (stdWriter) Printf(msg string, data ...interface{}) {
	log.Printf(msg, data...)
}
