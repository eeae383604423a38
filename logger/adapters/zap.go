package adapters

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Mallinanga/nanga-notifications/logger"
)

// ZapAdapter adapts a zap SugaredLogger to the logger interface
type ZapAdapter struct {
	*AdapterBase
	sugar *zap.SugaredLogger
}

// NewZapAdapter wraps an existing zap SugaredLogger
func NewZapAdapter(sugar *zap.SugaredLogger, level logger.LogLevel) logger.Interface {
	return &ZapAdapter{
		AdapterBase: NewAdapterBase(level),
		sugar:       sugar,
	}
}

// NewZapProduction builds a production zap logger and wraps it. Falls back to
// a no-op zap logger if construction fails, so callers always get a usable
// logger.
func NewZapProduction(level logger.LogLevel) logger.Interface {
	zl, err := zap.NewProduction()
	if err != nil {
		zl = zap.NewNop()
	}
	return NewZapAdapter(zl.Sugar(), level)
}

// NewZapDevelopment builds a development zap logger and wraps it
func NewZapDevelopment(level logger.LogLevel) logger.Interface {
	zl, err := zap.NewDevelopment()
	if err != nil {
		zl = zap.NewNop()
	}
	return NewZapAdapter(zl.Sugar(), level)
}

func (z *ZapAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return &ZapAdapter{
		AdapterBase: NewAdapterBase(level),
		sugar:       z.sugar,
	}
}

func (z *ZapAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if z.ShouldLog(logger.Info) {
		z.sugar.Infof(msg, data...)
	}
}

func (z *ZapAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if z.ShouldLog(logger.Warn) {
		z.sugar.Warnf(msg, data...)
	}
}

func (z *ZapAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if z.ShouldLog(logger.Error) {
		z.sugar.Errorf(msg, data...)
	}
}

func (z *ZapAdapter) Debug(ctx context.Context, msg string, data ...interface{}) {
	if z.ShouldLog(logger.Debug) {
		z.sugar.Debugf(msg, data...)
	}
}

func (z *ZapAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if z.Level() <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	operation, recipients := fc()

	if err != nil && z.ShouldLog(logger.Error) {
		z.sugar.Errorw("dispatch failed",
			"operation", operation,
			"duration_ms", float64(elapsed.Nanoseconds())/1e6,
			"recipients", recipients,
			"error", err.Error())
	} else if z.ShouldLog(logger.Info) {
		z.sugar.Infow("dispatch completed",
			"operation", operation,
			"duration_ms", float64(elapsed.Nanoseconds())/1e6,
			"recipients", recipients)
	}
}
