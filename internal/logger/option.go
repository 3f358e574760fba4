package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelCore filters entries by its own minimum level instead of the wrapped core's.
// It lets a derived logger be quieter or louder than the global one.
type levelCore struct {
	zapcore.Core

	// minimum is the lowest level written.
	minimum zapcore.Level
}

// Enabled implements zapcore.LevelEnabler.
func (c *levelCore) Enabled(level zapcore.Level) bool {
	return c.minimum.Enabled(level)
}

// Check adds the core to ce when the entry passes the minimum level.
//
//nolint:gocritic // AddCore requires entry to be passed by value.
func (c *levelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}

	return ce.AddCore(entry, c)
}

// With keeps the minimum level on the child core.
//
//nolint:ireturn // zapcore.Core is the contract.
func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), minimum: c.minimum}
}

// WithLevel derives loggers that write entries at level and above,
// regardless of the global level. Used for noisy third-party log sinks.
//
//nolint:ireturn // zap.Option is the contract.
func WithLevel(level zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelCore{Core: core, minimum: level}
	})
}
