// internal/logging/sampling.go
package logging

import (
	"go.uber.org/zap/zapcore"
)

// withSampling caps log volume below error level. Error and above always
// pass through untouched.
func withSampling(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}

	severe := &bandCore{Core: core, min: zapcore.ErrorLevel}
	routine := zapcore.NewSamplerWithOptions(
		&bandCore{Core: core, max: zapcore.WarnLevel},
		cfg.Tick,
		cfg.Initial,
		cfg.Thereafter,
	)
	return zapcore.NewTee(severe, routine)
}

// bandCore restricts a core to a band of levels. A zero bound leaves
// that side open.
type bandCore struct {
	zapcore.Core
	min zapcore.Level
	max zapcore.Level
}

func (c *bandCore) Enabled(lvl zapcore.Level) bool {
	if c.min != 0 && lvl < c.min {
		return false
	}
	if c.max != 0 && lvl > c.max {
		return false
	}
	return c.Core.Enabled(lvl)
}

func (c *bandCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

// With keeps the band on child cores, otherwise zap would route field
// additions around the filter.
func (c *bandCore) With(fields []zapcore.Field) zapcore.Core {
	return &bandCore{Core: c.Core.With(fields), min: c.min, max: c.max}
}
