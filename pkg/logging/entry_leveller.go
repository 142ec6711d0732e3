package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// EntryLeveller is a zapcore.Core that filters log entries based on the logger name, similar to Log4j or python's
// logging module. A level configured for `golang` applies to `golang`, `golang.query` and so on, unless a longer
// name is configured too. The empty module name sets the level of every other logger.
type EntryLeveller struct {
	zapcore.Core

	levels map[string]zapcore.Level
	// resolved caches the level found for each logger name seen so far
	resolved *sync.Map // map[string]levelLookup
}

type levelLookup struct {
	level zapcore.Level
	found bool
}

func NewEntryLeveller(core zapcore.Core, levels map[string]zapcore.Level) *EntryLeveller {
	el := &EntryLeveller{
		Core:     core,
		levels:   make(map[string]zapcore.Level, len(levels)),
		resolved: &sync.Map{},
	}
	for k, v := range levels {
		el.levels[k] = v
	}
	return el
}

func (el *EntryLeveller) With(f []zapcore.Field) zapcore.Core {
	return &EntryLeveller{
		Core:     el.Core.With(f),
		levels:   el.levels,
		resolved: el.resolved,
	}
}

// Enabled reports whether any logger may write at lvl, so that a module configured below the core's level is not
// filtered out before Check.
func (el *EntryLeveller) Enabled(lvl zapcore.Level) bool {
	if el.Core.Enabled(lvl) {
		return true
	}
	for _, l := range el.levels {
		if lvl >= l {
			return true
		}
	}
	return false
}

func (el *EntryLeveller) lookup(loggerName string) levelLookup {
	if l, ok := el.resolved.Load(loggerName); ok {
		return l.(levelLookup)
	}
	var result levelLookup
	name := loggerName
	for {
		if lvl, ok := el.levels[name]; ok {
			result = levelLookup{level: lvl, found: true}
			break
		}
		if name == "" {
			break
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			name = ""
		} else {
			name = name[:i]
		}
	}
	el.resolved.Store(loggerName, result)
	return result
}

func (el *EntryLeveller) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	l := el.lookup(e.LoggerName)
	if !l.found {
		return el.Core.Check(e, ce)
	}
	if e.Level < l.level {
		return ce
	}
	return ce.AddCore(e, el)
}
