// Package browserlog is a thin leveled wrapper over the standard logger,
// matching the plain log.Printf calls the engine makes at script, network
// and CSS-parse boundaries.
package browserlog

import (
	"log"
	"os"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	std   = log.New(os.Stderr, "", log.LstdFlags)
	level = LevelInfo
)

// SetLevel changes the minimum level that is actually printed.
func SetLevel(l Level) { level = l }

func logf(l Level, prefix, format string, args ...any) {
	if l < level {
		return
	}
	std.Printf(prefix+format, args...)
}

func Debugf(format string, args ...any) { logf(LevelDebug, "DEBUG ", format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, "INFO ", format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, "WARN ", format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, "ERROR ", format, args...) }
