// Package logging configures the structured logger shared by the engine
// and its command-line front end, following the teacher's
// internal/config setup pattern.
package logging

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger returns a logger configured for the given verbosity.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
