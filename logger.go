package maiko

import "log"

// Logf is a printf-like logging func, the same shape as
// tailscale.com/types/logger.Logf: a convenience type so loop code doesn't
// have to spell out func(string, ...any) everywhere. Logf values must be
// safe for concurrent use, since the broker, every actor loop, and the
// monitor dispatcher each hold their own copy.
type Logf func(format string, args ...any)

// StdLogf adapts the standard library's log package to Logf.
func StdLogf(format string, args ...any) {
	log.Printf(format, args...)
}

// discardLogf is used where a Config leaves Logf unset.
func discardLogf(string, ...any) {}
