// Package monitoring holds the diagnostic logger shared by the adapter,
// the run store and the otda command.
package monitoring

import (
	"fmt"
	"log"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Elapsed logs the formatted message followed by the time since start.
// Durations are rounded to the millisecond; anything shorter prints as 0s.
func Elapsed(start time.Time, format string, v ...interface{}) {
	d := time.Since(start).Round(time.Millisecond)
	Logf("%s (%s)", fmt.Sprintf(format, v...), d)
}
