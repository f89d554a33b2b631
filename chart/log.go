package chart

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var loggerPtr atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.Nop()
	loggerPtr.Store(&l)
}

// SetLogger configures the logger used by the package. By default nothing is
// logged. Layout passes and geometry rebuilds are logged at debug level.
// Clamped brush windows and non-numeric values plotted as null are logged at
// warn.
//
// Each Chart keeps the logger that was current when it was created, so
// SetLogger only affects charts created afterwards.
//
// SetLogger is safe for concurrent use.
func SetLogger(l zerolog.Logger) {
	loggerPtr.Store(&l)
}

// Logger returns the current package logger.
func Logger() *zerolog.Logger {
	return loggerPtr.Load()
}
