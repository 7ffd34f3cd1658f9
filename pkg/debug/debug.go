// Package debug provides conditional debug logging for panes.
//
// Debug logging is enabled by setting the PANES_DEBUG environment variable:
//
//	PANES_DEBUG=1 panes ~/src
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops.
//
// Engine events (result applied, result discarded, watch started) can also be
// appended as JSON lines to a trace file named by PANES_TRACE.
//
// Usage:
//
//	import "github.com/vanderheijden86/panes/pkg/debug"
//
//	func myFunc() {
//	    debug.Log("processing %d items", count)
//	    debug.LogTiming("myFunc", elapsed)
//	}
package debug

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu sync.RWMutex
	// enabled is true when PANES_DEBUG is set
	enabled bool
	logger  = zerolog.Nop()

	traceFile *os.File
	tracer    = zerolog.Nop()
	tracing   bool
)

func init() {
	if os.Getenv("PANES_DEBUG") != "" {
		SetEnabled(true)
	}
	if path := strings.TrimSpace(os.Getenv("PANES_TRACE")); path != "" {
		_ = OpenTrace(path)
	}
}

func consoleLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}).With().Timestamp().Str("component", "panes").Logger()
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	SetOutput(e, os.Stderr)
}

// SetOutput enables or disables debug logging and redirects it to w.
// The TUI uses this to move logs away from the terminal it is drawing on.
func SetOutput(e bool, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e && w != nil {
		logger = consoleLogger(w).Level(zerolog.DebugLevel)
	} else {
		logger = zerolog.Nop()
	}
}

// Logger returns the underlying zerolog logger for structured fields.
// It is a no-op logger while debug logging is disabled.
func Logger() *zerolog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return &l
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !Enabled() {
		return
	}
	Logger().Debug().Msgf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !Enabled() {
		return
	}
	Logger().Debug().Dur("elapsed", d).Msgf("%s took %v", name, d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	}
func LogEnterExit(name string) func() {
	if !Enabled() {
		return func() {}
	}
	Logger().Debug().Msgf("-> %s", name)
	start := time.Now()
	return func() {
		Logger().Debug().Msgf("<- %s (%v)", name, time.Since(start))
	}
}

// OpenTrace starts appending JSON trace events to path.
func OpenTrace(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if traceFile != nil {
		_ = traceFile.Close()
	}
	traceFile = f
	tracer = zerolog.New(f).With().Timestamp().Logger()
	tracing = true
	return nil
}

// CloseTrace stops tracing and closes the trace file.
func CloseTrace() error {
	mu.Lock()
	defer mu.Unlock()
	tracing = false
	tracer = zerolog.Nop()
	if traceFile == nil {
		return nil
	}
	err := traceFile.Close()
	traceFile = nil
	return err
}

// Tracing reports whether a trace file is open.
func Tracing() bool {
	mu.RLock()
	defer mu.RUnlock()
	return tracing
}

// Trace records a named engine event with fields in the trace file and, when
// debug logging is on, in the debug log.
func Trace(event string, fields map[string]any) {
	mu.RLock()
	t, l, on, dbg := tracer, logger, tracing, enabled
	mu.RUnlock()
	if !on && !dbg {
		return
	}
	if on {
		t.Info().Str("event", event).Fields(fields).Send()
	}
	if dbg {
		l.Debug().Str("event", event).Fields(fields).Send()
	}
}
