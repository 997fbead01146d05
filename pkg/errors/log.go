package errors

import (
	"os"

	"github.com/rs/zerolog"
)

// LogHandler is an ErrorHandler that writes errors through a zerolog logger.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger receives the entries. The zero value logs nothing.
	Logger zerolog.Logger
}

// NewLogHandler returns a LogHandler writing to stderr.
func NewLogHandler() *LogHandler {
	return &LogHandler{Logger: zerolog.New(os.Stderr).With().Timestamp().Logger()}
}

// HandleError logs a LoomError.
func (h *LogHandler) HandleError(err *LoomError) {
	if err == nil {
		return
	}
	ev := h.Logger.Error().
		Str("op", err.Op).
		Stringer("kind", err.Kind).
		Err(err.Err)
	if err.Target != "" {
		ev = ev.Str("target", err.Target)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("loom error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := h.Logger.Error().Interface("value", err.Value)
	if err.Op != "" {
		ev = ev.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("loom panic")
}
