// Package debug routes the runtime's verbose tracing into a structured logger.
package debug

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recera/nodeditor/pkg/scheduler"
)

// EnableLogging sends scheduler tracing to logger at debug level. A nil
// logger turns tracing off.
func EnableLogging(logger *slog.Logger) {
	if logger == nil || !logger.Enabled(context.Background(), slog.LevelDebug) {
		scheduler.SetDebugLog(nil)
		return
	}
	scheduler.SetDebugLog(Func(logger))
}

// Func adapts logger to the variadic tracing hook
func Func(logger *slog.Logger) func(args ...interface{}) {
	return func(args ...interface{}) {
		logger.Debug(Message(args...))
	}
}

// Message joins args with spaces
func Message(args ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
