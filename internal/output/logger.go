/*
PURPOSE:
  Provides the structured logger for norsk-eval.
  Wraps slog for consistent progress and diagnostic output.

REQUIREMENTS:
  User-specified:
  - Per-query progress lines visible on the console, success or not.

  Implementation-discovered:
  - Needs Info/Warn/Error levels.
  - Tests need to capture or silence log output.

ARCHITECTURE INTEGRATION:
  - Used everywhere.

ERROR HANDLING:
  - N/A

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).
  - Log to stderr; stdout carries the banner and summary only.

USAGE:
  output.Logger.Info("message", "key", "value")

SELF-HEALING INSTRUCTIONS:
  - Ensure Go 1.21+ is used.

RELATED FILES:
  - internal/engine/runner.go

MAINTENANCE:
  - Configurable log levels?
*/

package output

import (
	"log/slog"
	"os"
)

// Logger is the process-wide structured logger.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// SetLogger overrides the default logger (e.g. for tests).
func SetLogger(l *slog.Logger) {
	Logger = l
}
