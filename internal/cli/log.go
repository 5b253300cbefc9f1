// Package cli implements the rainbowsmoke command-line interface.
//
// The CLI paints images from a uniform RGB palette or from the colors of an
// image, serves a live web preview, and manages the artifact cache. It is
// built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - paint: Paint a canvas and write it to out/
//   - serve: Run the web preview server
//   - palette: Write the unshuffled palette as an image
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so helpers can log without extra arguments.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat keeps timestamps short; runs rarely cross midnight.
const logTimeFormat = "15:04:05.00"

// newLogger returns the CLI logger: timestamped, writing to w, dropping
// anything below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// stageTimer logs how long a CLI stage took, e.g. "Wrote palette (12ms)".
// Not safe for concurrent use.
type stageTimer struct {
	logger *log.Logger
	start  time.Time
}

func startStage(l *log.Logger) *stageTimer {
	return &stageTimer{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to milliseconds.
func (p *stageTimer) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx. The root command does this before any
// subcommand runs.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() for contexts that never passed through the root command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
