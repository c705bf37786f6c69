// Package cli implements the gitseeker command-line interface.
//
// Commands search GitHub, Hugging Face, GitLab, npm and PyPI in parallel,
// print ranked results, fetch READMEs, stream AI analyses and serve the
// same operations over HTTP. The CLI is built using cobra and viper and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - search: Query several registries and print one ranked list
//   - trending: Show a shuffled sample of popular projects
//   - readme: Print a project's README
//   - analyze: Stream an AI summary of a project's README
//   - config: Manage the AI provider, model and API keys
//   - cache: Manage the response cache
//   - serve: Run the HTTP API
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/gitseeker/config.yaml and from
// GITSEEKER_* environment variables, e.g. GITSEEKER_CACHE_BACKEND=redis.
// GITHUB_TOKEN, GITLAB_TOKEN and HF_TOKEN are read as well.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports per-source timings, cache hits and outgoing HTTP requests.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one operation for the completion log line.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, and
// any extra key-value pairs: "Search complete (1.234s) results=20".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond)), keyvals...)
}
