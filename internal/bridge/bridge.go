// Package bridge runs automation scripts against the desktop task
// application. The rest of the system depends only on the Executor
// contract: a script goes in, stdout text comes out, failures surface as
// BackendError.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Executor runs a script against the backend within the given timeout.
type Executor interface {
	Execute(ctx context.Context, script string, timeout time.Duration) (string, error)
}

// OSAScript executes scripts through the osascript runner in JavaScript
// mode. One subprocess per call; nothing is shared between calls.
type OSAScript struct {
	logger *slog.Logger
}

// NewOSAScript creates the osascript-backed executor.
func NewOSAScript(logger *slog.Logger) *OSAScript {
	if logger == nil {
		logger = slog.Default()
	}
	return &OSAScript{logger: logger}
}

// Execute runs the script and returns trimmed stdout. A non-zero exit maps
// to a BackendError carrying stderr; expiry maps to a timeout BackendError.
// No partial effect is assumed on timeout; callers must re-query.
func (o *OSAScript) Execute(ctx context.Context, script string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "osascript", "-l", "JavaScript", "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	o.logger.Debug("bridge call", "duration", time.Since(start), "script_bytes", len(script), "error", err)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &BackendError{Message: "script did not finish within " + timeout.String(), Timeout: true}
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", &BackendError{Message: msg}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Timeouts holds the per-call-type execution limits. List-producing queries
// get a larger default than single-record mutations.
type Timeouts struct {
	Query    time.Duration
	Mutation time.Duration
}

// DefaultTimeouts returns the standard limits.
func DefaultTimeouts() Timeouts {
	return Timeouts{Query: 60 * time.Second, Mutation: 30 * time.Second}
}
