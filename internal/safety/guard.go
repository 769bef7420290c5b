// Package safety gates destructive backend calls. The guard exists to
// protect a test run from touching a production store; production use is
// intentionally unguarded.
package safety

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/script"
)

// approvedTestStores is the fixed allow-list of backing stores a test run
// may mutate. Comparison is case-insensitive with the filename suffix
// stripped.
var approvedTestStores = []string{"taskbridge-test", "automation-test"}

const storeSuffix = ".ofocus"

// destructiveOps is the fixed set of state-changing operations. Read-only
// queries are exempt by definition.
var destructiveOps = map[string]bool{
	"create_task":          true,
	"update_task":          true,
	"complete_task":        true,
	"drop_task":            true,
	"delete_task":          true,
	"batch_update_tasks":   true,
	"batch_complete_tasks": true,
	"batch_delete_tasks":   true,
	"create_project":       true,
	"update_project":       true,
	"delete_project":       true,
	"create_tag":           true,
}

// IsDestructive reports whether an operation mutates backend state.
func IsDestructive(operation string) bool {
	return destructiveOps[operation]
}

// Error blocks a destructive operation aimed at the wrong store.
type Error struct {
	Operation string
	Expected  string
	Actual    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("refusing %s: expected store %q, active store %q", e.Operation, e.Expected, e.Actual)
}

// Config controls the guard. Enabled=false is the explicit opt-out for
// isolated testing; TestMode marks the process as a test run that must only
// touch an approved store.
type Config struct {
	Enabled       bool
	TestMode      bool
	ExpectedStore string
}

// Guard verifies the active backing store before destructive operations.
// Configuration is set once at construction and read-only thereafter.
type Guard struct {
	cfg     Config
	exec    bridge.Executor
	timeout time.Duration
	logger  *slog.Logger
}

// New builds a guard. In test mode the expected store must be present and
// on the allow-list; anything else fails construction immediately.
func New(cfg Config, exec bridge.Executor, timeout time.Duration, logger *slog.Logger) (*Guard, error) {
	if cfg.TestMode {
		if cfg.ExpectedStore == "" {
			return nil, fmt.Errorf("safety: test mode requires an expected store")
		}
		if !storeApproved(cfg.ExpectedStore) {
			return nil, fmt.Errorf("safety: store %q is not on the approved test-store list (%s)",
				cfg.ExpectedStore, strings.Join(approvedTestStores, ", "))
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Guard{cfg: cfg, exec: exec, timeout: timeout, logger: logger}, nil
}

// Check returns nil when the operation may proceed. In test mode it queries
// the bridge for the active store's display name and blocks on mismatch or
// query failure; the destructive call is never attempted in either case.
func (g *Guard) Check(ctx context.Context, operation string) error {
	if !g.cfg.Enabled {
		return nil
	}
	if !IsDestructive(operation) {
		return nil
	}
	if !g.cfg.TestMode {
		return nil
	}

	name, err := g.exec.Execute(ctx, script.DocumentName{}.Render(), g.timeout)
	if err != nil {
		g.logger.Warn("safety check could not identify the active store", "operation", operation, "error", err)
		return &Error{
			Operation: operation,
			Expected:  g.cfg.ExpectedStore,
			Actual:    fmt.Sprintf("unknown (%v)", err),
		}
	}

	if normalizeStoreName(name) != normalizeStoreName(g.cfg.ExpectedStore) {
		return &Error{Operation: operation, Expected: g.cfg.ExpectedStore, Actual: name}
	}
	return nil
}

func normalizeStoreName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, storeSuffix)
}

func storeApproved(name string) bool {
	norm := normalizeStoreName(name)
	for _, approved := range approvedTestStores {
		if norm == approved {
			return true
		}
	}
	return false
}
