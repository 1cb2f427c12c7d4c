// Package plugin provides an extensible plugin system for Spendbook.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, book interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// User lifecycle hooks
// ──────────────────────────────────────────────────

// OnUserRegistered is called when a new user is registered.
type OnUserRegistered interface {
	Plugin
	OnUserRegistered(ctx context.Context, u interface{}) error
}

// OnUserProfileUpdated is called when a user profile changes.
type OnUserProfileUpdated interface {
	Plugin
	OnUserProfileUpdated(ctx context.Context, oldUser, newUser interface{}) error
}

// ──────────────────────────────────────────────────
// Expense lifecycle hooks
// ──────────────────────────────────────────────────

// OnExpenseCreated is called when an expense is recorded.
type OnExpenseCreated interface {
	Plugin
	OnExpenseCreated(ctx context.Context, e interface{}) error
}

// OnExpenseUpdated is called when an expense is replaced.
type OnExpenseUpdated interface {
	Plugin
	OnExpenseUpdated(ctx context.Context, oldExpense, newExpense interface{}) error
}

// OnExpenseDeleted is called when an expense is removed.
type OnExpenseDeleted interface {
	Plugin
	OnExpenseDeleted(ctx context.Context, e interface{}) error
}

// OnDuplicateNumberRejected is called when a write is rejected because the
// owner already has an expense with the requested number.
type OnDuplicateNumberRejected interface {
	Plugin
	OnDuplicateNumberRejected(ctx context.Context, ownerID string, number int64) error
}

// ──────────────────────────────────────────────────
// Sequence hooks
// ──────────────────────────────────────────────────

// OnSequenceAllocated is called when a counter hands out a new value.
type OnSequenceAllocated interface {
	Plugin
	OnSequenceAllocated(ctx context.Context, name string, value int64) error
}

// ──────────────────────────────────────────────────
// Summary hooks
// ──────────────────────────────────────────────────

// OnSummaryComputed is called when a per-currency summary is produced.
type OnSummaryComputed interface {
	Plugin
	OnSummaryComputed(ctx context.Context, ownerID string, summaries interface{}) error
}

// SummaryFormatter renders per-currency summaries for export.
type SummaryFormatter interface {
	Plugin
	Format() string                                                         // "csv", "json", etc.
	Render(ctx context.Context, summaries interface{}, w interface{}) error // w is io.Writer
}
