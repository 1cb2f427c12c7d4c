// Package audithook bridges Spendbook lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/spendbook/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                    = (*Extension)(nil)
	_ plugin.OnUserRegistered          = (*Extension)(nil)
	_ plugin.OnUserProfileUpdated      = (*Extension)(nil)
	_ plugin.OnExpenseCreated          = (*Extension)(nil)
	_ plugin.OnExpenseUpdated          = (*Extension)(nil)
	_ plugin.OnExpenseDeleted          = (*Extension)(nil)
	_ plugin.OnDuplicateNumberRejected = (*Extension)(nil)
	_ plugin.OnSequenceAllocated       = (*Extension)(nil)
	_ plugin.OnSummaryComputed         = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Spendbook lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// User lifecycle hooks
// ──────────────────────────────────────────────────

// OnUserRegistered implements plugin.OnUserRegistered.
func (e *Extension) OnUserRegistered(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionUserRegistered, SeverityInfo, OutcomeSuccess,
		ResourceUser, "", CategoryIdentity, nil,
		"event", "user_registered",
	)
}

// OnUserProfileUpdated implements plugin.OnUserProfileUpdated.
func (e *Extension) OnUserProfileUpdated(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionUserProfileUpdated, SeverityInfo, OutcomeSuccess,
		ResourceUser, "", CategoryIdentity, nil,
		"event", "user_profile_updated",
	)
}

// ──────────────────────────────────────────────────
// Expense lifecycle hooks
// ──────────────────────────────────────────────────

// OnExpenseCreated implements plugin.OnExpenseCreated.
func (e *Extension) OnExpenseCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionExpenseCreated, SeverityInfo, OutcomeSuccess,
		ResourceExpense, "", CategoryLedger, nil,
		"event", "expense_created",
	)
}

// OnExpenseUpdated implements plugin.OnExpenseUpdated.
func (e *Extension) OnExpenseUpdated(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionExpenseUpdated, SeverityInfo, OutcomeSuccess,
		ResourceExpense, "", CategoryLedger, nil,
		"event", "expense_updated",
	)
}

// OnExpenseDeleted implements plugin.OnExpenseDeleted.
func (e *Extension) OnExpenseDeleted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionExpenseDeleted, SeverityWarning, OutcomeSuccess,
		ResourceExpense, "", CategoryLedger, nil,
		"event", "expense_deleted",
	)
}

// OnDuplicateNumberRejected implements plugin.OnDuplicateNumberRejected.
func (e *Extension) OnDuplicateNumberRejected(ctx context.Context, ownerID string, number int64) error {
	return e.record(ctx, ActionDuplicateNumberRejected, SeverityWarning, OutcomeFailure,
		ResourceExpense, "", CategoryLedger, nil,
		"owner_id", ownerID,
		"number", number,
	)
}

// ──────────────────────────────────────────────────
// Sequence hooks
// ──────────────────────────────────────────────────

// OnSequenceAllocated implements plugin.OnSequenceAllocated.
func (e *Extension) OnSequenceAllocated(ctx context.Context, name string, value int64) error {
	return e.record(ctx, ActionSequenceAllocated, SeverityInfo, OutcomeSuccess,
		ResourceSequence, name, CategoryLedger, nil,
		"counter", name,
		"value", value,
	)
}

// ──────────────────────────────────────────────────
// Summary hooks
// ──────────────────────────────────────────────────

// OnSummaryComputed implements plugin.OnSummaryComputed.
func (e *Extension) OnSummaryComputed(ctx context.Context, ownerID string, _ interface{}) error {
	return e.record(ctx, ActionSummaryComputed, SeverityInfo, OutcomeSuccess,
		ResourceSummary, ownerID, CategoryReport, nil,
		"owner_id", ownerID,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
