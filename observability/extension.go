// Package observability provides a metrics extension for Spendbook that
// records lifecycle event counts via a pluggable MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/spendbook/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                    = (*MetricsExtension)(nil)
	_ plugin.OnInit                    = (*MetricsExtension)(nil)
	_ plugin.OnUserRegistered          = (*MetricsExtension)(nil)
	_ plugin.OnUserProfileUpdated      = (*MetricsExtension)(nil)
	_ plugin.OnExpenseCreated          = (*MetricsExtension)(nil)
	_ plugin.OnExpenseUpdated          = (*MetricsExtension)(nil)
	_ plugin.OnExpenseDeleted          = (*MetricsExtension)(nil)
	_ plugin.OnDuplicateNumberRejected = (*MetricsExtension)(nil)
	_ plugin.OnSequenceAllocated       = (*MetricsExtension)(nil)
	_ plugin.OnSummaryComputed         = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Spendbook plugin to automatically track ledger metrics.
type MetricsExtension struct {
	factory MetricFactory

	// User metrics
	UserRegistered     Counter
	UserProfileUpdated Counter

	// Expense metrics
	ExpenseCreated          Counter
	ExpenseUpdated          Counter
	ExpenseDeleted          Counter
	DuplicateNumberRejected Counter

	// Sequence metrics
	SequenceAllocated Counter
	SequenceValue     Histogram

	// Summary metrics
	SummaryComputed Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// User metrics
		UserRegistered:     factory.Counter("spendbook.user.registered"),
		UserProfileUpdated: factory.Counter("spendbook.user.profile.updated"),

		// Expense metrics
		ExpenseCreated:          factory.Counter("spendbook.expense.created"),
		ExpenseUpdated:          factory.Counter("spendbook.expense.updated"),
		ExpenseDeleted:          factory.Counter("spendbook.expense.deleted"),
		DuplicateNumberRejected: factory.Counter("spendbook.expense.duplicate_number.rejected"),

		// Sequence metrics
		SequenceAllocated: factory.Counter("spendbook.sequence.allocated"),
		SequenceValue:     factory.Histogram("spendbook.sequence.value"),

		// Summary metrics
		SummaryComputed: factory.Counter("spendbook.summary.computed"),

		// Error metrics
		StoreErrors:  factory.Counter("spendbook.store.errors"),
		PluginErrors: factory.Counter("spendbook.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// User lifecycle hooks
// ──────────────────────────────────────────────────

// OnUserRegistered implements plugin.OnUserRegistered.
func (m *MetricsExtension) OnUserRegistered(_ context.Context, _ interface{}) error {
	m.UserRegistered.Inc()
	return nil
}

// OnUserProfileUpdated implements plugin.OnUserProfileUpdated.
func (m *MetricsExtension) OnUserProfileUpdated(_ context.Context, _, _ interface{}) error {
	m.UserProfileUpdated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Expense lifecycle hooks
// ──────────────────────────────────────────────────

// OnExpenseCreated implements plugin.OnExpenseCreated.
func (m *MetricsExtension) OnExpenseCreated(_ context.Context, _ interface{}) error {
	m.ExpenseCreated.Inc()
	return nil
}

// OnExpenseUpdated implements plugin.OnExpenseUpdated.
func (m *MetricsExtension) OnExpenseUpdated(_ context.Context, _, _ interface{}) error {
	m.ExpenseUpdated.Inc()
	return nil
}

// OnExpenseDeleted implements plugin.OnExpenseDeleted.
func (m *MetricsExtension) OnExpenseDeleted(_ context.Context, _ interface{}) error {
	m.ExpenseDeleted.Inc()
	return nil
}

// OnDuplicateNumberRejected implements plugin.OnDuplicateNumberRejected.
func (m *MetricsExtension) OnDuplicateNumberRejected(_ context.Context, _ string, _ int64) error {
	m.DuplicateNumberRejected.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Sequence hooks
// ──────────────────────────────────────────────────

// OnSequenceAllocated implements plugin.OnSequenceAllocated.
func (m *MetricsExtension) OnSequenceAllocated(_ context.Context, _ string, value int64) error {
	m.SequenceAllocated.Inc()
	m.SequenceValue.Observe(float64(value))
	return nil
}

// ──────────────────────────────────────────────────
// Summary hooks
// ──────────────────────────────────────────────────

// OnSummaryComputed implements plugin.OnSummaryComputed.
func (m *MetricsExtension) OnSummaryComputed(_ context.Context, _ string, _ interface{}) error {
	m.SummaryComputed.Inc()
	return nil
}
