package audithook

// Action constants for audit events.
const (
	// User actions
	ActionUserRegistered     = "user.registered"
	ActionUserProfileUpdated = "user.profile_updated"

	// Expense actions
	ActionExpenseCreated          = "expense.created"
	ActionExpenseUpdated          = "expense.updated"
	ActionExpenseDeleted          = "expense.deleted"
	ActionDuplicateNumberRejected = "expense.duplicate_number_rejected"

	// Sequence actions
	ActionSequenceAllocated = "sequence.allocated"

	// Summary actions
	ActionSummaryComputed = "summary.computed"
)

// Resource constants for audit events.
const (
	ResourceUser     = "user"
	ResourceExpense  = "expense"
	ResourceSequence = "sequence"
	ResourceSummary  = "summary"
)

// Category constants for audit events.
const (
	CategoryIdentity = "identity"
	CategoryLedger   = "ledger"
	CategoryReport   = "report"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
