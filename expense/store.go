package expense

import (
	"context"

	"github.com/xraph/spendbook/id"
)

// Store is the durable backing for expense records. Every method that
// touches an existing record takes the owner id and must apply it as part
// of the lookup predicate: a record belonging to another owner is
// indistinguishable from a missing one.
type Store interface {
	Create(ctx context.Context, e *Expense) error
	Get(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) (*Expense, error)
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) error

	// List returns one page of the owner's filtered records sorted by
	// OccurredOn descending, plus the filtered total before pagination.
	List(ctx context.Context, ownerID id.UserID, opts ListOpts) ([]*Expense, int64, error)

	// Summarize aggregates the owner's whole filtered set per currency.
	Summarize(ctx context.Context, ownerID id.UserID, f Filter) ([]CurrencySummary, error)

	// NumberExists reports whether the owner already has an expense with
	// the given number, excluding at most one record (the one under
	// edit; pass id.Nil for creates). This is a fast-path check only:
	// the compound unique constraint in the store is the authority.
	NumberExists(ctx context.Context, ownerID id.UserID, number int64, exclude id.ExpenseID) (bool, error)

	// HighestNumber returns the owner's largest expense number, 0 when
	// the owner has no expenses.
	HighestNumber(ctx context.Context, ownerID id.UserID) (int64, error)
}
