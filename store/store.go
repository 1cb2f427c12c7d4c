package store

import (
	"context"

	"github.com/xraph/spendbook/expense"
	"github.com/xraph/spendbook/id"
	"github.com/xraph/spendbook/user"
)

// Store is the unified storage interface for all Spendbook entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
//
// Implementations must be safe for concurrent use; the engine shares one
// Store across all in-flight operations. The compound unique constraint on
// (owner, expense number) lives here: CreateExpense and UpdateExpense
// return the duplicate-number error as the authoritative signal when a
// write collides, regardless of any pre-check the caller ran.
type Store interface {
	// Counter methods
	NextSequence(ctx context.Context, name string) (int64, error)
	CurrentSequence(ctx context.Context, name string) (int64, error)

	// User methods
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, userID id.UserID) (*user.User, error)
	GetUserByExternalID(ctx context.Context, externalIdentityID string) (*user.User, error)
	UpdateUser(ctx context.Context, u *user.User) error

	// Expense methods
	CreateExpense(ctx context.Context, e *expense.Expense) error
	GetExpense(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) (*expense.Expense, error)
	UpdateExpense(ctx context.Context, e *expense.Expense) error
	DeleteExpense(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) error
	ListExpenses(ctx context.Context, ownerID id.UserID, opts expense.ListOpts) ([]*expense.Expense, int64, error)
	SummarizeExpenses(ctx context.Context, ownerID id.UserID, f expense.Filter) ([]expense.CurrencySummary, error)
	ExpenseNumberExists(ctx context.Context, ownerID id.UserID, number int64, exclude id.ExpenseID) (bool, error)
	HighestExpenseNumber(ctx context.Context, ownerID id.UserID) (int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
