// Package spendbook provides an embeddable personal expense ledger engine
// for Go applications.
//
// Spendbook is designed as a library, not a service. Import it directly into
// your Go application and wire it to the store of your choice. It provides:
//
//   - Owner-scoped expense records with caller-supplied reference numbers
//   - Atomic named sequence allocation (user ids, suggested numbers)
//   - Filtered, paginated listings with case-insensitive search
//   - Per-currency aggregation that never mixes currencies
//   - Pluggable hooks for audit trails and metrics
//
// # Quick Start
//
// Create a book instance with your preferred store:
//
//	import (
//	    "github.com/xraph/spendbook"
//	    "github.com/xraph/spendbook/store/memory"
//	)
//
//	// Initialize store
//	store := memory.New()
//
//	// Create book
//	book := spendbook.New(store)
//
//	// Start the book (runs migrations, initializes plugins)
//	if err := book.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer book.Stop()
//
// # Core Concepts
//
// Users are registered once per external identity and receive an immutable
// sequential id:
//
//	u, err := book.RegisterUser(ctx, user.Registration{
//	    ExternalIdentityID: "auth0|abc123",
//	    DisplayName:        "Asad",
//	})
//	// u.SequentialID == "user001"
//
// Expenses belong to exactly one owner and carry a reference number that is
// unique within that owner's ledger:
//
//	e, err := book.CreateExpense(ctx, u.ID, expense.Input{
//	    Number:      1,
//	    Title:       "Groceries",
//	    AmountMinor: 550000, // ₨ 5500.00
//	    OccurredOn:  time.Now(),
//	})
//
// Listings are filtered, searched, and paginated in one call:
//
//	page, err := book.ListExpenses(ctx, u.ID, expense.Filter{Search: "groc"}, 1, 20)
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest
// currency unit (paisa for PKR, cents for USD, etc).
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	usr_01h2xcejqtf2nbrexx3vqjhp41  // User ID
//	exp_01h455vb4pex5vsknk084sn02q  // Expense ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package spendbook
