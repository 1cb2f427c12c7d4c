package expense

import (
	"time"

	"github.com/xraph/spendbook/id"
	"github.com/xraph/spendbook/types"
)

type Expense struct {
	types.Entity
	ID      id.ExpenseID `json:"id"`
	OwnerID id.UserID    `json:"owner_id"`

	// OwnerSequentialID and OwnerDisplayName are snapshots of the owner
	// record, denormalized at write time for read efficiency. They are
	// allowed to drift after the owner renames; nothing refreshes them
	// retroactively. The sequential id is copied once at creation; the
	// display name is re-copied on each edit of the expense itself.
	OwnerSequentialID string `json:"owner_sequential_id"`
	OwnerDisplayName  string `json:"owner_display_name"`

	// Number is the human-assigned reference number, unique per owner.
	// It is caller-supplied, not allocator-issued.
	Number int64 `json:"number"`

	Title      string      `json:"title"`
	Amount     types.Money `json:"amount"`
	OccurredOn time.Time   `json:"occurred_on"`
	Notes      string      `json:"notes,omitempty"`
}

// Input is the mutable field set of an expense, shared by create and
// update. Update is a full replacement of this set; fields cannot be
// omitted individually.
type Input struct {
	Number      int64     `json:"number"`
	Title       string    `json:"title"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"` // blank means the configured default
	OccurredOn  time.Time `json:"occurred_on"`
	Notes       string    `json:"notes,omitempty"`
}

// Filter narrows a listing to one owner's matching records.
type Filter struct {
	// From and To bound OccurredOn inclusively; a zero value leaves that
	// side open. To is normalized to the end of its calendar day before
	// it reaches a store, so same-day ranges cover the whole day.
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`

	// Search matches case-insensitively against title, owner display
	// name, owner sequential id, and notes; any single field match
	// qualifies the record.
	Search string `json:"search,omitempty"`
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && f.Search == ""
}

// Page is one page of a filtered listing, sorted by OccurredOn descending.
type Page struct {
	Items []*Expense `json:"items"`

	// TotalCount counts the whole filtered set before pagination;
	// PageCount is ceil(TotalCount / page size).
	TotalCount int64 `json:"total_count"`
	PageCount  int64 `json:"page_count"`

	// Totals summarizes the whole filtered set per currency, not just
	// the items on this page.
	Totals []CurrencySummary `json:"totals"`
}

type ListOpts struct {
	Filter Filter
	Limit  int
	Offset int
}
