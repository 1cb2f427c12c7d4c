package spendbook_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xraph/spendbook"
	"github.com/xraph/spendbook/counter"
	"github.com/xraph/spendbook/expense"
	"github.com/xraph/spendbook/id"
	"github.com/xraph/spendbook/store/memory"
	"github.com/xraph/spendbook/user"
)

func newTestBook(t *testing.T) *spendbook.Book {
	t.Helper()

	book := spendbook.New(memory.New())
	if err := book.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := book.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
	return book
}

func registerOwner(t *testing.T, book *spendbook.Book, externalID, name string) *user.User {
	t.Helper()

	u, err := book.RegisterUser(context.Background(), user.Registration{
		ExternalIdentityID: externalID,
		Email:              externalID + "@example.com",
		DisplayName:        name,
	})
	if err != nil {
		t.Fatalf("RegisterUser(%q) error = %v", externalID, err)
	}
	return u
}

func sampleInput(number int64, title string, day int) expense.Input {
	return expense.Input{
		Number:      number,
		Title:       title,
		AmountMinor: 100000,
		OccurredOn:  time.Date(2025, 3, day, 12, 0, 0, 0, time.UTC),
	}
}

func TestAllocateSequence(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	first, err := book.AllocateSequence(ctx, "orders")
	if err != nil {
		t.Fatalf("AllocateSequence() error = %v", err)
	}
	if first != 1 {
		t.Errorf("first allocation = %d, want 1", first)
	}

	second, err := book.AllocateSequence(ctx, "orders")
	if err != nil {
		t.Fatalf("AllocateSequence() error = %v", err)
	}
	if second != 2 {
		t.Errorf("second allocation = %d, want 2", second)
	}

	// A different namespace starts over at 1.
	other, err := book.AllocateSequence(ctx, "receipts")
	if err != nil {
		t.Fatalf("AllocateSequence() error = %v", err)
	}
	if other != 1 {
		t.Errorf("other namespace first allocation = %d, want 1", other)
	}

	if _, err := book.AllocateSequence(ctx, "  "); !spendbook.IsValidation(err) {
		t.Errorf("blank counter name error = %v, want validation error", err)
	}
}

func TestAllocateSequenceConcurrent(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	results := make(chan int64, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := book.AllocateSequence(ctx, "race")
			if err != nil {
				t.Errorf("AllocateSequence() error = %v", err)
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for seq := range results {
		if seen[seq] {
			t.Errorf("value %d allocated twice", seq)
		}
		seen[seq] = true
	}
	for i := int64(1); i <= n; i++ {
		if !seen[i] {
			t.Errorf("value %d never allocated", i)
		}
	}
}

func TestRegisterUserIdempotent(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u1 := registerOwner(t, book, "auth0|alpha", "Alpha")
	if u1.SequentialID != "user001" {
		t.Errorf("SequentialID = %q, want %q", u1.SequentialID, "user001")
	}

	// Same identity again returns the existing record untouched.
	u2, err := book.RegisterUser(ctx, user.Registration{
		ExternalIdentityID: "auth0|alpha",
		DisplayName:        "Alpha Again",
	})
	if err != nil {
		t.Fatalf("RegisterUser() repeat error = %v", err)
	}
	if u2.ID != u1.ID {
		t.Errorf("repeat registration returned different user: %v vs %v", u2.ID, u1.ID)
	}
	if u2.DisplayName != "Alpha" {
		t.Errorf("repeat registration changed DisplayName to %q", u2.DisplayName)
	}

	// The repeat must not have burned a sequence value.
	cur, err := book.CurrentSequence(ctx, counter.NamespaceUserID)
	if err != nil {
		t.Fatalf("CurrentSequence() error = %v", err)
	}
	if cur != 1 {
		t.Errorf("user counter = %d after repeat registration, want 1", cur)
	}

	u3 := registerOwner(t, book, "auth0|beta", "Beta")
	if u3.SequentialID != "user002" {
		t.Errorf("second user SequentialID = %q, want %q", u3.SequentialID, "user002")
	}
}

func TestRegisterUserValidation(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	tests := []struct {
		name string
		reg  user.Registration
	}{
		{"missing external id", user.Registration{DisplayName: "X"}},
		{"missing display name", user.Registration{ExternalIdentityID: "auth0|x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := book.RegisterUser(ctx, tt.reg); !spendbook.IsValidation(err) {
				t.Errorf("RegisterUser() error = %v, want validation error", err)
			}
		})
	}
}

func TestUpdateUserProfile(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|gamma", "Gamma")

	updated, err := book.UpdateUserProfile(ctx, u.ID, user.ProfileUpdate{
		DisplayName:     "Gamma Renamed",
		ProfileImageRef: "avatars/gamma.png",
	})
	if err != nil {
		t.Fatalf("UpdateUserProfile() error = %v", err)
	}
	if updated.DisplayName != "Gamma Renamed" {
		t.Errorf("DisplayName = %q, want %q", updated.DisplayName, "Gamma Renamed")
	}
	if updated.SequentialID != u.SequentialID {
		t.Errorf("SequentialID changed from %q to %q", u.SequentialID, updated.SequentialID)
	}

	if _, err := book.UpdateUserProfile(ctx, u.ID, user.ProfileUpdate{}); !spendbook.IsValidation(err) {
		t.Errorf("blank display name error = %v, want validation error", err)
	}

	if _, err := book.UpdateUserProfile(ctx, id.NewUserID(), user.ProfileUpdate{DisplayName: "X"}); !spendbook.IsNotFound(err) {
		t.Errorf("unknown user error = %v, want not found", err)
	}
}

func TestCreateExpense(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|owner", "Owner")

	e, err := book.CreateExpense(ctx, u.ID, expense.Input{
		Number:      7,
		Title:       "Fuel",
		AmountMinor: 325000,
		OccurredOn:  time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC),
		Notes:       "weekly fill-up",
	})
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	if e.Amount.Currency != "PKR" {
		t.Errorf("blank currency resolved to %q, want PKR default", e.Amount.Currency)
	}
	if e.OwnerSequentialID != u.SequentialID {
		t.Errorf("OwnerSequentialID = %q, want %q", e.OwnerSequentialID, u.SequentialID)
	}
	if e.OwnerDisplayName != u.DisplayName {
		t.Errorf("OwnerDisplayName = %q, want %q", e.OwnerDisplayName, u.DisplayName)
	}

	got, err := book.GetExpense(ctx, u.ID, e.ID)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if got.Number != 7 || got.Title != "Fuel" || got.Amount.Amount != 325000 || got.Notes != "weekly fill-up" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|val", "Val")
	occurred := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   expense.Input
	}{
		{"zero number", expense.Input{Title: "x", OccurredOn: occurred}},
		{"negative number", expense.Input{Number: -1, Title: "x", OccurredOn: occurred}},
		{"blank title", expense.Input{Number: 1, Title: "   ", OccurredOn: occurred}},
		{"zero amount", expense.Input{Number: 1, Title: "x", OccurredOn: occurred}},
		{"negative amount", expense.Input{Number: 1, Title: "x", AmountMinor: -5, OccurredOn: occurred}},
		{"zero occurred on", expense.Input{Number: 1, Title: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := book.CreateExpense(ctx, u.ID, tt.in); !spendbook.IsValidation(err) {
				t.Errorf("CreateExpense() error = %v, want validation error", err)
			}
		})
	}
}

func TestDuplicateExpenseNumber(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	alpha := registerOwner(t, book, "auth0|dup-a", "Dup A")
	beta := registerOwner(t, book, "auth0|dup-b", "Dup B")

	if _, err := book.CreateExpense(ctx, alpha.ID, sampleInput(7, "First", 1)); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	if _, err := book.CreateExpense(ctx, alpha.ID, sampleInput(7, "Second", 2)); !spendbook.IsDuplicate(err) {
		t.Errorf("same owner reuse error = %v, want duplicate", err)
	}

	// Another owner's ledger is independent.
	if _, err := book.CreateExpense(ctx, beta.ID, sampleInput(7, "Other ledger", 3)); err != nil {
		t.Errorf("different owner reuse error = %v, want nil", err)
	}
}

func TestDuplicateExpenseNumberConcurrent(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|dup-race", "Dup Race")

	// Concurrent submissions of the same (owner, number) pair: the
	// pre-check races, so the storage constraint decides. At most one
	// may win.
	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			_, err := book.CreateExpense(ctx, u.ID, sampleInput(11, "Contested", day%28+1))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var created, rejected int
	for err := range errs {
		switch {
		case err == nil:
			created++
		case spendbook.IsDuplicate(err):
			rejected++
		default:
			t.Errorf("CreateExpense() error = %v, want nil or duplicate", err)
		}
	}
	if created != 1 {
		t.Errorf("created = %d, want exactly 1", created)
	}
	if rejected != n-1 {
		t.Errorf("rejected = %d, want %d", rejected, n-1)
	}
}

func TestExpenseNotesNormalized(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|notes", "Notes")

	in := sampleInput(1, "Padded", 1)
	in.Notes = "  split with flatmates  "
	e, err := book.CreateExpense(ctx, u.ID, in)
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if e.Notes != "split with flatmates" {
		t.Errorf("Notes = %q, want surrounding whitespace trimmed", e.Notes)
	}

	// Whitespace-only notes collapse to unset.
	in = sampleInput(2, "Blank notes", 2)
	in.Notes = "   "
	e, err = book.CreateExpense(ctx, u.ID, in)
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if e.Notes != "" {
		t.Errorf("Notes = %q, want empty", e.Notes)
	}

	in.Notes = "\t\n"
	updated, err := book.UpdateExpense(ctx, u.ID, e.ID, in)
	if err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}
	if updated.Notes != "" {
		t.Errorf("updated Notes = %q, want empty", updated.Notes)
	}
}

func TestUpdateExpense(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|upd", "Upd")

	e1, err := book.CreateExpense(ctx, u.ID, sampleInput(1, "Keep", 1))
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	e2, err := book.CreateExpense(ctx, u.ID, sampleInput(2, "Change me", 2))
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	// Full replacement of the field set.
	in := expense.Input{
		Number:      2,
		Title:       "Changed",
		AmountMinor: 999,
		Currency:    "usd",
		OccurredOn:  time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
	}
	updated, err := book.UpdateExpense(ctx, u.ID, e2.ID, in)
	if err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}
	if updated.Title != "Changed" || updated.Amount.Amount != 999 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Amount.Currency != "USD" {
		t.Errorf("currency = %q, want normalized USD", updated.Amount.Currency)
	}
	if updated.Notes != "" {
		t.Errorf("omitted notes survived replacement: %q", updated.Notes)
	}

	// Moving onto another record's number is rejected and the record
	// keeps its pre-update state.
	in.Number = 1
	if _, err := book.UpdateExpense(ctx, u.ID, e2.ID, in); !spendbook.IsDuplicate(err) {
		t.Errorf("conflicting number error = %v, want duplicate", err)
	}
	after, err := book.GetExpense(ctx, u.ID, e2.ID)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if after.Number != 2 {
		t.Errorf("record number = %d after rejected update, want 2", after.Number)
	}

	// Keeping your own number on update is not a conflict.
	if _, err := book.UpdateExpense(ctx, u.ID, e1.ID, sampleInput(1, "Keep v2", 1)); err != nil {
		t.Errorf("same-number update error = %v, want nil", err)
	}
}

func TestSnapshotsAreStaleByDesign(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|snap", "Old Name")

	e, err := book.CreateExpense(ctx, u.ID, sampleInput(1, "Before rename", 1))
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	if _, err := book.UpdateUserProfile(ctx, u.ID, user.ProfileUpdate{DisplayName: "New Name"}); err != nil {
		t.Fatalf("UpdateUserProfile() error = %v", err)
	}

	// The rename does not rewrite the historical record.
	got, err := book.GetExpense(ctx, u.ID, e.ID)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if got.OwnerDisplayName != "Old Name" {
		t.Errorf("OwnerDisplayName = %q after rename, want stale %q", got.OwnerDisplayName, "Old Name")
	}

	// Editing the expense refreshes the display name snapshot but never
	// the sequential id.
	updated, err := book.UpdateExpense(ctx, u.ID, e.ID, sampleInput(1, "After rename", 1))
	if err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}
	if updated.OwnerDisplayName != "New Name" {
		t.Errorf("OwnerDisplayName = %q after edit, want refreshed %q", updated.OwnerDisplayName, "New Name")
	}
	if updated.OwnerSequentialID != u.SequentialID {
		t.Errorf("OwnerSequentialID = %q, want unchanged %q", updated.OwnerSequentialID, u.SequentialID)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	owner := registerOwner(t, book, "auth0|iso-owner", "Iso Owner")
	stranger := registerOwner(t, book, "auth0|iso-stranger", "Iso Stranger")

	e, err := book.CreateExpense(ctx, owner.ID, sampleInput(1, "Private", 1))
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	// A stranger sees the same error as for a record that never existed.
	if _, err := book.GetExpense(ctx, stranger.ID, e.ID); !spendbook.IsNotFound(err) {
		t.Errorf("stranger GetExpense() error = %v, want not found", err)
	}
	if err := book.DeleteExpense(ctx, stranger.ID, e.ID); !spendbook.IsNotFound(err) {
		t.Errorf("stranger DeleteExpense() error = %v, want not found", err)
	}
	if _, err := book.UpdateExpense(ctx, stranger.ID, e.ID, sampleInput(9, "Hijack", 2)); !spendbook.IsNotFound(err) {
		t.Errorf("stranger UpdateExpense() error = %v, want not found", err)
	}

	// The record is intact for its owner.
	got, err := book.GetExpense(ctx, owner.ID, e.ID)
	if err != nil {
		t.Fatalf("owner GetExpense() error = %v", err)
	}
	if got.Title != "Private" {
		t.Errorf("record changed by stranger operations: %+v", got)
	}
}

func TestDeleteExpense(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|del", "Del")
	e, err := book.CreateExpense(ctx, u.ID, sampleInput(1, "Doomed", 1))
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	if err := book.DeleteExpense(ctx, u.ID, e.ID); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	if _, err := book.GetExpense(ctx, u.ID, e.ID); !spendbook.IsNotFound(err) {
		t.Errorf("GetExpense() after delete error = %v, want not found", err)
	}

	// The number is free for reuse once the record is gone.
	if _, err := book.CreateExpense(ctx, u.ID, sampleInput(1, "Reborn", 2)); err != nil {
		t.Errorf("CreateExpense() with freed number error = %v, want nil", err)
	}
}

func TestNextExpenseNumber(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|next", "Next")

	next, err := book.NextExpenseNumber(ctx, u.ID)
	if err != nil {
		t.Fatalf("NextExpenseNumber() error = %v", err)
	}
	if next != 1 {
		t.Errorf("empty ledger suggestion = %d, want 1", next)
	}

	// Numbers need not be dense; the suggestion tracks the highest.
	if _, err := book.CreateExpense(ctx, u.ID, sampleInput(5, "Sparse", 1)); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	next, err = book.NextExpenseNumber(ctx, u.ID)
	if err != nil {
		t.Fatalf("NextExpenseNumber() error = %v", err)
	}
	if next != 6 {
		t.Errorf("suggestion = %d, want 6", next)
	}
}

func TestListExpensesPagination(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|page", "Page")
	for i := 1; i <= 5; i++ {
		if _, err := book.CreateExpense(ctx, u.ID, sampleInput(int64(i), "Item", i)); err != nil {
			t.Fatalf("CreateExpense(%d) error = %v", i, err)
		}
	}

	page1, err := book.ListExpenses(ctx, u.ID, expense.Filter{}, 1, 2)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if page1.TotalCount != 5 || page1.PageCount != 3 {
		t.Errorf("totals = %d/%d pages, want 5/3", page1.TotalCount, page1.PageCount)
	}
	// Newest first: days 5 and 4.
	if len(page1.Items) != 2 || page1.Items[0].Number != 5 || page1.Items[1].Number != 4 {
		t.Errorf("page 1 items wrong: %+v", page1.Items)
	}

	page3, err := book.ListExpenses(ctx, u.ID, expense.Filter{}, 3, 2)
	if err != nil {
		t.Fatalf("ListExpenses() page 3 error = %v", err)
	}
	if len(page3.Items) != 1 || page3.Items[0].Number != 1 {
		t.Errorf("page 3 items wrong: %+v", page3.Items)
	}

	// Beyond the result set is an empty page, not an error.
	page9, err := book.ListExpenses(ctx, u.ID, expense.Filter{}, 9, 2)
	if err != nil {
		t.Fatalf("ListExpenses() page 9 error = %v", err)
	}
	if len(page9.Items) != 0 || page9.TotalCount != 5 {
		t.Errorf("beyond-range page: %d items, total %d; want 0 and 5", len(page9.Items), page9.TotalCount)
	}

	// Page totals cover the whole filtered set, not the page.
	if len(page1.Totals) != 1 || page1.Totals[0].Count != 5 || page1.Totals[0].TotalMinorUnits != 500000 {
		t.Errorf("page totals wrong: %+v", page1.Totals)
	}
}

func TestListExpensesDateRange(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|dates", "Dates")

	evening := expense.Input{
		Number:      1,
		Title:       "Dinner",
		AmountMinor: 40000,
		OccurredOn:  time.Date(2025, 3, 10, 21, 15, 0, 0, time.UTC),
	}
	if _, err := book.CreateExpense(ctx, u.ID, evening); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if _, err := book.CreateExpense(ctx, u.ID, sampleInput(2, "Next day", 11)); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	// A To bound given as midnight still covers that whole day.
	f := expense.Filter{
		From: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	page, err := book.ListExpenses(ctx, u.ID, f, 1, 10)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if page.TotalCount != 1 || len(page.Items) != 1 || page.Items[0].Number != 1 {
		t.Errorf("same-day range returned %+v, want only the evening record", page.Items)
	}
}

func TestListExpensesSearch(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|search", "Farhan")

	groceries := sampleInput(1, "Groceries", 1)
	groceries.Notes = "imtiaz superstore"
	if _, err := book.CreateExpense(ctx, u.ID, groceries); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if _, err := book.CreateExpense(ctx, u.ID, sampleInput(2, "Rent", 2)); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	tests := []struct {
		name   string
		search string
		want   int64
	}{
		{"title case-insensitive", "GROC", 1},
		{"notes", "superstore", 1},
		{"owner display name matches all", "farhan", 2},
		{"owner sequential id", "USER001", 2},
		{"no match", "xyzzy", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := book.ListExpenses(ctx, u.ID, expense.Filter{Search: tt.search}, 1, 10)
			if err != nil {
				t.Fatalf("ListExpenses(%q) error = %v", tt.search, err)
			}
			if page.TotalCount != tt.want {
				t.Errorf("search %q total = %d, want %d", tt.search, page.TotalCount, tt.want)
			}
		})
	}
}

func TestSummarizeByCurrency(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	u := registerOwner(t, book, "auth0|sum", "Sum")

	inputs := []expense.Input{
		{Number: 1, Title: "A", AmountMinor: 100, OccurredOn: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Number: 2, Title: "B", AmountMinor: 300, OccurredOn: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Number: 3, Title: "C", AmountMinor: 50, Currency: "USD", OccurredOn: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, in := range inputs {
		if _, err := book.CreateExpense(ctx, u.ID, in); err != nil {
			t.Fatalf("CreateExpense(%d) error = %v", in.Number, err)
		}
	}

	summaries, err := book.SummarizeByCurrency(ctx, u.ID, expense.Filter{})
	if err != nil {
		t.Fatalf("SummarizeByCurrency() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2 (currencies never mixed)", len(summaries))
	}

	// Sorted by currency code: PKR, USD.
	pkr, usd := summaries[0], summaries[1]
	if pkr.Currency != "PKR" || pkr.TotalMinorUnits != 400 || pkr.Count != 2 || pkr.AverageMinorUnits != 200 {
		t.Errorf("PKR summary = %+v", pkr)
	}
	if usd.Currency != "USD" || usd.TotalMinorUnits != 50 || usd.Count != 1 || usd.AverageMinorUnits != 50 {
		t.Errorf("USD summary = %+v", usd)
	}

	// Conservation: per-currency totals equal the sum of the records.
	var total int64
	var count int64
	for _, s := range summaries {
		total += s.TotalMinorUnits
		count += s.Count
	}
	if total != 450 || count != 3 {
		t.Errorf("conservation broken: total %d count %d, want 450 and 3", total, count)
	}
}
