package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/xraph/spendbook"
	"github.com/xraph/spendbook/expense"
	"github.com/xraph/spendbook/id"
	"github.com/xraph/spendbook/store/memory"
	"github.com/xraph/spendbook/types"
)

func newExpense(owner id.UserID, number int64, title string, day int) *expense.Expense {
	return &expense.Expense{
		Entity:            types.NewEntity(),
		ID:                id.NewExpenseID(),
		OwnerID:           owner,
		OwnerSequentialID: "user001",
		OwnerDisplayName:  "Asad",
		Number:            number,
		Title:             title,
		Amount:            types.PKR(1000),
		OccurredOn:        time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestNextSequenceConcurrent(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	const n = 100
	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.NextSequence(ctx, "userId")
			if err != nil {
				t.Errorf("NextSequence: %v", err)
				return
			}
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for v := range results {
		if seen[v] {
			t.Errorf("duplicate sequence value %d", v)
		}
		seen[v] = true
	}
	for i := int64(1); i <= n; i++ {
		if !seen[i] {
			t.Errorf("missing sequence value %d", i)
		}
	}
}

func TestSequenceNamespacesIndependent(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		if v, _ := s.NextSequence(ctx, "userId"); v != i {
			t.Errorf("userId: got %d, want %d", v, i)
		}
	}
	if v, _ := s.NextSequence(ctx, "expenseNumber"); v != 1 {
		t.Errorf("expenseNumber starts at: got %d, want 1", v)
	}
	if v, _ := s.CurrentSequence(ctx, "userId"); v != 3 {
		t.Errorf("CurrentSequence(userId): got %d, want 3", v)
	}
	if v, _ := s.CurrentSequence(ctx, "unseen"); v != 0 {
		t.Errorf("CurrentSequence(unseen): got %d, want 0", v)
	}
}

func TestCreateExpenseDuplicateNumber(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := id.NewUserID()

	if err := s.CreateExpense(ctx, newExpense(owner, 5, "First", 1)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := s.CreateExpense(ctx, newExpense(owner, 5, "Second", 2))
	if !errors.Is(err, spendbook.ErrDuplicateExpenseNumber) {
		t.Errorf("got %v, want ErrDuplicateExpenseNumber", err)
	}

	// Same number for a different owner is allowed.
	if err := s.CreateExpense(ctx, newExpense(id.NewUserID(), 5, "Other owner", 3)); err != nil {
		t.Errorf("other owner create: %v", err)
	}
}

func TestGetExpenseOwnershipScope(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := id.NewUserID()
	stranger := id.NewUserID()

	e := newExpense(owner, 1, "Groceries", 1)
	if err := s.CreateExpense(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.GetExpense(ctx, owner, e.ID); err != nil {
		t.Errorf("owner get: %v", err)
	}
	if _, err := s.GetExpense(ctx, stranger, e.ID); !errors.Is(err, spendbook.ErrExpenseNotFound) {
		t.Errorf("stranger get: got %v, want ErrExpenseNotFound", err)
	}
	if err := s.DeleteExpense(ctx, stranger, e.ID); !errors.Is(err, spendbook.ErrExpenseNotFound) {
		t.Errorf("stranger delete: got %v, want ErrExpenseNotFound", err)
	}
	// The record must still be there after the stranger's attempts.
	if _, err := s.GetExpense(ctx, owner, e.ID); err != nil {
		t.Errorf("owner get after stranger ops: %v", err)
	}
}

func TestListExpensesFilterAndPaginate(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := id.NewUserID()

	for i := 1; i <= 5; i++ {
		e := newExpense(owner, int64(i), fmt.Sprintf("Expense %d", i), i)
		if err := s.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	// Outside the filter window.
	feb := newExpense(owner, 6, "February", 1)
	feb.OccurredOn = time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	if err := s.CreateExpense(ctx, feb); err != nil {
		t.Fatalf("create outside window: %v", err)
	}

	f := expense.Filter{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 31, 23, 59, 59, 999000000, time.UTC),
	}

	items, total, err := s.ListExpenses(ctx, owner, expense.ListOpts{Filter: f, Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Errorf("total: got %d, want 5", total)
	}
	if len(items) != 2 {
		t.Fatalf("page size: got %d, want 2", len(items))
	}
	// Most recent first.
	if items[0].Number != 5 || items[1].Number != 4 {
		t.Errorf("order: got %d,%d, want 5,4", items[0].Number, items[1].Number)
	}

	// Offset past the end returns empty, not an error.
	items, total, err = s.ListExpenses(ctx, owner, expense.ListOpts{Filter: f, Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("list beyond range: %v", err)
	}
	if total != 5 || len(items) != 0 {
		t.Errorf("beyond range: got total %d, %d items", total, len(items))
	}
}

func TestListExpensesSearch(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := id.NewUserID()

	a := newExpense(owner, 1, "Groceries", 1)
	b := newExpense(owner, 2, "Fuel", 2)
	b.Notes = "Shell station"
	c := newExpense(owner, 3, "Rent", 3)
	for _, e := range []*expense.Expense{a, b, c} {
		if err := s.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tests := []struct {
		search string
		want   int
	}{
		{"groceries", 1}, // title, case-insensitive
		{"GROC", 1},
		{"shell", 1},   // notes
		{"user001", 3}, // owner sequential id matches all
		{"asad", 3},    // owner display name matches all
		{"nothing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			_, total, err := s.ListExpenses(ctx, owner, expense.ListOpts{
				Filter: expense.Filter{Search: tt.search},
				Limit:  10,
			})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if total != int64(tt.want) {
				t.Errorf("search %q: got %d, want %d", tt.search, total, tt.want)
			}
		})
	}
}

func TestHighestExpenseNumber(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	owner := id.NewUserID()

	if v, _ := s.HighestExpenseNumber(ctx, owner); v != 0 {
		t.Errorf("empty owner: got %d, want 0", v)
	}

	for _, n := range []int64{3, 7, 2} {
		if err := s.CreateExpense(ctx, newExpense(owner, n, "X", int(n))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if v, _ := s.HighestExpenseNumber(ctx, owner); v != 7 {
		t.Errorf("got %d, want 7", v)
	}
}
