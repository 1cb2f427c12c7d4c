// Package memory provides an in-memory Store implementation for tests,
// examples, and single-process experiments. Nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xraph/spendbook"
	"github.com/xraph/spendbook/expense"
	"github.com/xraph/spendbook/id"
	spendbookstore "github.com/xraph/spendbook/store"
	"github.com/xraph/spendbook/user"
)

// compile-time interface check
var _ spendbookstore.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Counter storage
	counters map[string]int64

	// User storage
	users           map[string]*user.User
	usersByExternal map[string]string // external identity id -> user id

	// Expense storage
	expenses map[string]*expense.Expense

	// insertOrder gives each expense a monotonic rank so that listings
	// break occurred-on ties deterministically.
	insertOrder map[string]int64
	nextOrder   int64
}

func New() *Store {
	return &Store{
		counters:        make(map[string]int64),
		users:           make(map[string]*user.User),
		usersByExternal: make(map[string]string),
		expenses:        make(map[string]*expense.Expense),
		insertOrder:     make(map[string]int64),
	}
}

// Counter Store implementation

func (s *Store) NextSequence(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[name]++
	return s.counters[name], nil
}

func (s *Store) CurrentSequence(_ context.Context, name string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.counters[name], nil
}

// User Store implementation

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID.String()]; exists {
		return spendbook.ErrAlreadyExists
	}
	if _, exists := s.usersByExternal[u.ExternalIdentityID]; exists {
		return spendbook.ErrDuplicateUser
	}
	s.users[u.ID.String()] = u
	s.usersByExternal[u.ExternalIdentityID] = u.ID.String()
	return nil
}

func (s *Store) GetUser(_ context.Context, userID id.UserID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[userID.String()]; ok {
		return u, nil
	}
	return nil, spendbook.ErrUserNotFound
}

func (s *Store) GetUserByExternalID(_ context.Context, externalIdentityID string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if uid, ok := s.usersByExternal[externalIdentityID]; ok {
		return s.users[uid], nil
	}
	return nil, spendbook.ErrUserNotFound
}

func (s *Store) UpdateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID.String()]; !ok {
		return spendbook.ErrUserNotFound
	}
	s.users[u.ID.String()] = u
	return nil
}

// Expense Store implementation

func (s *Store) CreateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenses[e.ID.String()]; exists {
		return spendbook.ErrAlreadyExists
	}
	// The in-memory equivalent of the compound unique constraint on
	// (owner, number). The map write below happens under the same lock,
	// so the check-then-insert is atomic here.
	for _, other := range s.expenses {
		if other.OwnerID == e.OwnerID && other.Number == e.Number {
			return spendbook.ErrDuplicateExpenseNumber
		}
	}
	s.expenses[e.ID.String()] = e
	s.nextOrder++
	s.insertOrder[e.ID.String()] = s.nextOrder
	return nil
}

func (s *Store) GetExpense(_ context.Context, ownerID id.UserID, expenseID id.ExpenseID) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.expenses[expenseID.String()]; ok && e.OwnerID == ownerID {
		return e, nil
	}
	return nil, spendbook.ErrExpenseNotFound
}

func (s *Store) UpdateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.expenses[e.ID.String()]
	if !ok || existing.OwnerID != e.OwnerID {
		return spendbook.ErrExpenseNotFound
	}
	for _, other := range s.expenses {
		if other.ID != e.ID && other.OwnerID == e.OwnerID && other.Number == e.Number {
			return spendbook.ErrDuplicateExpenseNumber
		}
	}
	s.expenses[e.ID.String()] = e
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, ownerID id.UserID, expenseID id.ExpenseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[expenseID.String()]
	if !ok || e.OwnerID != ownerID {
		return spendbook.ErrExpenseNotFound
	}
	delete(s.expenses, expenseID.String())
	delete(s.insertOrder, expenseID.String())
	return nil
}

func (s *Store) ListExpenses(_ context.Context, ownerID id.UserID, opts expense.ListOpts) ([]*expense.Expense, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filtered(ownerID, opts.Filter)
	total := int64(len(matched))

	start := opts.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	return matched[start:end], total, nil
}

func (s *Store) SummarizeExpenses(_ context.Context, ownerID id.UserID, f expense.Filter) ([]expense.CurrencySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return expense.SummarizeByCurrency(s.filtered(ownerID, f)), nil
}

func (s *Store) ExpenseNumberExists(_ context.Context, ownerID id.UserID, number int64, exclude id.ExpenseID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.expenses {
		if e.OwnerID == ownerID && e.Number == number && e.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) HighestExpenseNumber(_ context.Context, ownerID id.UserID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var highest int64
	for _, e := range s.expenses {
		if e.OwnerID == ownerID && e.Number > highest {
			highest = e.Number
		}
	}
	return highest, nil
}

// filtered returns the owner's matching expenses sorted by OccurredOn
// descending, insertion order ascending on ties. Callers hold s.mu.
func (s *Store) filtered(ownerID id.UserID, f expense.Filter) []*expense.Expense {
	matched := make([]*expense.Expense, 0)
	search := strings.ToLower(f.Search)

	for _, e := range s.expenses {
		if e.OwnerID != ownerID {
			continue
		}
		if !f.From.IsZero() && e.OccurredOn.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.OccurredOn.After(f.To) {
			continue
		}
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].OccurredOn.Equal(matched[j].OccurredOn) {
			return matched[i].OccurredOn.After(matched[j].OccurredOn)
		}
		return s.insertOrder[matched[i].ID.String()] < s.insertOrder[matched[j].ID.String()]
	})

	return matched
}

func matchesSearch(e *expense.Expense, search string) bool {
	return strings.Contains(strings.ToLower(e.Title), search) ||
		strings.Contains(strings.ToLower(e.OwnerDisplayName), search) ||
		strings.Contains(strings.ToLower(e.OwnerSequentialID), search) ||
		strings.Contains(strings.ToLower(e.Notes), search)
}

// Core methods

func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}
