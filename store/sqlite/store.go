// Package sqlite provides a SQLite-backed Store via Grove ORM, suited to
// single-process deployments that still want durable records.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	spendbook "github.com/xraph/spendbook"
	"github.com/xraph/spendbook/expense"
	"github.com/xraph/spendbook/id"
	spendbookstore "github.com/xraph/spendbook/store"
	"github.com/xraph/spendbook/user"
)

// compile-time interface check
var _ spendbookstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("spendbook/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("spendbook/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Counter Store ====================

// NextSequence runs the increment-and-fetch as one upsert statement so
// concurrent allocations serialize inside the database.
func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := s.sdb.NewRaw(`
		INSERT INTO spendbook_counters (name, sequence) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET sequence = spendbook_counters.sequence + 1
		RETURNING sequence
	`, name).Scan(ctx, &seq)
	if err != nil {
		return 0, fmt.Errorf("spendbook/sqlite: next sequence %q: %w", name, err)
	}
	return seq, nil
}

func (s *Store) CurrentSequence(ctx context.Context, name string) (int64, error) {
	m := new(counterModel)
	err := s.sdb.NewSelect(m).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("spendbook/sqlite: current sequence %q: %w", name, err)
	}
	return m.Sequence, nil
}

// ==================== User Store ====================

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	m := toUserModel(u)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return spendbook.ErrDuplicateUser
		}
		return fmt.Errorf("spendbook/sqlite: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	m := new(userModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", userID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, spendbook.ErrUserNotFound
		}
		return nil, fmt.Errorf("spendbook/sqlite: get user: %w", err)
	}
	return fromUserModel(m)
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalIdentityID string) (*user.User, error) {
	m := new(userModel)
	err := s.sdb.NewSelect(m).
		Where("external_identity_id = ?", externalIdentityID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, spendbook.ErrUserNotFound
		}
		return nil, fmt.Errorf("spendbook/sqlite: get user by external id: %w", err)
	}
	return fromUserModel(m)
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	m := toUserModel(u)
	m.UpdatedAt = now()

	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("spendbook/sqlite: update user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("spendbook/sqlite: update user: %w", err)
	}
	if rows == 0 {
		return spendbook.ErrUserNotFound
	}
	return nil
}

// ==================== Expense Store ====================

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	m := toExpenseModel(e)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	if err != nil {
		// idx_spendbook_expenses_owner_number fired: the authoritative
		// duplicate signal, whatever any pre-check said.
		if isUniqueViolation(err) {
			return spendbook.ErrDuplicateExpenseNumber
		}
		return fmt.Errorf("spendbook/sqlite: create expense: %w", err)
	}
	return nil
}

func (s *Store) GetExpense(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) (*expense.Expense, error) {
	m := new(expenseModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", expenseID.String()).
		Where("owner_id = ?", ownerID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, spendbook.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("spendbook/sqlite: get expense: %w", err)
	}
	return fromExpenseModel(m)
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	m := toExpenseModel(e)
	m.UpdatedAt = now()

	res, err := s.sdb.NewUpdate(m).
		WherePK().
		Where("owner_id = ?", m.OwnerID).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return spendbook.ErrDuplicateExpenseNumber
		}
		return fmt.Errorf("spendbook/sqlite: update expense: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("spendbook/sqlite: update expense: %w", err)
	}
	if rows == 0 {
		return spendbook.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) error {
	res, err := s.sdb.NewDelete((*expenseModel)(nil)).
		Where("id = ?", expenseID.String()).
		Where("owner_id = ?", ownerID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("spendbook/sqlite: delete expense: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("spendbook/sqlite: delete expense: %w", err)
	}
	if rows == 0 {
		return spendbook.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context, ownerID id.UserID, opts expense.ListOpts) ([]*expense.Expense, int64, error) {
	conds := expenseConds(ownerID, opts.Filter)

	var total int64
	countSQL := "SELECT COUNT(*) FROM spendbook_expenses WHERE " + condExprs(conds)
	if err := s.sdb.NewRaw(countSQL, condArgs(conds)...).Scan(ctx, &total); err != nil {
		return nil, 0, fmt.Errorf("spendbook/sqlite: count expenses: %w", err)
	}

	var models []expenseModel
	q := s.sdb.NewSelect(&models)
	for _, c := range conds {
		q = q.Where(c.expr, c.args...)
	}
	// Ties on occurred_on fall back to id; TypeIDs are K-sortable, so
	// ascending id is insertion order.
	q = q.OrderExpr("occurred_on DESC, id ASC")

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, 0, fmt.Errorf("spendbook/sqlite: list expenses: %w", err)
	}

	result := make([]*expense.Expense, len(models))
	for i := range models {
		e, err := fromExpenseModel(&models[i])
		if err != nil {
			return nil, 0, err
		}
		result[i] = e
	}
	return result, total, nil
}

func (s *Store) SummarizeExpenses(ctx context.Context, ownerID id.UserID, f expense.Filter) ([]expense.CurrencySummary, error) {
	var models []expenseModel
	q := s.sdb.NewSelect(&models)
	for _, c := range expenseConds(ownerID, f) {
		q = q.Where(c.expr, c.args...)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("spendbook/sqlite: summarize expenses: %w", err)
	}

	items := make([]*expense.Expense, len(models))
	for i := range models {
		e, err := fromExpenseModel(&models[i])
		if err != nil {
			return nil, err
		}
		items[i] = e
	}
	return expense.SummarizeByCurrency(items), nil
}

func (s *Store) ExpenseNumberExists(ctx context.Context, ownerID id.UserID, number int64, exclude id.ExpenseID) (bool, error) {
	var total int64
	query := "SELECT COUNT(*) FROM spendbook_expenses WHERE owner_id = ? AND number = ?"
	args := []any{ownerID.String(), number}
	if !exclude.IsNil() {
		query += " AND id != ?"
		args = append(args, exclude.String())
	}

	if err := s.sdb.NewRaw(query, args...).Scan(ctx, &total); err != nil {
		return false, fmt.Errorf("spendbook/sqlite: expense number exists: %w", err)
	}
	return total > 0, nil
}

func (s *Store) HighestExpenseNumber(ctx context.Context, ownerID id.UserID) (int64, error) {
	var highest int64
	err := s.sdb.NewRaw(`
		SELECT COALESCE(MAX(number), 0) FROM spendbook_expenses WHERE owner_id = ?
	`, ownerID.String()).Scan(ctx, &highest)
	if err != nil {
		return 0, fmt.Errorf("spendbook/sqlite: highest expense number: %w", err)
	}
	return highest, nil
}

// ==================== Helpers ====================

// cond is one WHERE fragment with its bind arguments, shared between the
// COUNT query and the page query so both always see the same filter.
type cond struct {
	expr string
	args []any
}

func expenseConds(ownerID id.UserID, f expense.Filter) []cond {
	conds := []cond{{expr: "owner_id = ?", args: []any{ownerID.String()}}}

	if !f.From.IsZero() {
		conds = append(conds, cond{expr: "occurred_on >= ?", args: []any{f.From}})
	}
	if !f.To.IsZero() {
		conds = append(conds, cond{expr: "occurred_on <= ?", args: []any{f.To}})
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		conds = append(conds, cond{
			expr: `(lower(title) LIKE ? ESCAPE '\' OR lower(owner_display_name) LIKE ? ESCAPE '\' OR lower(owner_sequential_id) LIKE ? ESCAPE '\' OR lower(notes) LIKE ? ESCAPE '\')`,
			args: []any{pattern, pattern, pattern, pattern},
		})
	}

	return conds
}

func condExprs(conds []cond) string {
	exprs := make([]string, len(conds))
	for i, c := range conds {
		exprs[i] = c.expr
	}
	return strings.Join(exprs, " AND ")
}

func condArgs(conds []cond) []any {
	var args []any
	for _, c := range conds {
		args = append(args, c.args...)
	}
	return args
}

// escapeLike escapes LIKE wildcards so user-supplied search text matches
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation detects SQLite unique constraint failures.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
