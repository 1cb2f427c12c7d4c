package spendbook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xraph/spendbook/counter"
	"github.com/xraph/spendbook/expense"
	"github.com/xraph/spendbook/id"
	"github.com/xraph/spendbook/plugin"
	"github.com/xraph/spendbook/store"
	"github.com/xraph/spendbook/types"
	"github.com/xraph/spendbook/user"
)

// Book is the main expense ledger engine.
type Book struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Configuration
	defaultCurrency string
	pageSize        int
}

const defaultPageSize = 20

// New creates a new Book instance.
func New(s store.Store, opts ...Option) *Book {
	b := &Book{
		store:           s,
		plugins:         plugin.NewRegistry(),
		logger:          slog.Default(),
		defaultCurrency: types.DefaultCurrency,
		pageSize:        defaultPageSize,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Option configures a Book instance.
type Option func(*Book)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Book) {
		b.logger = logger
		b.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(b *Book) {
		_ = b.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithDefaultCurrency sets the currency assumed when an input leaves it blank.
func WithDefaultCurrency(currency string) Option {
	return func(b *Book) {
		b.defaultCurrency = types.NormalizeCurrency(currency)
	}
}

// WithPageSize sets the page size used when a listing does not specify one.
func WithPageSize(size int) Option {
	return func(b *Book) {
		if size > 0 {
			b.pageSize = size
		}
	}
}

// Start prepares the store and initializes plugins.
func (b *Book) Start(ctx context.Context) error {
	if err := b.store.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	b.plugins.EmitInit(ctx, b)

	b.logger.Info("spendbook started",
		"default_currency", b.defaultCurrency,
		"page_size", b.pageSize,
	)

	return nil
}

// Stop shuts down the Book.
func (b *Book) Stop() error {
	ctx := context.Background()
	b.plugins.EmitShutdown(ctx)

	return b.store.Close()
}

// ──────────────────────────────────────────────────
// Sequence Allocation
// ──────────────────────────────────────────────────

// AllocateSequence returns the next value of the named counter. The counter
// is created on demand; the first allocation returns 1 and no value is ever
// handed out twice, even under concurrent callers.
func (b *Book) AllocateSequence(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ValidationError{Field: "name", Message: "counter name is required"}
	}

	seq, err := b.store.NextSequence(ctx, name)
	if err != nil {
		return 0, b.allocatorFailure(err)
	}

	b.plugins.EmitSequenceAllocated(ctx, name, seq)

	b.logger.Debug("sequence allocated",
		"counter", name,
		"value", seq,
	)

	return seq, nil
}

// AllocateUserSequence allocates the next value of the user identity
// counter.
func (b *Book) AllocateUserSequence(ctx context.Context) (int64, error) {
	return b.AllocateSequence(ctx, counter.NamespaceUserID)
}

// CurrentSequence returns the last value the named counter handed out, or 0
// if the counter has never allocated. It is a read-only peek and is stale
// the moment it returns.
func (b *Book) CurrentSequence(ctx context.Context, name string) (int64, error) {
	seq, err := b.store.CurrentSequence(ctx, name)
	if err != nil {
		return 0, b.allocatorFailure(err)
	}
	return seq, nil
}

// ──────────────────────────────────────────────────
// User Management
// ──────────────────────────────────────────────────

// RegisterUser registers an owner on first sign-in. Registration is
// idempotent on the external identity id: calling it again for a known
// identity returns the existing record untouched.
func (b *Book) RegisterUser(ctx context.Context, reg user.Registration) (*user.User, error) {
	if err := validateRegistration(reg); err != nil {
		return nil, err
	}

	if existing, err := b.store.GetUserByExternalID(ctx, reg.ExternalIdentityID); err == nil {
		return existing, nil
	} else if !IsNotFound(err) {
		return nil, b.storeFailure(err)
	}

	seq, err := b.store.NextSequence(ctx, counter.NamespaceUserID)
	if err != nil {
		return nil, b.allocatorFailure(err)
	}

	u := &user.User{
		Entity:             types.NewEntity(),
		ID:                 id.NewUserID(),
		SequentialID:       user.FormatSequentialID(seq),
		ExternalIdentityID: reg.ExternalIdentityID,
		Email:              reg.Email,
		DisplayName:        reg.DisplayName,
		ProfileImageRef:    reg.ProfileImageRef,
	}

	if err := b.store.CreateUser(ctx, u); err != nil {
		// Lost a registration race for the same identity. The winner's
		// record is the canonical one; the allocated sequence value is
		// simply abandoned, leaving a gap, which is fine.
		if IsDuplicate(err) {
			winner, err := b.store.GetUserByExternalID(ctx, reg.ExternalIdentityID)
			if err != nil {
				return nil, b.storeFailure(err)
			}
			return winner, nil
		}
		return nil, b.storeFailure(err)
	}

	b.plugins.EmitUserRegistered(ctx, u)

	b.logger.Info("user registered",
		"user_id", u.ID,
		"sequential_id", u.SequentialID,
	)

	return u, nil
}

// GetUser retrieves a user by ID.
func (b *Book) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	u, err := b.store.GetUser(ctx, userID)
	if err != nil {
		return nil, b.storeFailure(err)
	}
	return u, nil
}

// GetUserByExternalID retrieves a user by external identity id.
func (b *Book) GetUserByExternalID(ctx context.Context, externalIdentityID string) (*user.User, error) {
	u, err := b.store.GetUserByExternalID(ctx, externalIdentityID)
	if err != nil {
		return nil, b.storeFailure(err)
	}
	return u, nil
}

// UpdateUserProfile updates the mutable profile fields. Snapshots already
// denormalized onto expense records are left as they were written.
func (b *Book) UpdateUserProfile(ctx context.Context, userID id.UserID, upd user.ProfileUpdate) (*user.User, error) {
	if strings.TrimSpace(upd.DisplayName) == "" {
		return nil, ValidationError{Field: "display_name", Message: "display name is required"}
	}

	u, err := b.store.GetUser(ctx, userID)
	if err != nil {
		return nil, b.storeFailure(err)
	}

	old := *u
	u.DisplayName = upd.DisplayName
	u.ProfileImageRef = upd.ProfileImageRef
	u.Touch()

	if err := b.store.UpdateUser(ctx, u); err != nil {
		return nil, b.storeFailure(err)
	}

	b.plugins.EmitUserProfileUpdated(ctx, &old, u)
	return u, nil
}

// ──────────────────────────────────────────────────
// Expense Management
// ──────────────────────────────────────────────────

// CreateExpense records a new expense for the owner. The owner's sequential
// id and display name are snapshotted onto the record at this moment.
func (b *Book) CreateExpense(ctx context.Context, ownerID id.UserID, in expense.Input) (*expense.Expense, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	owner, err := b.store.GetUser(ctx, ownerID)
	if err != nil {
		return nil, b.storeFailure(err)
	}

	// Fast-path duplicate check for a friendly error before the write.
	// The storage constraint remains the authority under races.
	taken, err := b.store.ExpenseNumberExists(ctx, ownerID, in.Number, id.Nil)
	if err != nil {
		return nil, b.storeFailure(err)
	}
	if taken {
		b.plugins.EmitDuplicateNumberRejected(ctx, ownerID.String(), in.Number)
		return nil, ErrDuplicateExpenseNumber
	}

	e := &expense.Expense{
		Entity:            types.NewEntity(),
		ID:                id.NewExpenseID(),
		OwnerID:           ownerID,
		OwnerSequentialID: owner.SequentialID,
		OwnerDisplayName:  owner.DisplayName,
		Number:            in.Number,
		Title:             in.Title,
		Amount:            b.money(in.AmountMinor, in.Currency),
		OccurredOn:        in.OccurredOn,
		Notes:             normalizeNotes(in.Notes),
	}

	if err := b.store.CreateExpense(ctx, e); err != nil {
		if IsDuplicate(err) {
			b.plugins.EmitDuplicateNumberRejected(ctx, ownerID.String(), in.Number)
			return nil, err
		}
		return nil, b.storeFailure(err)
	}

	b.plugins.EmitExpenseCreated(ctx, e)

	b.logger.Info("expense created",
		"expense_id", e.ID,
		"owner_id", ownerID,
		"number", e.Number,
		"amount", e.Amount,
	)

	return e, nil
}

// GetExpense retrieves one of the owner's expenses. An expense belonging to
// another owner is indistinguishable from one that does not exist.
func (b *Book) GetExpense(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) (*expense.Expense, error) {
	e, err := b.store.GetExpense(ctx, ownerID, expenseID)
	if err != nil {
		return nil, b.storeFailure(err)
	}
	return e, nil
}

// UpdateExpense replaces the mutable field set of an existing expense. The
// owner display name snapshot is refreshed from the current owner record;
// the sequential id snapshot keeps its creation-time value.
func (b *Book) UpdateExpense(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID, in expense.Input) (*expense.Expense, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	e, err := b.store.GetExpense(ctx, ownerID, expenseID)
	if err != nil {
		return nil, b.storeFailure(err)
	}

	if in.Number != e.Number {
		taken, err := b.store.ExpenseNumberExists(ctx, ownerID, in.Number, expenseID)
		if err != nil {
			return nil, b.storeFailure(err)
		}
		if taken {
			b.plugins.EmitDuplicateNumberRejected(ctx, ownerID.String(), in.Number)
			return nil, ErrDuplicateExpenseNumber
		}
	}

	owner, err := b.store.GetUser(ctx, ownerID)
	if err != nil {
		return nil, b.storeFailure(err)
	}

	old := *e
	e.Number = in.Number
	e.Title = in.Title
	e.Amount = b.money(in.AmountMinor, in.Currency)
	e.OccurredOn = in.OccurredOn
	e.Notes = normalizeNotes(in.Notes)
	e.OwnerDisplayName = owner.DisplayName
	e.Touch()

	if err := b.store.UpdateExpense(ctx, e); err != nil {
		if IsDuplicate(err) {
			b.plugins.EmitDuplicateNumberRejected(ctx, ownerID.String(), in.Number)
			return nil, err
		}
		return nil, b.storeFailure(err)
	}

	b.plugins.EmitExpenseUpdated(ctx, &old, e)
	return e, nil
}

// DeleteExpense removes one of the owner's expenses.
func (b *Book) DeleteExpense(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) error {
	e, err := b.store.GetExpense(ctx, ownerID, expenseID)
	if err != nil {
		return b.storeFailure(err)
	}

	if err := b.store.DeleteExpense(ctx, ownerID, expenseID); err != nil {
		return b.storeFailure(err)
	}

	b.plugins.EmitExpenseDeleted(ctx, e)

	b.logger.Info("expense deleted",
		"expense_id", expenseID,
		"owner_id", ownerID,
	)

	return nil
}

// NextExpenseNumber suggests the next reference number for the owner: one
// past the highest number in use, or 1 for an empty ledger. It is advisory
// only; a concurrent write can take the number before the caller does.
func (b *Book) NextExpenseNumber(ctx context.Context, ownerID id.UserID) (int64, error) {
	highest, err := b.store.HighestExpenseNumber(ctx, ownerID)
	if err != nil {
		return 0, b.storeFailure(err)
	}
	return highest + 1, nil
}

// ──────────────────────────────────────────────────
// Listing and Aggregation
// ──────────────────────────────────────────────────

// ListExpenses returns one page of the owner's expenses matching the filter,
// sorted by occurrence date descending. Pages are 1-based; a page beyond the
// result set is empty, not an error. pageSize <= 0 falls back to the
// configured default.
func (b *Book) ListExpenses(ctx context.Context, ownerID id.UserID, f expense.Filter, page, pageSize int) (*expense.Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = b.pageSize
	}

	f = normalizeFilter(f)

	items, total, err := b.store.ListExpenses(ctx, ownerID, expense.ListOpts{
		Filter: f,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, b.storeFailure(err)
	}

	totals, err := b.store.SummarizeExpenses(ctx, ownerID, f)
	if err != nil {
		return nil, b.storeFailure(err)
	}

	pageCount := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pageCount++
	}

	return &expense.Page{
		Items:      items,
		TotalCount: total,
		PageCount:  pageCount,
		Totals:     totals,
	}, nil
}

// SummarizeByCurrency aggregates the owner's matching expenses per currency.
// Currencies are never mixed; each currency present yields its own summary.
func (b *Book) SummarizeByCurrency(ctx context.Context, ownerID id.UserID, f expense.Filter) ([]expense.CurrencySummary, error) {
	summaries, err := b.store.SummarizeExpenses(ctx, ownerID, normalizeFilter(f))
	if err != nil {
		return nil, b.storeFailure(err)
	}

	b.plugins.EmitSummaryComputed(ctx, ownerID.String(), summaries)
	return summaries, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func (b *Book) money(amountMinor int64, currency string) types.Money {
	if strings.TrimSpace(currency) == "" {
		currency = b.defaultCurrency
	}
	return types.New(amountMinor, currency)
}

// storeFailure maps unexpected store errors onto ErrStoreUnavailable while
// letting domain sentinels through untouched.
func (b *Book) storeFailure(err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// allocatorFailure is storeFailure for the counter path.
func (b *Book) allocatorFailure(err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrAllocatorUnavailable, err)
}

func isDomainError(err error) bool {
	return IsNotFound(err) || IsDuplicate(err) || IsValidation(err)
}

// normalizeNotes trims the free-text notes field; whitespace-only notes
// collapse to unset.
func normalizeNotes(notes string) string {
	return strings.TrimSpace(notes)
}

// normalizeFilter pushes the To bound to the end of its calendar day so an
// inclusive same-day range covers the whole day. Done once here so every
// store backend sees the same range.
func normalizeFilter(f expense.Filter) expense.Filter {
	if !f.To.IsZero() {
		y, m, d := f.To.Date()
		f.To = time.Date(y, m, d, 23, 59, 59, 999_000_000, f.To.Location())
	}
	return f
}

func validateRegistration(reg user.Registration) error {
	var errs MultiError
	if strings.TrimSpace(reg.ExternalIdentityID) == "" {
		errs.Add(ValidationError{Field: "external_identity_id", Message: "external identity id is required"})
	}
	if strings.TrimSpace(reg.DisplayName) == "" {
		errs.Add(ValidationError{Field: "display_name", Message: "display name is required"})
	}
	return errs.First()
}

func validateInput(in expense.Input) error {
	var errs MultiError
	if in.Number <= 0 {
		errs.Add(ValidationError{Field: "number", Message: "expense number must be positive"})
	}
	if strings.TrimSpace(in.Title) == "" {
		errs.Add(ValidationError{Field: "title", Message: "title is required"})
	}
	if in.AmountMinor <= 0 {
		errs.Add(ValidationError{Field: "amount_minor", Message: "amount must be positive"})
	}
	if in.OccurredOn.IsZero() {
		errs.Add(ValidationError{Field: "occurred_on", Message: "occurrence date is required"})
	}
	return errs.First()
}
