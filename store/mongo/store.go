package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	spendbook "github.com/xraph/spendbook"
	"github.com/xraph/spendbook/expense"
	"github.com/xraph/spendbook/id"
	spendbookstore "github.com/xraph/spendbook/store"
	"github.com/xraph/spendbook/user"
)

// Collection name constants.
const (
	colCounters = "spendbook_counters"
	colUsers    = "spendbook_users"
	colExpenses = "spendbook_expenses"
)

// compile-time interface check
var _ spendbookstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all spendbook collections. The unique
// compound index on (owner_id, number) is the authority for per-owner
// expense number uniqueness; callers treat its violation as the duplicate
// signal.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("spendbook/mongo: migrate %s indexes: %w", col, err)
		}
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

// NextSequence performs the atomic increment-and-fetch in one round trip.
// The upsert creates an unseen counter at 0 before incrementing, so the
// first allocation returns 1.
func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var m counterModel
	err := s.mdb.Collection(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"sequence": 1}},
		opts,
	).Decode(&m)
	if err != nil {
		return 0, fmt.Errorf("spendbook/mongo: next sequence %q: %w", name, err)
	}
	return m.Sequence, nil
}

func (s *Store) CurrentSequence(ctx context.Context, name string) (int64, error) {
	var m counterModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": name}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("spendbook/mongo: current sequence %q: %w", name, err)
	}
	return fromCounterModel(&m).Sequence, nil
}

// ==================== User Store ====================

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	m := toUserModel(u)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return spendbook.ErrDuplicateUser
		}
		return fmt.Errorf("spendbook/mongo: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	var m userModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": userID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, spendbook.ErrUserNotFound
		}
		return nil, fmt.Errorf("spendbook/mongo: get user: %w", err)
	}
	return fromUserModel(&m)
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalIdentityID string) (*user.User, error) {
	var m userModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"external_identity_id": externalIdentityID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, spendbook.ErrUserNotFound
		}
		return nil, fmt.Errorf("spendbook/mongo: get user by external id: %w", err)
	}
	return fromUserModel(&m)
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	m := toUserModel(u)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("spendbook/mongo: update user: %w", err)
	}
	if res.MatchedCount() == 0 {
		return spendbook.ErrUserNotFound
	}
	return nil
}

// ==================== Expense Store ====================

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	m := toExpenseModel(e)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		// The compound unique index on (owner_id, number) fired: this is
		// the authoritative duplicate signal, whatever any pre-check said.
		if mongo.IsDuplicateKeyError(err) {
			return spendbook.ErrDuplicateExpenseNumber
		}
		return fmt.Errorf("spendbook/mongo: create expense: %w", err)
	}
	return nil
}

func (s *Store) GetExpense(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) (*expense.Expense, error) {
	var m expenseModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": expenseID.String(), "owner_id": ownerID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, spendbook.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("spendbook/mongo: get expense: %w", err)
	}
	return fromExpenseModel(&m)
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	m := toExpenseModel(e)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID, "owner_id": m.OwnerID}).
		Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return spendbook.ErrDuplicateExpenseNumber
		}
		return fmt.Errorf("spendbook/mongo: update expense: %w", err)
	}
	if res.MatchedCount() == 0 {
		return spendbook.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, ownerID id.UserID, expenseID id.ExpenseID) error {
	res, err := s.mdb.NewDelete((*expenseModel)(nil)).
		Filter(bson.M{"_id": expenseID.String(), "owner_id": ownerID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("spendbook/mongo: delete expense: %w", err)
	}
	if res.DeletedCount() == 0 {
		return spendbook.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context, ownerID id.UserID, opts expense.ListOpts) ([]*expense.Expense, int64, error) {
	filter := expenseFilter(ownerID, opts.Filter)

	total, err := s.mdb.Collection(colExpenses).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("spendbook/mongo: count expenses: %w", err)
	}

	var models []expenseModel
	// Ties on occurred_on fall back to _id; TypeIDs are K-sortable, so
	// ascending _id is insertion order.
	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "occurred_on", Value: -1}, {Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, 0, fmt.Errorf("spendbook/mongo: list expenses: %w", err)
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
	pipeline := bson.A{
		bson.M{"$match": expenseFilter(ownerID, f)},
		bson.M{
			"$group": bson.M{
				"_id":   "$amount_currency",
				"total": bson.M{"$sum": "$amount_minor"},
				"count": bson.M{"$sum": 1},
			},
		},
		bson.M{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := s.mdb.Collection(colExpenses).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("spendbook/mongo: summarize expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Currency string `bson:"_id"`
		Total    int64  `bson:"total"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("spendbook/mongo: summarize decode: %w", err)
	}

	summaries := make([]expense.CurrencySummary, len(results))
	for i, r := range results {
		summaries[i] = expense.CurrencySummary{
			Currency:          r.Currency,
			TotalMinorUnits:   r.Total,
			Count:             r.Count,
			AverageMinorUnits: r.Total / r.Count,
		}
	}
	return summaries, nil
}

func (s *Store) ExpenseNumberExists(ctx context.Context, ownerID id.UserID, number int64, exclude id.ExpenseID) (bool, error) {
	filter := bson.M{"owner_id": ownerID.String(), "number": number}
	if !exclude.IsNil() {
		filter["_id"] = bson.M{"$ne": exclude.String()}
	}

	total, err := s.mdb.Collection(colExpenses).CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("spendbook/mongo: expense number exists: %w", err)
	}
	return total > 0, nil
}

func (s *Store) HighestExpenseNumber(ctx context.Context, ownerID id.UserID) (int64, error) {
	var m expenseModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"owner_id": ownerID.String()}).
		Sort(bson.D{{Key: "number", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("spendbook/mongo: highest expense number: %w", err)
	}
	return m.Number, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// expenseFilter translates an owner scope plus Filter into a Mongo filter
// document. The owner predicate is always present.
func expenseFilter(ownerID id.UserID, f expense.Filter) bson.M {
	filter := bson.M{"owner_id": ownerID.String()}

	dateRange := bson.M{}
	if !f.From.IsZero() {
		dateRange["$gte"] = f.From
	}
	if !f.To.IsZero() {
		dateRange["$lte"] = f.To
	}
	if len(dateRange) > 0 {
		filter["occurred_on"] = dateRange
	}

	if f.Search != "" {
		pattern := regexp.QuoteMeta(f.Search)
		re := bson.M{"$regex": pattern, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"owner_display_name": re},
			bson.M{"owner_sequential_id": re},
			bson.M{"notes": re},
		}
	}

	return filter
}

// migrationIndexes returns the index definitions for all spendbook collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colUsers: {
			{
				Keys:    bson.D{{Key: "external_identity_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "sequential_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colExpenses: {
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "number", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "occurred_on", Value: -1}}},
		},
	}
}
