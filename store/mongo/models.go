package mongo

import (
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/spendbook/counter"
	"github.com/xraph/spendbook/expense"
	"github.com/xraph/spendbook/id"
	"github.com/xraph/spendbook/types"
	"github.com/xraph/spendbook/user"
)

// ==================== Counter models ====================

type counterModel struct {
	grove.BaseModel `grove:"table:spendbook_counters"`

	Name     string `grove:"name,pk"  bson:"_id"`
	Sequence int64  `grove:"sequence" bson:"sequence"`
}

func fromCounterModel(m *counterModel) *counter.Counter {
	return &counter.Counter{Name: m.Name, Sequence: m.Sequence}
}

// ==================== User models ====================

type userModel struct {
	grove.BaseModel `grove:"table:spendbook_users"`

	ID                 string    `grove:"id,pk"                bson:"_id"`
	SequentialID       string    `grove:"sequential_id"        bson:"sequential_id"`
	ExternalIdentityID string    `grove:"external_identity_id" bson:"external_identity_id"`
	Email              string    `grove:"email"                bson:"email"`
	DisplayName        string    `grove:"display_name"         bson:"display_name"`
	ProfileImageRef    string    `grove:"profile_image_ref"    bson:"profile_image_ref,omitempty"`
	CreatedAt          time.Time `grove:"created_at"           bson:"created_at"`
	UpdatedAt          time.Time `grove:"updated_at"           bson:"updated_at"`
}

func toUserModel(u *user.User) *userModel {
	return &userModel{
		ID:                 u.ID.String(),
		SequentialID:       u.SequentialID,
		ExternalIdentityID: u.ExternalIdentityID,
		Email:              u.Email,
		DisplayName:        u.DisplayName,
		ProfileImageRef:    u.ProfileImageRef,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func fromUserModel(m *userModel) (*user.User, error) {
	userID, err := id.ParseUserID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("spendbook/mongo: parse user id: %w", err)
	}

	return &user.User{
		Entity:             types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:                 userID,
		SequentialID:       m.SequentialID,
		ExternalIdentityID: m.ExternalIdentityID,
		Email:              m.Email,
		DisplayName:        m.DisplayName,
		ProfileImageRef:    m.ProfileImageRef,
	}, nil
}

// ==================== Expense models ====================

type expenseModel struct {
	grove.BaseModel `grove:"table:spendbook_expenses"`

	ID                string    `grove:"id,pk"               bson:"_id"`
	OwnerID           string    `grove:"owner_id"            bson:"owner_id"`
	OwnerSequentialID string    `grove:"owner_sequential_id" bson:"owner_sequential_id"`
	OwnerDisplayName  string    `grove:"owner_display_name"  bson:"owner_display_name"`
	Number            int64     `grove:"number"              bson:"number"`
	Title             string    `grove:"title"               bson:"title"`
	AmountMinor       int64     `grove:"amount_minor"        bson:"amount_minor"`
	AmountCurrency    string    `grove:"amount_currency"     bson:"amount_currency"`
	OccurredOn        time.Time `grove:"occurred_on"         bson:"occurred_on"`
	Notes             string    `grove:"notes"               bson:"notes,omitempty"`
	CreatedAt         time.Time `grove:"created_at"          bson:"created_at"`
	UpdatedAt         time.Time `grove:"updated_at"          bson:"updated_at"`
}

func toExpenseModel(e *expense.Expense) *expenseModel {
	return &expenseModel{
		ID:                e.ID.String(),
		OwnerID:           e.OwnerID.String(),
		OwnerSequentialID: e.OwnerSequentialID,
		OwnerDisplayName:  e.OwnerDisplayName,
		Number:            e.Number,
		Title:             e.Title,
		AmountMinor:       e.Amount.Amount,
		AmountCurrency:    e.Amount.Currency,
		OccurredOn:        e.OccurredOn,
		Notes:             e.Notes,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func fromExpenseModel(m *expenseModel) (*expense.Expense, error) {
	expenseID, err := id.ParseExpenseID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("spendbook/mongo: parse expense id: %w", err)
	}
	ownerID, err := id.ParseUserID(m.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("spendbook/mongo: parse owner id: %w", err)
	}

	return &expense.Expense{
		Entity:            types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:                expenseID,
		OwnerID:           ownerID,
		OwnerSequentialID: m.OwnerSequentialID,
		OwnerDisplayName:  m.OwnerDisplayName,
		Number:            m.Number,
		Title:             m.Title,
		Amount:            types.Money{Amount: m.AmountMinor, Currency: m.AmountCurrency},
		OccurredOn:        m.OccurredOn,
		Notes:             m.Notes,
	}, nil
}
