package sqlite

import (
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/spendbook/expense"
	"github.com/xraph/spendbook/id"
	"github.com/xraph/spendbook/types"
	"github.com/xraph/spendbook/user"
)

// ==================== Counter models ====================

type counterModel struct {
	grove.BaseModel `grove:"table:spendbook_counters"`

	Name     string `grove:"name,pk"`
	Sequence int64  `grove:"sequence"`
}

// ==================== User models ====================

type userModel struct {
	grove.BaseModel `grove:"table:spendbook_users"`

	ID                 string    `grove:"id,pk"`
	SequentialID       string    `grove:"sequential_id"`
	ExternalIdentityID string    `grove:"external_identity_id"`
	Email              string    `grove:"email"`
	DisplayName        string    `grove:"display_name"`
	ProfileImageRef    string    `grove:"profile_image_ref"`
	CreatedAt          time.Time `grove:"created_at"`
	UpdatedAt          time.Time `grove:"updated_at"`
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
		return nil, fmt.Errorf("spendbook/sqlite: parse user id: %w", err)
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

	ID                string    `grove:"id,pk"`
	OwnerID           string    `grove:"owner_id"`
	OwnerSequentialID string    `grove:"owner_sequential_id"`
	OwnerDisplayName  string    `grove:"owner_display_name"`
	Number            int64     `grove:"number"`
	Title             string    `grove:"title"`
	AmountMinor       int64     `grove:"amount_minor"`
	AmountCurrency    string    `grove:"amount_currency"`
	OccurredOn        time.Time `grove:"occurred_on"`
	Notes             string    `grove:"notes"`
	CreatedAt         time.Time `grove:"created_at"`
	UpdatedAt         time.Time `grove:"updated_at"`
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
		return nil, fmt.Errorf("spendbook/sqlite: parse expense id: %w", err)
	}
	ownerID, err := id.ParseUserID(m.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("spendbook/sqlite: parse owner id: %w", err)
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
