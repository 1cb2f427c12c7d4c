package user

import (
	"context"

	"github.com/xraph/spendbook/id"
)

type Store interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, userID id.UserID) (*User, error)
	GetByExternalID(ctx context.Context, externalIdentityID string) (*User, error)
	Update(ctx context.Context, u *User) error
}
