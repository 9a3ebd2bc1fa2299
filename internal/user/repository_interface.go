package user

import (
	"context"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/db"
)

type Repository interface {
	Create(ctx context.Context, acc NewAccount) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
	UpdateProfile(ctx context.Context, id int, p ProfileRequest) (*User, error)
	SetPassword(ctx context.Context, id int, passwordHash string) error

	Insert(ctx context.Context, q db.Querier, acc NewAccount, active bool) (int, error)
	UpdateAccount(ctx context.Context, q db.Querier, id int, acc NewAccount, active bool) error

	Capabilities(ctx context.Context, userID int) ([]auth.Capability, error)
	Grant(ctx context.Context, userID int, c auth.Capability) error
	Revoke(ctx context.Context, userID int, c auth.Capability) error

	// AccountOf reads the user behind a member, for the member detail page.
	AccountOf(ctx context.Context, q db.Querier, memberID int) (*User, error)
}
