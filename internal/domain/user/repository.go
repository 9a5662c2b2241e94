package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ListByCompany(ctx context.Context, companyID string) ([]User, error)
	// LinkGoogleAccount stores the Google subject id on an existing user.
	LinkGoogleAccount(ctx context.Context, id string, googleID string) (User, error)
}
