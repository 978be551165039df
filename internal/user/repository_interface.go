package user

import "context"

type Repository interface {
	Create(ctx context.Context, fullName, email, passwordHash, role string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]User, error)
	SetCredits(ctx context.Context, id, credits int) (*User, error)
	SetRole(ctx context.Context, id int, role string) (*User, error)
}
