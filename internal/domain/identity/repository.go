package identity

import "context"

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	CountUsersByEmail(ctx context.Context, email string) (int64, error)
}
