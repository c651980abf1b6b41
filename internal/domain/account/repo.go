package account

import "context"

// Repository delegates account storage and credential checks to the database.
type Repository interface {
	SignupUser(ctx context.Context, u *NewUser) error
	// LoginUser returns ErrInvalidCredentials when no account matches.
	LoginUser(ctx context.Context, username, password string) (*User, error)
	ResetPassword(ctx context.Context, email, password string) error
}
