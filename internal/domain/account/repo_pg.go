package account

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thyrotrack/thyrotrack/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) SignupUser(ctx context.Context, u *NewUser) error {
	return db.Call(ctx, r.conn(ctx), "signup_user",
		u.FirstName, u.LastName, u.Username, u.Email, u.Password)
}

func (r *repoPG) LoginUser(ctx context.Context, username, password string) (*User, error) {
	var u User
	err := db.SelectRow(ctx, r.conn(ctx), "login_user", username, password).
		Scan(&u.PatientID, &u.Username)
	if db.IsNoRows(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repoPG) ResetPassword(ctx context.Context, email, password string) error {
	return db.Call(ctx, r.conn(ctx), "reset_password", email, password)
}
