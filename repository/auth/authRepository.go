package auth

import (
	"context"
	"errors"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/util/database"
)

var ErrUsernameTaken = errors.New("username taken")

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByUsername(ctx context.Context, username string) (*model.User, error)
}

type repo struct{ q database.Querier }

func New(q database.Querier) Repo { return &repo{q: q} }

func (r *repo) Create(ctx context.Context, u *model.User) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO users(username, password_hash, role, membership_number)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		u.Username, u.PasswordHash, u.Role, u.MembershipNumber,
	).Scan(&u.ID, &u.CreatedAt)
	if _, dup := database.UniqueViolation(err); dup {
		return ErrUsernameTaken
	}
	return err
}

// ByUsername returns nil, nil when no user matches.
func (r *repo) ByUsername(ctx context.Context, username string) (*model.User, error) {
	u := &model.User{}
	err := r.q.QueryRow(ctx, `
        SELECT id, username, password_hash, role, membership_number, created_at
        FROM users
        WHERE lower(username) = lower($1)`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.MembershipNumber, &u.CreatedAt)
	if database.NoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
