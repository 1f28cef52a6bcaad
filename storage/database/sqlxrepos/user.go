package sqlxrepos

import (
	"context"
	"time"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/user"
	"github.com/fmsedu/curriculum/storage/database"
)

const userColumns = "id, email, name, role, is_active, password_hash, created_at, updated_at, last_login"

type userRepository struct {
	db core.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DB) *userRepository {
	return &userRepository{db: db}
}

// UpsertUser creates the user or, when the email is taken, overwrites that account and reactivates it.
func (repo userRepository) UpsertUser(ctx context.Context, usr user.User) (user.User, error) {
	var u user.User
	err := repo.db.GetContext(ctx, &u, `
		INSERT INTO users (email, name, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, true)
		ON CONFLICT (email) DO UPDATE SET
			name          = EXCLUDED.name,
			role          = EXCLUDED.role,
			password_hash = EXCLUDED.password_hash,
			is_active     = true,
			updated_at    = now()
		RETURNING `+userColumns,
		usr.Email, usr.Name, usr.Role, usr.PasswordHash,
	)
	return u, database.Err(err, "user", "upserting user")
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := repo.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return u, database.Err(err, "user", "getting user")
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := repo.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return u, database.Err(err, "user", "getting user")
}

func (repo userRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	var updated string
	err := repo.db.GetContext(ctx, &updated,
		"UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2 RETURNING id", hash, id)
	return database.Err(err, "user", "updating password")
}

func (repo userRepository) SetLastLogin(ctx context.Context, id string, at time.Time) (user.User, error) {
	var u user.User
	err := repo.db.GetContext(ctx, &u,
		"UPDATE users SET last_login = $1 WHERE id = $2 RETURNING "+userColumns, at.UTC(), id)
	return u, database.Err(err, "user", "setting last login")
}
