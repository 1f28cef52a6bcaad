package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/fmsedu/curriculum/core/user"
	"github.com/fmsedu/curriculum/storage/database/sqlxrepos"
)

// CreateUser stores a user; saving always activates an account so inactive users are deactivated afterwards.
func CreateUser(t *testing.T, db *sqlx.DB, email, pwd, role string, isActive bool) user.User {
	t.Helper()
	usr := user.User{
		Email: email,
		Role:  role,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	usr, err := sqlxrepos.NewUserRepository(db).UpsertUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if !isActive {
		if _, err = db.Exec("UPDATE users SET is_active = false WHERE id = $1", usr.ID); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
		usr.IsActive = false
	}
	return usr
}
