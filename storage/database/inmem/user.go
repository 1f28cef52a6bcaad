package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/user"
)

type UserRepository struct {
	db *userTable
}

var _ user.Repository = (*UserRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.user}
}

func (repo *UserRepository) byEmail(email string) *user.User {
	for _, usr := range repo.db.table {
		if usr.Email == email {
			return usr
		}
	}
	return nil
}

// UpsertUser matches the SQL store: an existing email is overwritten and reactivated.
func (repo *UserRepository) UpsertUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	now := time.Now().UTC()
	if old := repo.byEmail(usr.Email); old != nil {
		old.Name = usr.Name
		old.Role = usr.Role
		old.PasswordHash = usr.PasswordHash
		old.IsActive = true
		old.UpdatedAt = now
		return *old, nil
	}

	usr.ID = uuid.New().String()
	usr.IsActive = true
	usr.CreatedAt = now
	usr.UpdatedAt = now
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *UserRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, core.NewNotFoundError("user")
}

func (repo *UserRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr := repo.byEmail(email); usr != nil {
		return *usr, nil
	}
	return user.User{}, core.NewNotFoundError("user")
}

func (repo *UserRepository) UpdatePassword(_ context.Context, id string, hash []byte) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return core.NewNotFoundError("user")
	}
	usr.PasswordHash = hash
	usr.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *UserRepository) SetLastLogin(_ context.Context, id string, at time.Time) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return user.User{}, core.NewNotFoundError("user")
	}
	usr.LastLogin.SetValid(at)
	return *usr, nil
}

// SetActive toggles an account, which the user service never does on its own.
func (repo *UserRepository) SetActive(id string, active bool) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return core.NewNotFoundError("user")
	}
	usr.IsActive = active
	return nil
}
