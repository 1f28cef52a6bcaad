package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/user"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(Open())

	usr, err := repo.UpsertUser(ctx, user.User{Email: "staff@cmu.ac.th", Role: user.RoleStaff, PasswordHash: []byte("a")})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)

	require.NoError(t, repo.SetActive(usr.ID, false))
	again, err := repo.UpsertUser(ctx, user.User{Email: "staff@cmu.ac.th", Role: user.RoleAdmin, PasswordHash: []byte("b")})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, again.ID)
	assert.Equal(t, user.RoleAdmin, again.Role)
	assert.True(t, again.IsActive)

	require.NoError(t, repo.UpdatePassword(ctx, usr.ID, []byte("c")))
	got, err := repo.GetUserByEmail(ctx, "staff@cmu.ac.th")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got.PasswordHash)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got, err = repo.SetLastLogin(ctx, usr.ID, at)
	require.NoError(t, err)
	assert.True(t, got.LastLogin.Time.Equal(at))

	_, err = repo.GetUserByID(ctx, "nope")
	assert.True(t, core.IsNotFound(err))
	assert.True(t, core.IsNotFound(repo.UpdatePassword(ctx, "nope", nil)))
}
