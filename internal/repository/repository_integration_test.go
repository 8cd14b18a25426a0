//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usersubs/usersubs/internal/testutil"
)

func newRepoTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	require.NoError(t, err)
	t.Cleanup(func() { _ = unlock() })

	require.NoError(t, testutil.ResetSchema(ctx, repo.Pool(), dbURL))

	return ctx, repo
}

func TestIntegrationRepository_UserLifecycle(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := testutil.NewTestUser(t, "Alice")
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	exists, err := repo.EmailExists(ctx, user.Email)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExistsExcludingID(ctx, user.Email, user.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	dup := testutil.NewTestUser(t, "Bob")
	dup.Email = user.Email
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), ErrEmailExists)

	got.Name = "Alicia"
	require.NoError(t, repo.UpdateUser(ctx, got))
	reloaded, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", reloaded.Name)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, repo.DeleteUser(ctx, user.ID))
	_, err = repo.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, repo.DeleteUser(ctx, user.ID), ErrUserNotFound)
}

func TestIntegrationRepository_SubscriptionLifecycle(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, "Owner")
	require.NoError(t, repo.CreateUser(ctx, owner))

	orphan := testutil.NewTestSubscription(t, 999999, "Netflix")
	assert.ErrorIs(t, repo.CreateSubscription(ctx, orphan), ErrUserNotFound)

	sub := testutil.NewTestSubscription(t, owner.ID, "Netflix")
	require.NoError(t, repo.CreateSubscription(ctx, sub))
	assert.NotZero(t, sub.ID)

	got, err := repo.GetSubscriptionByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Netflix", got.ServiceTitle)
	require.NotNil(t, got.Plan)
	assert.Nil(t, got.Description)

	desc := "family"
	got.Description = &desc
	require.NoError(t, repo.UpdateSubscription(ctx, got))

	byUser, err := repo.ListSubscriptionsByUserID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "family", *byUser[0].Description)

	require.NoError(t, repo.DeleteSubscription(ctx, sub.ID))
	_, err = repo.GetSubscriptionByID(ctx, sub.ID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestIntegrationRepository_TopSubscriptionsByTitle(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	empty, err := repo.TopSubscriptionsByTitle(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	user := testutil.NewTestUser(t, "Fan")
	require.NoError(t, repo.CreateUser(ctx, user))

	for title, n := range map[string]int{"Netflix": 4, "Spotify": 3, "Hulu": 2, "Disney+": 1} {
		for i := 0; i < n; i++ {
			require.NoError(t, repo.CreateSubscription(ctx, testutil.NewTestSubscription(t, user.ID, title)))
		}
	}

	top, err := repo.TopSubscriptionsByTitle(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Netflix", top[0].ServiceTitle)
	assert.Equal(t, int64(4), top[0].Count)
	assert.Equal(t, "Spotify", top[1].ServiceTitle)
	assert.Equal(t, "Hulu", top[2].ServiceTitle)
}

func TestIntegrationRepository_WithTx(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := testutil.NewTestUser(t, "Tx")
	errBoom := errors.New("boom")

	err := repo.WithTx(ctx, func(tx Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	exists, err := repo.EmailExists(ctx, user.Email)
	require.NoError(t, err)
	assert.False(t, exists, "rolled back insert must not be visible")

	err = repo.WithTx(ctx, func(tx Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		sub := testutil.NewTestSubscription(t, user.ID, "Spotify")
		return tx.CreateSubscription(ctx, sub)
	})
	require.NoError(t, err)

	n, err := repo.DeleteSubscriptionsByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
