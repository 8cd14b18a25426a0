package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionService_AttachToUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.users.Create(ctx, CreateUserInput{Name: "Gina", Email: "gina@example.com"})
	require.NoError(t, err)

	sub, err := f.subs.AttachToUser(ctx, user.ID, CreateSubscriptionInput{
		ServiceTitle: "Netflix",
		Plan:         ptr("premium"),
	})
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
	assert.Equal(t, user.ID, sub.UserID)
	require.NotNil(t, sub.Plan)
	assert.Equal(t, "premium", *sub.Plan)
	assert.Nil(t, sub.Description)

	_, err = f.subs.AttachToUser(ctx, 999, CreateSubscriptionInput{ServiceTitle: "Netflix"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	all, err := f.subs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, uint64(1), f.metrics.Snapshot().SubscriptionsCreated)
}

func TestSubscriptionService_Get(t *testing.T) {
	f := newFixture(t)

	_, err := f.subs.Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "subscription with id = 999 not found", err.Error())
}

func TestSubscriptionService_ListForUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.users.Create(ctx, CreateUserInput{Name: "Hal", Email: "hal@example.com"})
	require.NoError(t, err)
	b, err := f.users.Create(ctx, CreateUserInput{Name: "Ida", Email: "ida@example.com"})
	require.NoError(t, err)

	_, err = f.subs.AttachToUser(ctx, a.ID, CreateSubscriptionInput{ServiceTitle: "Netflix"})
	require.NoError(t, err)
	_, err = f.subs.AttachToUser(ctx, a.ID, CreateSubscriptionInput{ServiceTitle: "Spotify"})
	require.NoError(t, err)

	subs, err := f.subs.ListForUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	subs, err = f.subs.ListForUser(ctx, b.ID)
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)

	_, err = f.subs.ListForUser(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSubscriptionService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	owner, err := f.users.Create(ctx, CreateUserInput{Name: "Jon", Email: "jon@example.com"})
	require.NoError(t, err)
	other, err := f.users.Create(ctx, CreateUserInput{Name: "Kim", Email: "kim@example.com"})
	require.NoError(t, err)
	sub, err := f.subs.AttachToUser(ctx, owner.ID, CreateSubscriptionInput{
		ServiceTitle: "Netflix",
		Plan:         ptr("basic"),
		Description:  ptr("family account"),
	})
	require.NoError(t, err)

	t.Run("sparse fields keep stored values", func(t *testing.T) {
		updated, err := f.subs.Update(ctx, sub.ID, UpdateSubscriptionInput{Plan: ptr("premium")})
		require.NoError(t, err)
		assert.Equal(t, "Netflix", updated.ServiceTitle)
		assert.Equal(t, "premium", *updated.Plan)
		assert.Equal(t, "family account", *updated.Description)
		assert.Equal(t, owner.ID, updated.UserID)
	})

	t.Run("unknown target user leaves subscription untouched", func(t *testing.T) {
		_, err := f.subs.Update(ctx, sub.ID, UpdateSubscriptionInput{
			UserID:       ptr(int64(999)),
			ServiceTitle: ptr("Hulu"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))

		stored, err := f.subs.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, "Netflix", stored.ServiceTitle)
		assert.Equal(t, owner.ID, stored.UserID)
	})

	t.Run("reassign owner", func(t *testing.T) {
		updated, err := f.subs.Update(ctx, sub.ID, UpdateSubscriptionInput{UserID: ptr(other.ID)})
		require.NoError(t, err)
		assert.Equal(t, other.ID, updated.UserID)

		subs, err := f.subs.ListForUser(ctx, owner.ID)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("missing subscription", func(t *testing.T) {
		_, err := f.subs.Update(ctx, 999, UpdateSubscriptionInput{ServiceTitle: ptr("Hulu")})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestSubscriptionService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		subID     func(realID int64) int64
		userID    func(owner, other int64) int64
		wantErr   error
		wantMsg   string
		wantAlive bool
	}{
		{
			name:   "owner deletes",
			subID:  func(id int64) int64 { return id },
			userID: func(owner, _ int64) int64 { return owner },
		},
		{
			name:      "missing subscription",
			subID:     func(int64) int64 { return 999 },
			userID:    func(owner, _ int64) int64 { return owner },
			wantErr:   ErrNotFound,
			wantMsg:   "subscription with id = 999",
			wantAlive: true,
		},
		{
			name:      "missing user after subscription resolves",
			subID:     func(id int64) int64 { return id },
			userID:    func(int64, int64) int64 { return 999 },
			wantErr:   ErrNotFound,
			wantMsg:   "user with id = 999",
			wantAlive: true,
		},
		{
			name:      "subscription checked before user",
			subID:     func(int64) int64 { return 999 },
			userID:    func(int64, int64) int64 { return 998 },
			wantErr:   ErrNotFound,
			wantMsg:   "subscription with id = 999",
			wantAlive: true,
		},
		{
			name:      "owner mismatch",
			subID:     func(id int64) int64 { return id },
			userID:    func(_, other int64) int64 { return other },
			wantErr:   ErrInvalidArgument,
			wantMsg:   "belongs to another user",
			wantAlive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			owner, err := f.users.Create(ctx, CreateUserInput{Name: "Lea", Email: "lea@example.com"})
			require.NoError(t, err)
			other, err := f.users.Create(ctx, CreateUserInput{Name: "Max", Email: "max@example.com"})
			require.NoError(t, err)
			sub, err := f.subs.AttachToUser(ctx, owner.ID, CreateSubscriptionInput{ServiceTitle: "Netflix"})
			require.NoError(t, err)

			err = f.subs.Delete(ctx, tt.subID(sub.ID), tt.userID(owner.ID, other.ID))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Contains(t, err.Error(), tt.wantMsg)
			} else {
				require.NoError(t, err)
			}

			_, err = f.subs.Get(ctx, sub.ID)
			if tt.wantAlive {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrNotFound))
			}
		})
	}
}

func TestSubscriptionService_TopPopular(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	top, err := f.subs.TopPopular(ctx)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)

	user, err := f.users.Create(ctx, CreateUserInput{Name: "Nia", Email: "nia@example.com"})
	require.NoError(t, err)

	for title, n := range map[string]int{"Netflix": 3, "Spotify": 2, "Hulu": 2, "Disney+": 1} {
		for i := 0; i < n; i++ {
			_, err := f.subs.AttachToUser(ctx, user.ID, CreateSubscriptionInput{ServiceTitle: title})
			require.NoError(t, err)
		}
	}

	top, err = f.subs.TopPopular(ctx)
	require.NoError(t, err)
	require.Len(t, top, TopPopularLimit)
	assert.Equal(t, "Netflix", top[0].ServiceTitle)
	assert.Equal(t, int64(3), top[0].Count)
	assert.Equal(t, "Hulu", top[1].ServiceTitle)
	assert.Equal(t, "Spotify", top[2].ServiceTitle)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Count, top[i].Count)
	}
}
