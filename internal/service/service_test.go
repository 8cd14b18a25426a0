package service

import (
	"testing"

	"github.com/usersubs/usersubs/internal/metrics"
	"github.com/usersubs/usersubs/internal/repository/memstore"
)

type fixture struct {
	store   *memstore.Store
	metrics *metrics.InMemoryRecorder
	users   *UserService
	subs    *SubscriptionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	rec := metrics.NewInMemory()
	users := NewUserService(store, rec)
	return &fixture{
		store:   store,
		metrics: rec,
		users:   users,
		subs:    NewSubscriptionService(store, users, rec),
	}
}

func ptr[T any](v T) *T {
	return &v
}
