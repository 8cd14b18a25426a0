// Package memstore is an in-memory repository.Store for tests and local runs.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/usersubs/usersubs/internal/model"
	"github.com/usersubs/usersubs/internal/repository"
)

// Store keeps users and subscriptions in maps guarded by a single mutex.
// WithTx holds the mutex for the whole callback and restores a snapshot when
// the callback fails, so transactions are serialized and all-or-nothing.
type Store struct {
	mu    *sync.Mutex
	state *state
	inTx  bool
	now   func() time.Time
}

type state struct {
	users      map[int64]model.User
	subs       map[int64]model.Subscription
	nextUserID int64
	nextSubID  int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		mu: &sync.Mutex{},
		state: &state{
			users: make(map[int64]model.User),
			subs:  make(map[int64]model.Subscription),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

var _ repository.Store = (*Store)(nil)

// WithTx runs fn with exclusive access and rolls back on error.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	tx := &Store{mu: s.mu, state: s.state, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		*s.state = *snapshot
		return err
	}
	return nil
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// CreateUser inserts a user, enforcing email uniqueness.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	defer s.lock()()

	for _, u := range s.state.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	s.state.nextUserID++
	now := s.now()
	user.ID = s.state.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.state.users[user.ID] = *copyUser(user)
	return nil
}

// GetUserByID returns a copy of the stored user.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	defer s.lock()()

	u, ok := s.state.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return copyUser(&u), nil
}

// ListUsers returns all users ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	defer s.lock()()

	users := make([]*model.User, 0, len(s.state.users))
	for _, u := range s.state.users {
		users = append(users, copyUser(&u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// UpdateUser overwrites name and email.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	defer s.lock()()

	existing, ok := s.state.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for id, u := range s.state.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	existing.Name = user.Name
	existing.Email = user.Email
	existing.UpdatedAt = s.now()
	user.UpdatedAt = existing.UpdatedAt
	s.state.users[user.ID] = existing
	return nil
}

// DeleteUser removes the user and, like the SQL schema, its subscriptions.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	defer s.lock()()

	if _, ok := s.state.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.state.users, id)
	for subID, sub := range s.state.subs {
		if sub.UserID == id {
			delete(s.state.subs, subID)
		}
	}
	return nil
}

// EmailExists reports whether any user has the email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	defer s.lock()()

	for _, u := range s.state.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// EmailExistsExcludingID reports whether a user other than id has the email.
func (s *Store) EmailExistsExcludingID(ctx context.Context, email string, id int64) (bool, error) {
	defer s.lock()()

	for uid, u := range s.state.users {
		if uid != id && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// CreateSubscription inserts a subscription for an existing user.
func (s *Store) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	defer s.lock()()

	if _, ok := s.state.users[sub.UserID]; !ok {
		return repository.ErrUserNotFound
	}

	s.state.nextSubID++
	now := s.now()
	sub.ID = s.state.nextSubID
	sub.CreatedAt = now
	sub.UpdatedAt = now
	s.state.subs[sub.ID] = copySubscription(sub)
	return nil
}

// GetSubscriptionByID returns a copy of the stored subscription.
func (s *Store) GetSubscriptionByID(ctx context.Context, id int64) (*model.Subscription, error) {
	defer s.lock()()

	sub, ok := s.state.subs[id]
	if !ok {
		return nil, repository.ErrSubscriptionNotFound
	}
	c := copySubscription(&sub)
	return &c, nil
}

// ListSubscriptions returns all subscriptions ordered by ID.
func (s *Store) ListSubscriptions(ctx context.Context) ([]*model.Subscription, error) {
	defer s.lock()()

	return s.filterSubscriptions(func(model.Subscription) bool { return true }), nil
}

// ListSubscriptionsByUserID returns the user's subscriptions ordered by ID.
func (s *Store) ListSubscriptionsByUserID(ctx context.Context, userID int64) ([]*model.Subscription, error) {
	defer s.lock()()

	return s.filterSubscriptions(func(sub model.Subscription) bool { return sub.UserID == userID }), nil
}

// UpdateSubscription overwrites all mutable fields.
func (s *Store) UpdateSubscription(ctx context.Context, sub *model.Subscription) error {
	defer s.lock()()

	existing, ok := s.state.subs[sub.ID]
	if !ok {
		return repository.ErrSubscriptionNotFound
	}
	if _, ok := s.state.users[sub.UserID]; !ok {
		return repository.ErrUserNotFound
	}

	sub.CreatedAt = existing.CreatedAt
	sub.UpdatedAt = s.now()
	s.state.subs[sub.ID] = copySubscription(sub)
	return nil
}

// DeleteSubscription removes a subscription.
func (s *Store) DeleteSubscription(ctx context.Context, id int64) error {
	defer s.lock()()

	if _, ok := s.state.subs[id]; !ok {
		return repository.ErrSubscriptionNotFound
	}
	delete(s.state.subs, id)
	return nil
}

// DeleteSubscriptionsByUserID removes all subscriptions of a user.
func (s *Store) DeleteSubscriptionsByUserID(ctx context.Context, userID int64) (int64, error) {
	defer s.lock()()

	var n int64
	for id, sub := range s.state.subs {
		if sub.UserID == userID {
			delete(s.state.subs, id)
			n++
		}
	}
	return n, nil
}

// TopSubscriptionsByTitle ranks titles by count, descending, ties by title.
func (s *Store) TopSubscriptionsByTitle(ctx context.Context, limit int) ([]model.PopularSubscription, error) {
	defer s.lock()()

	counts := make(map[string]int64)
	for _, sub := range s.state.subs {
		counts[sub.ServiceTitle]++
	}

	ranking := make([]model.PopularSubscription, 0, len(counts))
	for title, n := range counts {
		ranking = append(ranking, model.PopularSubscription{ServiceTitle: title, Count: n})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].ServiceTitle < ranking[j].ServiceTitle
	})

	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

func (s *Store) filterSubscriptions(keep func(model.Subscription) bool) []*model.Subscription {
	subs := make([]*model.Subscription, 0)
	for _, sub := range s.state.subs {
		if keep(sub) {
			c := copySubscription(&sub)
			subs = append(subs, &c)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs
}

func (st *state) clone() *state {
	c := &state{
		users:      make(map[int64]model.User, len(st.users)),
		subs:       make(map[int64]model.Subscription, len(st.subs)),
		nextUserID: st.nextUserID,
		nextSubID:  st.nextSubID,
	}
	for id, u := range st.users {
		c.users[id] = u
	}
	for id, sub := range st.subs {
		c.subs[id] = sub
	}
	return c
}

// copyUser drops the subscription list: it is never persisted through the user.
func copyUser(u *model.User) *model.User {
	c := *u
	c.Subscriptions = nil
	return &c
}

func copySubscription(sub *model.Subscription) model.Subscription {
	c := *sub
	if sub.Plan != nil {
		plan := *sub.Plan
		c.Plan = &plan
	}
	if sub.Description != nil {
		desc := *sub.Description
		c.Description = &desc
	}
	return c
}
