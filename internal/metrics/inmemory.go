package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated         uint64
	UsersUpdated         uint64
	UsersDeleted         uint64
	SubscriptionsCreated uint64
	SubscriptionsUpdated uint64
	SubscriptionsDeleted uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersCreated         atomic.Uint64
	usersUpdated         atomic.Uint64
	usersDeleted         atomic.Uint64
	subscriptionsCreated atomic.Uint64
	subscriptionsUpdated atomic.Uint64
	subscriptionsDeleted atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:         m.usersCreated.Load(),
		UsersUpdated:         m.usersUpdated.Load(),
		UsersDeleted:         m.usersDeleted.Load(),
		SubscriptionsCreated: m.subscriptionsCreated.Load(),
		SubscriptionsUpdated: m.subscriptionsUpdated.Load(),
		SubscriptionsDeleted: m.subscriptionsDeleted.Load(),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() { m.usersCreated.Add(1) }

// IncUserUpdated increments the user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() { m.usersUpdated.Add(1) }

// IncUserDeleted increments the user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() { m.usersDeleted.Add(1) }

// IncSubscriptionCreated increments the subscription created counter.
func (m *InMemoryRecorder) IncSubscriptionCreated() { m.subscriptionsCreated.Add(1) }

// IncSubscriptionUpdated increments the subscription updated counter.
func (m *InMemoryRecorder) IncSubscriptionUpdated() { m.subscriptionsUpdated.Add(1) }

// IncSubscriptionDeleted increments the subscription deleted counter.
func (m *InMemoryRecorder) IncSubscriptionDeleted() { m.subscriptionsDeleted.Add(1) }
