// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// User lifecycle metrics
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()

	// Subscription lifecycle metrics
	IncSubscriptionCreated()
	IncSubscriptionUpdated()
	IncSubscriptionDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
