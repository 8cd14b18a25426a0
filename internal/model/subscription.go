package model

import "time"

// Subscription is a user's subscription to an external service.
// Every persisted subscription has an owning user.
type Subscription struct {
	ID           int64     `json:"id"`
	ServiceTitle string    `json:"service_title"`
	Plan         *string   `json:"plan,omitempty"`
	Description  *string   `json:"description,omitempty"`
	UserID       int64     `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PopularSubscription is one row of the popularity ranking.
type PopularSubscription struct {
	ServiceTitle string `json:"service_title"`
	Count        int64  `json:"count"`
}

// GroupByUser indexes subscriptions by their owner, preserving input order.
func GroupByUser(subs []*Subscription) map[int64][]*Subscription {
	grouped := make(map[int64][]*Subscription)
	for _, sub := range subs {
		grouped[sub.UserID] = append(grouped[sub.UserID], sub)
	}
	return grouped
}
