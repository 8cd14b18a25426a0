// Package model defines domain entities for the application.
package model

import "time"

// User is a person owning zero or more subscriptions.
type User struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Subscriptions []*Subscription `json:"subscriptions"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
