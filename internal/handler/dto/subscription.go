package dto

import (
	"time"

	"github.com/usersubs/usersubs/internal/model"
)

// CreateSubscriptionRequest represents the request body for attaching a
// subscription to a user. The owner comes from the path; a userId in the
// body is accepted and ignored.
type CreateSubscriptionRequest struct {
	ServiceTitle string  `json:"serviceTitle" validate:"notblank,min=2"`
	Plan         *string `json:"plan,omitempty"`
	Description  *string `json:"description,omitempty"`
	UserID       *int64  `json:"userId,omitempty" validate:"-"`
}

// UpdateSubscriptionRequest represents the request body for updating a
// subscription. Absent or null fields are left unchanged.
type UpdateSubscriptionRequest struct {
	UserID       *int64  `json:"userId,omitempty" validate:"omitempty,gt=0"`
	ServiceTitle *string `json:"serviceTitle,omitempty" validate:"omitempty,notblank,min=2"`
	Plan         *string `json:"plan,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// SubscriptionResponse represents a subscription in API responses.
type SubscriptionResponse struct {
	ID           int64     `json:"id"`
	ServiceTitle string    `json:"serviceTitle"`
	Plan         *string   `json:"plan"`
	Description  *string   `json:"description"`
	UserID       int64     `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PopularSubscriptionResponse is one entry of the popularity ranking.
type PopularSubscriptionResponse struct {
	ServiceTitle string `json:"serviceTitle"`
	Count        int64  `json:"count"`
}

// ToSubscriptionResponse converts a Subscription model to SubscriptionResponse DTO.
func ToSubscriptionResponse(sub *model.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:           sub.ID,
		ServiceTitle: sub.ServiceTitle,
		Plan:         sub.Plan,
		Description:  sub.Description,
		UserID:       sub.UserID,
		CreatedAt:    sub.CreatedAt,
		UpdatedAt:    sub.UpdatedAt,
	}
}

// ToSubscriptionResponses converts a slice of subscriptions, never returning nil.
func ToSubscriptionResponses(subs []*model.Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, *ToSubscriptionResponse(s))
	}
	return out
}

// ToPopularResponses converts the popularity ranking.
func ToPopularResponses(ranking []model.PopularSubscription) []PopularSubscriptionResponse {
	out := make([]PopularSubscriptionResponse, 0, len(ranking))
	for _, p := range ranking {
		out = append(out, PopularSubscriptionResponse{
			ServiceTitle: p.ServiceTitle,
			Count:        p.Count,
		})
	}
	return out
}
