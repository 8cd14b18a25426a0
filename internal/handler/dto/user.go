// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/usersubs/usersubs/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name" validate:"notblank,min=2"`
	Email string `json:"email" validate:"notblank,email"`
}

// UpdateUserRequest represents the request body for updating a user.
// Absent or null fields are left unchanged.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,notblank,min=2"`
	Email *string `json:"email,omitempty" validate:"omitempty,notblank,email"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Email         string                 `json:"email"`
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Subscriptions: ToSubscriptionResponses(user.Subscriptions),
	}
}

// ToUserResponses converts a slice of users, never returning nil.
func ToUserResponses(users []*model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserResponse(u))
	}
	return out
}
