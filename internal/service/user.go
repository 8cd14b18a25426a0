// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/usersubs/usersubs/internal/metrics"
	"github.com/usersubs/usersubs/internal/model"
	"github.com/usersubs/usersubs/internal/repository"
)

// UserService handles user business logic.
type UserService struct {
	store   repository.Store
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name  string
	Email string
}

// UpdateUserInput defines input for updating a user.
// Nil fields keep their stored value.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// Create registers a new user. Fails with ErrConflict if the email is taken.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	user := &model.User{
		Name:  input.Name,
		Email: input.Email,
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		exists, err := tx.EmailExists(ctx, input.Email)
		if err != nil {
			return err
		}
		if exists {
			return emailTaken(input.Email)
		}

		if err := tx.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				return emailTaken(input.Email)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.Subscriptions = []*model.Subscription{}
	s.metrics.IncUserCreated()

	return user, nil
}

// List returns every user with its subscriptions.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	byUser := model.GroupByUser(subs)
	for _, user := range users {
		user.Subscriptions = byUser[user.ID]
		if user.Subscriptions == nil {
			user.Subscriptions = []*model.Subscription{}
		}
	}

	return users, nil
}

// Get retrieves a user with its subscriptions.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.ResolveOrFail(ctx, s.store, id)
	if err != nil {
		return nil, err
	}

	if err := s.loadSubscriptions(ctx, s.store, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update applies the supplied fields to an existing user.
// An email already used by another user fails with ErrConflict.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*model.User, error) {
	var user *model.User

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		existing, err := s.ResolveOrFail(ctx, tx, id)
		if err != nil {
			return err
		}

		if input.Email != nil {
			taken, err := tx.EmailExistsExcludingID(ctx, *input.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return emailTaken(*input.Email)
			}
		}

		if input.Name != nil {
			existing.Name = *input.Name
		}
		if input.Email != nil {
			existing.Email = *input.Email
		}

		if err := tx.UpdateUser(ctx, existing); err != nil {
			switch {
			case errors.Is(err, repository.ErrEmailExists):
				return emailTaken(existing.Email)
			case errors.Is(err, repository.ErrUserNotFound):
				return userNotFound(id)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		user = existing
		return s.loadSubscriptions(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncUserUpdated()

	return user, nil
}

// Delete removes a user together with its subscriptions.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := s.ResolveOrFail(ctx, tx, id); err != nil {
			return err
		}

		if _, err := tx.DeleteSubscriptionsByUserID(ctx, id); err != nil {
			return err
		}

		if err := tx.DeleteUser(ctx, id); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return userNotFound(id)
			}
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncUserDeleted()

	return nil
}

// ResolveOrFail returns the stored user or an ErrNotFound failure.
// Pass the transactional store to resolve inside a running transaction.
func (s *UserService) ResolveOrFail(ctx context.Context, store repository.Store, id int64) (*model.User, error) {
	user, err := store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, userNotFound(id)
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) loadSubscriptions(ctx context.Context, store repository.Store, user *model.User) error {
	subs, err := store.ListSubscriptionsByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	user.Subscriptions = subs
	return nil
}
