package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/usersubs/usersubs/internal/metrics"
	"github.com/usersubs/usersubs/internal/model"
	"github.com/usersubs/usersubs/internal/repository"
)

// TopPopularLimit is the size of the popularity ranking.
const TopPopularLimit = 3

// SubscriptionService handles subscription business logic.
// Ownership checks go through the UserService.
type SubscriptionService struct {
	store   repository.Store
	users   *UserService
	metrics metrics.Recorder
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(store repository.Store, users *UserService, recorder metrics.Recorder) *SubscriptionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SubscriptionService{
		store:   store,
		users:   users,
		metrics: recorder,
	}
}

// CreateSubscriptionInput defines input for attaching a subscription to a user.
type CreateSubscriptionInput struct {
	ServiceTitle string
	Plan         *string
	Description  *string
}

// UpdateSubscriptionInput defines input for updating a subscription.
// Nil fields keep their stored value; a non-nil UserID moves the subscription
// to that user.
type UpdateSubscriptionInput struct {
	UserID       *int64
	ServiceTitle *string
	Plan         *string
	Description  *string
}

// AttachToUser creates a subscription owned by userID.
func (s *SubscriptionService) AttachToUser(ctx context.Context, userID int64, input CreateSubscriptionInput) (*model.Subscription, error) {
	sub := &model.Subscription{
		ServiceTitle: input.ServiceTitle,
		Plan:         input.Plan,
		Description:  input.Description,
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		owner, err := s.users.ResolveOrFail(ctx, tx, userID)
		if err != nil {
			return err
		}
		sub.UserID = owner.ID

		if err := tx.CreateSubscription(ctx, sub); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return userNotFound(userID)
			}
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSubscriptionCreated()

	return sub, nil
}

// List returns all subscriptions.
func (s *SubscriptionService) List(ctx context.Context) ([]*model.Subscription, error) {
	return s.store.ListSubscriptions(ctx)
}

// Get retrieves a subscription by ID.
func (s *SubscriptionService) Get(ctx context.Context, id int64) (*model.Subscription, error) {
	return s.resolve(ctx, s.store, id)
}

// ListForUser returns the subscriptions owned by userID.
// An unknown user fails with ErrNotFound instead of yielding an empty list.
func (s *SubscriptionService) ListForUser(ctx context.Context, userID int64) ([]*model.Subscription, error) {
	if _, err := s.users.ResolveOrFail(ctx, s.store, userID); err != nil {
		return nil, err
	}

	return s.store.ListSubscriptionsByUserID(ctx, userID)
}

// Update merges the supplied fields into an existing subscription.
func (s *SubscriptionService) Update(ctx context.Context, id int64, input UpdateSubscriptionInput) (*model.Subscription, error) {
	var sub *model.Subscription

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		existing, err := s.resolve(ctx, tx, id)
		if err != nil {
			return err
		}

		if input.UserID != nil {
			owner, err := s.users.ResolveOrFail(ctx, tx, *input.UserID)
			if err != nil {
				return err
			}
			existing.UserID = owner.ID
		}
		if input.ServiceTitle != nil {
			existing.ServiceTitle = *input.ServiceTitle
		}
		if input.Description != nil {
			existing.Description = input.Description
		}
		if input.Plan != nil {
			existing.Plan = input.Plan
		}

		if err := tx.UpdateSubscription(ctx, existing); err != nil {
			switch {
			case errors.Is(err, repository.ErrSubscriptionNotFound):
				return subscriptionNotFound(id)
			case errors.Is(err, repository.ErrUserNotFound):
				return userNotFound(existing.UserID)
			}
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		sub = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSubscriptionUpdated()

	return sub, nil
}

// Delete removes a subscription if it belongs to expectedUserID.
// The subscription is resolved before the user, and an owner mismatch fails
// with ErrInvalidArgument leaving the subscription in place.
func (s *SubscriptionService) Delete(ctx context.Context, id, expectedUserID int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		sub, err := s.resolve(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := s.users.ResolveOrFail(ctx, tx, expectedUserID); err != nil {
			return err
		}

		if sub.UserID != expectedUserID {
			return newError(ErrInvalidArgument,
				"subscription with id = %d belongs to another user, not to user with id = %d", id, expectedUserID)
		}

		if err := tx.DeleteSubscription(ctx, id); err != nil {
			if errors.Is(err, repository.ErrSubscriptionNotFound) {
				return subscriptionNotFound(id)
			}
			return fmt.Errorf("failed to delete subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncSubscriptionDeleted()

	return nil
}

// TopPopular ranks service titles by number of subscriptions, most popular
// first, returning at most TopPopularLimit entries.
func (s *SubscriptionService) TopPopular(ctx context.Context) ([]model.PopularSubscription, error) {
	return s.store.TopSubscriptionsByTitle(ctx, TopPopularLimit)
}

func (s *SubscriptionService) resolve(ctx context.Context, store repository.Store, id int64) (*model.Subscription, error) {
	sub, err := store.GetSubscriptionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, subscriptionNotFound(id)
		}
		return nil, err
	}

	return sub, nil
}
