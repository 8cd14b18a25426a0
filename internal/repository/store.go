package repository

import (
	"context"

	"github.com/usersubs/usersubs/internal/model"
)

// Store is the storage contract consumed by the service layer.
// *Repository implements it on PostgreSQL; memstore implements it in memory.
type Store interface {
	// WithTx runs fn atomically. The Store passed to fn must be used for
	// every call that belongs to the transaction.
	WithTx(ctx context.Context, fn func(Store) error) error

	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id int64) error
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailExistsExcludingID(ctx context.Context, email string, id int64) (bool, error)

	CreateSubscription(ctx context.Context, sub *model.Subscription) error
	GetSubscriptionByID(ctx context.Context, id int64) (*model.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]*model.Subscription, error)
	ListSubscriptionsByUserID(ctx context.Context, userID int64) ([]*model.Subscription, error)
	UpdateSubscription(ctx context.Context, sub *model.Subscription) error
	DeleteSubscription(ctx context.Context, id int64) error
	DeleteSubscriptionsByUserID(ctx context.Context, userID int64) (int64, error)
	TopSubscriptionsByTitle(ctx context.Context, limit int) ([]model.PopularSubscription, error)
}

var _ Store = (*Repository)(nil)
