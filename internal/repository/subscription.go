package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/usersubs/usersubs/internal/model"
)

// Common errors for subscription repository operations.
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

const subscriptionColumns = `id, service_title, plan, description, user_id, created_at, updated_at`

// CreateSubscription inserts a new subscription and fills in its generated ID and timestamps.
// Returns ErrUserNotFound if the owning user does not exist.
func (r *Repository) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (service_title, plan, description, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		sub.ServiceTitle,
		sub.Plan,
		sub.Description,
		sub.UserID,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// GetSubscriptionByID retrieves a subscription by its ID.
// Inside a transaction the row is locked until commit.
func (r *Repository) GetSubscriptionByID(ctx context.Context, id int64) (*model.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1` + r.lockClause()

	sub, err := scanSubscription(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription by ID: %w", err)
	}

	return sub, nil
}

// ListSubscriptions retrieves all subscriptions in ID order.
func (r *Repository) ListSubscriptions(ctx context.Context) ([]*model.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY id`
	return r.querySubscriptions(ctx, query)
}

// ListSubscriptionsByUserID retrieves the subscriptions owned by a user in ID order.
// An unknown user yields an empty slice.
func (r *Repository) ListSubscriptionsByUserID(ctx context.Context, userID int64) ([]*model.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 ORDER BY id`
	return r.querySubscriptions(ctx, query, userID)
}

// UpdateSubscription updates a subscription's mutable fields, including its owner.
func (r *Repository) UpdateSubscription(ctx context.Context, sub *model.Subscription) error {
	query := `
		UPDATE subscriptions
		SET service_title = $2, plan = $3, description = $4, user_id = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		sub.ID,
		sub.ServiceTitle,
		sub.Plan,
		sub.Description,
		sub.UserID,
	).Scan(&sub.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSubscriptionNotFound
		}
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	return nil
}

// DeleteSubscription removes a subscription row.
func (r *Repository) DeleteSubscription(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

// DeleteSubscriptionsByUserID removes every subscription owned by a user and
// returns how many rows were removed.
func (r *Repository) DeleteSubscriptionsByUserID(ctx context.Context, userID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete subscriptions for user: %w", err)
	}

	return result.RowsAffected(), nil
}

// TopSubscriptionsByTitle ranks service titles by how many subscriptions use them.
// Ties are ordered by title.
func (r *Repository) TopSubscriptionsByTitle(ctx context.Context, limit int) ([]model.PopularSubscription, error) {
	query := `
		SELECT service_title, COUNT(*) AS total
		FROM subscriptions
		GROUP BY service_title
		ORDER BY total DESC, service_title ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank subscriptions: %w", err)
	}
	defer rows.Close()

	ranking := make([]model.PopularSubscription, 0, limit)
	for rows.Next() {
		var p model.PopularSubscription
		if err := rows.Scan(&p.ServiceTitle, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		ranking = append(ranking, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking: %w", err)
	}

	return ranking, nil
}

func (r *Repository) querySubscriptions(ctx context.Context, query string, args ...any) ([]*model.Subscription, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := make([]*model.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}

	return subs, nil
}

// scanSubscription scans a single row into a Subscription model.
func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var sub model.Subscription
	err := row.Scan(
		&sub.ID,
		&sub.ServiceTitle,
		&sub.Plan,
		&sub.Description,
		&sub.UserID,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	return &sub, err
}
