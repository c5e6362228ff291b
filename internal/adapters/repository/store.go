// Package repository holds the ball-by-ball log of committed deliveries.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/cricscore/internal/domain/model"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// DeliveryStore persists committed deliveries. Stored deliveries are never
// modified; a correction is a Delete followed by a Create.
type DeliveryStore interface {
	// Create stores d. It returns ErrDuplicateDelivery when the ID or the
	// (match, innings, over, ball) key is taken.
	Create(ctx context.Context, d *model.DeliveryEvent) error

	// Get returns the delivery at key or ErrNotFound.
	Get(ctx context.Context, key model.Key) (*model.DeliveryEvent, error)

	// Delete removes the delivery at key or returns ErrNotFound.
	Delete(ctx context.Context, key model.Key) error

	// List returns up to limit deliveries of an innings in over/ball order.
	// A limit of zero means no limit.
	List(ctx context.Context, matchID string, innings int, limit int) ([]*model.DeliveryEvent, error)

	// Last returns the latest delivery of an innings or ErrNotFound.
	Last(ctx context.Context, matchID string, innings int) (*model.DeliveryEvent, error)

	// Count returns the number of stored deliveries.
	Count(ctx context.Context) (int, error)

	Close() error
}

// Open returns the store for driver. path is only used by DriverSQLite.
func Open(ctx context.Context, driver, path string, opts ...Option) (DeliveryStore, error) {
	switch driver {
	case "", DriverMemory:
		return NewTreapStore(ctx, opts...), nil
	case DriverSQLite:
		return OpenSQLite(ctx, path, opts...)
	}
	return nil, fmt.Errorf("%q: %w", driver, ErrUnknownDriver)
}

func checkLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%d: %w", limit, ErrInvalidLimit)
	}
	return nil
}
