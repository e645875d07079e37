// Package session provides session storage and the append-only turn log.
package session

import (
	"context"
	"errors"

	"github.com/StyNW7/Zenium/pkg/models"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// Repository stores sessions. Implementations must be safe for concurrent
// use; callers serialize mutations per session so turn order is never
// interleaved.
type Repository interface {
	// Get returns the session or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Session, error)

	// Put stores or replaces the session.
	Put(ctx context.Context, s *models.Session) error

	// Delete removes the session. Deleting an unknown id returns
	// ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns sessions, filtered by user id when non-empty.
	List(ctx context.Context, userID string) ([]*models.Session, error)
}
