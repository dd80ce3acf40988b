package events

import (
	"context"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
)

// Repository describes storage operations for cached events of one account.
type Repository interface {
	// Upsert inserts ev or replaces the stored event with the same id.
	Upsert(ctx context.Context, collectionID string, ev models.CalendarEvent) error

	// Delete removes one event. Deleting a missing id is not an error.
	Delete(ctx context.Context, collectionID, id string) error

	// DeleteCollection removes every event of a collection.
	DeleteCollection(ctx context.Context, collectionID string) error

	// List returns the events of a collection ordered by start time, then id.
	List(ctx context.Context, collectionID string) ([]models.CalendarEvent, error)
}
