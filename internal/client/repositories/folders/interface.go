// Package folders persists the cached folder hierarchy.
package folders

import (
	"context"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, f models.Folder) error
	Delete(ctx context.Context, serverID string) error
	List(ctx context.Context) ([]models.Folder, error)
	Clear(ctx context.Context) error
}
