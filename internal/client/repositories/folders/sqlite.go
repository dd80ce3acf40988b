package folders

import (
	"context"
	"fmt"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, f models.Folder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO folders (server_id, parent_id, display_name, type) VALUES (?, ?, ?, ?)
		ON CONFLICT(server_id) DO UPDATE SET parent_id = excluded.parent_id,
			display_name = excluded.display_name,
			type = excluded.type
	`, f.ServerID, f.ParentID, f.DisplayName, int(f.Type))
	if err != nil {
		return fmt.Errorf("failed to upsert folder[%s]: %w", f.ServerID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, serverID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE server_id = ?`, serverID)
	if err != nil {
		return fmt.Errorf("failed to delete folder[%s]: %w", serverID, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM folders`)
	if err != nil {
		return fmt.Errorf("failed to clear folders: %w", err)
	}
	return nil
}

// List returns folders in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Folder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT server_id, parent_id, display_name, type FROM folders ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var result []models.Folder
	for rows.Next() {
		var f models.Folder
		var typ int
		if err := rows.Scan(&f.ServerID, &f.ParentID, &f.DisplayName, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan folder row: %w", err)
		}
		f.Type = models.FolderType(typ)
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folder rows: %w", err)
	}
	return result, nil
}
