// Package store owns the local SQLite cache: migrations, repositories and the
// transactions that keep cached items and their cursors consistent.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/migrations"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/repositories/events"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/repositories/folders"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/repositories/metadata"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/dbx"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Store is the only writer of the cache. Every method that moves a cursor
// runs in a single transaction with the item changes it authorises.
type Store struct {
	db       *sql.DB
	Metadata metadata.Repository
	Events   events.Repository
	Folders  folders.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the cache at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection serialises writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate cache: %w", err)
	}
	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		db:       db,
		Metadata: metadata.NewSQLiteRepository(db),
		Events:   events.NewSQLiteRepository(db),
		Folders:  folders.NewSQLiteRepository(db),
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Cursor returns the stored cursor of a collection, BootstrapCursor if none.
func (s *Store) Cursor(ctx context.Context, collectionID string) (string, error) {
	return s.Metadata.GetString(ctx, metadata.CursorKey(collectionID), models.BootstrapCursor)
}

// FolderCursor returns the stored hierarchy cursor, BootstrapCursor if none.
func (s *Store) FolderCursor(ctx context.Context) (string, error) {
	return s.Metadata.GetString(ctx, metadata.KeyFolderCursor, models.BootstrapCursor)
}

// CommitSync applies one page to the cache and stores its cursor atomically.
// On error nothing is written.
func (s *Store) CommitSync(ctx context.Context, collectionID string, res models.SyncResult) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ev := events.NewSQLiteRepository(tx)
		for _, id := range res.DeletedIDs {
			if err := ev.Delete(ctx, collectionID, id); err != nil {
				return err
			}
		}
		for _, e := range res.Updated {
			if err := ev.Upsert(ctx, collectionID, e); err != nil {
				return err
			}
		}
		return metadata.NewSQLiteRepository(tx).SetString(ctx, metadata.CursorKey(collectionID), res.NewCursor)
	})
}

// CommitFolders applies a hierarchy delta and stores the hierarchy cursor.
func (s *Store) CommitFolders(ctx context.Context, ch models.FolderChanges) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fr := folders.NewSQLiteRepository(tx)
		for _, id := range ch.DeletedID {
			if err := fr.Delete(ctx, id); err != nil {
				return err
			}
		}
		for _, list := range [][]models.Folder{ch.Updated, ch.Added} {
			for _, f := range list {
				if err := fr.Upsert(ctx, f); err != nil {
					return err
				}
			}
		}
		return metadata.NewSQLiteRepository(tx).SetString(ctx, metadata.KeyFolderCursor, ch.Cursor)
	})
}

// ResetCollection drops the cached items of a collection and rewinds its
// cursor to BootstrapCursor.
func (s *Store) ResetCollection(ctx context.Context, collectionID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := events.NewSQLiteRepository(tx).DeleteCollection(ctx, collectionID); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).SetString(ctx, metadata.CursorKey(collectionID), models.BootstrapCursor)
	})
}

// ResetHierarchy drops cached folders and rewinds the hierarchy cursor.
func (s *Store) ResetHierarchy(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := folders.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).SetString(ctx, metadata.KeyFolderCursor, models.BootstrapCursor)
	})
}

// Wipe removes every cached item, folder and cursor. The device id survives.
func (s *Store) Wipe(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		md := metadata.NewSQLiteRepository(tx)
		deviceID, err := md.Get(ctx, metadata.KeyDeviceID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
			return fmt.Errorf("failed to clear events: %w", err)
		}
		if err := folders.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := md.Clear(ctx); err != nil {
			return err
		}
		if deviceID != nil {
			return md.Set(ctx, metadata.KeyDeviceID, deviceID)
		}
		return nil
	})
}
