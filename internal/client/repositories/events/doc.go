// Package events provides the local persistence layer for cached calendar
// events.
//
// # Overview
//
// The package defines a Repository interface over CalendarEvent models (see
// internal/client/models). The SQLite implementation (SQLiteRepository) works
// on a dbx.DBTX, so the sync service can run it inside the same transaction
// that stores the collection cursor.
//
// # Data Model
//
// Rows are keyed by (collection_id, id). Times are stored as UTC unix
// milliseconds; organizer, attendees and recurrence are JSON columns.
//
// Typical Usage
//
//	repo := events.NewSQLiteRepository(tx)
//	_ = repo.Upsert(ctx, "2", ev)
//	_ = repo.Delete(ctx, "2", "2:15")
//	list, _ := repo.List(ctx, "2")
package events
