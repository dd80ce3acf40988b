package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert stores ev by (collectionID, id). On conflict every column is replaced.
func (r *SQLiteRepository) Upsert(ctx context.Context, collectionID string, ev models.CalendarEvent) error {
	organizer, err := marshalNullable(ev.Organizer)
	if err != nil {
		return fmt.Errorf("failed to encode organizer of event %s: %w", ev.ID, err)
	}
	attendees, err := marshalNullable(ev.Attendees)
	if err != nil {
		return fmt.Errorf("failed to encode attendees of event %s: %w", ev.ID, err)
	}
	recurrence, err := marshalNullable(ev.Recurrence)
	if err != nil {
		return fmt.Errorf("failed to encode recurrence of event %s: %w", ev.ID, err)
	}

	query := `INSERT INTO events (collection_id, id, uid, subject, start_at, end_at, location, body,
			all_day, organizer, attendees, recurrence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection_id, id) DO UPDATE SET uid = excluded.uid,
			subject = excluded.subject,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			location = excluded.location,
			body = excluded.body,
			all_day = excluded.all_day,
			organizer = excluded.organizer,
			attendees = excluded.attendees,
			recurrence = excluded.recurrence
	`
	_, err = r.db.ExecContext(ctx, query,
		collectionID, ev.ID, ev.UID, ev.Subject, ev.Start.UnixMilli(), ev.End.UnixMilli(),
		ev.Location, ev.Body, ev.AllDay, organizer, attendees, recurrence)
	if err != nil {
		return fmt.Errorf("failed to upsert event %s: %w", ev.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, collectionID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE collection_id = ? AND id = ?`, collectionID, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCollection(ctx context.Context, collectionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE collection_id = ?`, collectionID)
	if err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", collectionID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, collectionID string) ([]models.CalendarEvent, error) {
	query := `SELECT id, uid, subject, start_at, end_at, location, body, all_day, organizer, attendees, recurrence
		FROM events WHERE collection_id = ? ORDER BY start_at, id`
	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []models.CalendarEvent
	for rows.Next() {
		var (
			ev                               models.CalendarEvent
			start, end                       int64
			organizer, attendees, recurrence sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.UID, &ev.Subject, &start, &end, &ev.Location, &ev.Body,
			&ev.AllDay, &organizer, &attendees, &recurrence); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		ev.Start = time.UnixMilli(start).UTC()
		ev.End = time.UnixMilli(end).UTC()
		if err := unmarshalNullable(organizer, &ev.Organizer); err != nil {
			return nil, fmt.Errorf("failed to decode organizer of event %s: %w", ev.ID, err)
		}
		if err := unmarshalNullable(attendees, &ev.Attendees); err != nil {
			return nil, fmt.Errorf("failed to decode attendees of event %s: %w", ev.ID, err)
		}
		if err := unmarshalNullable(recurrence, &ev.Recurrence); err != nil {
			return nil, fmt.Errorf("failed to decode recurrence of event %s: %w", ev.ID, err)
		}
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event rows: %w", err)
	}
	return result, nil
}

func marshalNullable[T any](v T) (sql.NullString, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	if string(b) == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalNullable(s sql.NullString, dst any) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}
