// Package metadata stores small key/value facts of the local cache: sync
// cursors, the device id and the chosen calendar collection.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyFolderCursor = "folder_cursor"
	KeyDeviceID     = "device_id"
	KeyCollection   = "calendar_collection"
	KeyServerURL    = "server_url"
	KeyUsername     = "username"

	cursorPrefix = "sync_cursor:"
)

// CursorKey is the key holding the sync cursor of a collection.
func CursorKey(collectionID string) string {
	return cursorPrefix + collectionID
}

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// GetString returns def when key is absent.
	GetString(ctx context.Context, key, def string) (string, error)
	SetString(ctx context.Context, key, value string) error
}
