// Package services contains the application services of the calendar client.
//
// SyncService owns the session with the groupware server and the local cache:
// it runs the connect handshake, keeps per-collection cursors and merges
// incremental changes into the cached events. Classify maps its errors onto
// the few reasons a caller acts on.
package services
