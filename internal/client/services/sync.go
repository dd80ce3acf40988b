package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/client"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/repositories/metadata"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/store"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/logging"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/netx"
)

var (
	ErrAlreadyRunning = errors.New("sync already running")
	ErrNotConnected   = errors.New("not connected")
	ErrNoCalendar     = errors.New("server reported no calendar folder")
)

// DefaultMaxPages bounds the Sync exchanges of one SyncEvents call.
const DefaultMaxPages = 50

// ClientFactory builds the protocol client of one account.
type ClientFactory func(serverURL string, creds client.Credentials, deviceID string) (client.Client, error)

// Options tune a SyncService. Zero values take the defaults.
type Options struct {
	MaxPages int
	// CheckReachable runs before any exchange of Connect.
	CheckReachable func(ctx context.Context, serverURL string) error
}

// State is a snapshot of the session for display.
type State struct {
	Connected    bool
	ServerURL    string
	Username     string
	DeviceID     string
	CollectionID string
	Cursor       string
	Folders      int
	Events       int
}

// SyncService is the only owner of the session and of the cache. A single
// Connect or SyncEvents runs at a time; a concurrent call fails fast with
// ErrAlreadyRunning.
type SyncService struct {
	store     *store.Store
	newClient ClientFactory
	opts      Options
	log       logging.Logger

	running atomic.Bool

	mu         sync.RWMutex
	client     client.Client
	connected  bool
	serverURL  string
	username   string
	deviceID   string
	collection string
	folders    []models.Folder
	events     []models.CalendarEvent
}

func NewSyncService(st *store.Store, newClient ClientFactory, opts Options, log logging.Logger) *SyncService {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.CheckReachable == nil {
		opts.CheckReachable = netx.CheckReachable
	}
	if log == nil {
		log = logging.Nop()
	}
	return &SyncService{store: st, newClient: newClient, opts: opts, log: log}
}

func (s *SyncService) acquire() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	return nil
}

func (s *SyncService) release() { s.running.Store(false) }

// Load fills the in-memory view from the cache so folders and events are
// readable before (or without) a connection.
func (s *SyncService) Load(ctx context.Context) error {
	deviceID, err := s.ensureDeviceID(ctx)
	if err != nil {
		return err
	}
	serverURL, err := s.store.Metadata.GetString(ctx, metadata.KeyServerURL, "")
	if err != nil {
		return err
	}
	username, err := s.store.Metadata.GetString(ctx, metadata.KeyUsername, "")
	if err != nil {
		return err
	}
	collection, err := s.store.Metadata.GetString(ctx, metadata.KeyCollection, "")
	if err != nil {
		return err
	}
	folders, err := s.store.Folders.List(ctx)
	if err != nil {
		return err
	}
	var events []models.CalendarEvent
	if collection != "" {
		if events, err = s.store.Events.List(ctx, collection); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceID = deviceID
	s.serverURL = serverURL
	s.username = username
	s.collection = collection
	s.folders = folders
	s.events = events
	return nil
}

// ensureDeviceID returns the stored device id, generating one on first use.
func (s *SyncService) ensureDeviceID(ctx context.Context) (string, error) {
	id, err := s.store.Metadata.GetString(ctx, metadata.KeyDeviceID, "")
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := s.store.Metadata.SetString(ctx, metadata.KeyDeviceID, id); err != nil {
		return "", err
	}
	s.log.Info(ctx, "generated device id", "device_id", id)
	return id, nil
}

// Connect runs Discover, Provision and FolderSync against serverURL and
// selects the default calendar collection. Switching to another account or
// server wipes the cache, but only once the new server accepted the
// handshake; until then the previous session and cache are left alone.
func (s *SyncService) Connect(ctx context.Context, serverURL string, creds client.Credentials) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	if err := s.opts.CheckReachable(ctx, serverURL); err != nil {
		return fmt.Errorf("%w: %v", client.ErrOffline, err)
	}

	deviceID, err := s.ensureDeviceID(ctx)
	if err != nil {
		return err
	}

	c, err := s.newClient(serverURL, creds, deviceID)
	if err != nil {
		return err
	}

	caps, err := c.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	s.log.Info(ctx, "server discovered", "version", caps.Negotiated)

	if _, err := c.Provision(ctx); err != nil {
		return fmt.Errorf("provision: %w", err)
	}

	if err := s.switchAccount(ctx, serverURL, creds.Username); err != nil {
		return err
	}

	folders, err := s.syncFolders(ctx, c)
	if err != nil {
		return fmt.Errorf("folder sync: %w", err)
	}

	cal, ok := models.DefaultCalendar(folders)
	if !ok {
		for _, f := range folders {
			if f.Type.IsCalendar() {
				cal, ok = f, true
				break
			}
		}
	}
	if !ok {
		return ErrNoCalendar
	}
	if err := s.store.Metadata.SetString(ctx, metadata.KeyCollection, cal.ServerID); err != nil {
		return err
	}
	events, err := s.store.Events.List(ctx, cal.ServerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.client = c
	s.connected = true
	s.serverURL = serverURL
	s.username = creds.Username
	s.deviceID = deviceID
	s.collection = cal.ServerID
	s.folders = folders
	s.events = events
	s.mu.Unlock()

	s.log.Info(ctx, "connected", "collection", cal.ServerID, "calendar", cal.DisplayName, "folders", len(folders))
	return nil
}

// switchAccount records serverURL and username as the cached account. When
// they differ from the stored ones the running session is dropped and the
// cache wiped, so nothing of the old account can be synced into the new one.
func (s *SyncService) switchAccount(ctx context.Context, serverURL, username string) error {
	prevURL, err := s.store.Metadata.GetString(ctx, metadata.KeyServerURL, "")
	if err != nil {
		return err
	}
	prevUser, err := s.store.Metadata.GetString(ctx, metadata.KeyUsername, "")
	if err != nil {
		return err
	}
	if prevURL == serverURL && prevUser == username {
		return nil
	}
	if prevURL != "" || prevUser != "" {
		s.log.Info(ctx, "account changed, clearing cache", "server", serverURL, "user", username)
		s.markDisconnected()
		s.mu.Lock()
		s.serverURL, s.username = "", ""
		s.collection, s.folders, s.events = "", nil, nil
		s.mu.Unlock()
		if err := s.store.Wipe(ctx); err != nil {
			return err
		}
	}
	if err := s.store.Metadata.SetString(ctx, metadata.KeyServerURL, serverURL); err != nil {
		return err
	}
	return s.store.Metadata.SetString(ctx, metadata.KeyUsername, username)
}

// syncFolders brings the cached hierarchy up to date. An invalid hierarchy
// cursor resets the hierarchy and restarts from the bootstrap cursor once.
func (s *SyncService) syncFolders(ctx context.Context, c client.Client) ([]models.Folder, error) {
	cursor, err := s.store.FolderCursor(ctx)
	if err != nil {
		return nil, err
	}

	ch, err := c.FolderSync(ctx, cursor)
	if errors.Is(err, client.ErrInvalidSyncKey) && cursor != models.BootstrapCursor {
		s.log.Warn(ctx, "folder cursor rejected, resyncing hierarchy")
		cursor = models.BootstrapCursor
		ch, err = c.FolderSync(ctx, cursor)
	}
	if err != nil {
		return nil, err
	}

	if cursor == models.BootstrapCursor {
		// A bootstrap answer is the complete hierarchy.
		if err := s.store.ResetHierarchy(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.store.CommitFolders(ctx, *ch); err != nil {
		return nil, err
	}
	return s.store.Folders.List(ctx)
}

// Disconnect ends the session and clears the cache. The device id is kept.
func (s *SyncService) Disconnect(ctx context.Context) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	c := s.client
	s.client = nil
	s.connected = false
	s.serverURL, s.username = "", ""
	s.collection, s.folders, s.events = "", nil, nil
	s.mu.Unlock()

	if c != nil {
		c.Reset()
	}
	if err := s.store.Wipe(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	s.log.Info(ctx, "disconnected")
	return nil
}

// SyncEvents pulls changes of the selected calendar until the server reports
// no more pages or MaxPages exchanges ran. Each page is merged, committed
// together with its cursor and only then published. The returned result
// aggregates every committed page; MoreAvailable is set when the page limit
// stopped the loop early.
func (s *SyncService) SyncEvents(ctx context.Context) (models.SyncResult, error) {
	if err := s.acquire(); err != nil {
		return models.SyncResult{}, err
	}
	defer s.release()

	s.mu.RLock()
	c, connected, collection := s.client, s.connected, s.collection
	s.mu.RUnlock()
	if !connected || c == nil {
		return models.SyncResult{}, ErrNotConnected
	}

	var total models.SyncResult
	reset := false
	for page := 0; page < s.opts.MaxPages; page++ {
		cursor, err := s.store.Cursor(ctx, collection)
		if err != nil {
			return total, err
		}
		bootstrap := cursor == models.BootstrapCursor

		res, err := c.Sync(ctx, collection, cursor)
		switch {
		case errors.Is(err, client.ErrInvalidSyncKey) && !reset:
			s.log.Warn(ctx, "sync cursor rejected, resyncing collection", "collection", collection)
			if err := s.resetCollection(ctx, collection); err != nil {
				return total, err
			}
			reset = true
			continue
		case errors.Is(err, client.ErrProvisioningRequired):
			s.markDisconnected()
			return total, fmt.Errorf("sync: %w", err)
		case err != nil:
			return total, fmt.Errorf("sync: %w", err)
		}

		if err := s.apply(ctx, collection, res); err != nil {
			return total, err
		}
		total.Status = res.Status
		total.NewCursor = res.NewCursor
		total.Updated = append(total.Updated, res.Updated...)
		total.DeletedIDs = append(total.DeletedIDs, res.DeletedIDs...)

		s.log.Debug(ctx, "sync page committed",
			"collection", collection,
			"page", page+1,
			"bootstrap", bootstrap,
			"updated", len(res.Updated),
			"deleted", len(res.DeletedIDs),
			"more", res.MoreAvailable)

		// A bootstrap exchange only issues the first cursor; items follow.
		if !(bootstrap && res.NewCursor != models.BootstrapCursor) && !res.MoreAvailable {
			return total, nil
		}
	}

	s.log.Warn(ctx, "sync stopped at page limit", "collection", collection, "pages", s.opts.MaxPages)
	total.MoreAvailable = true
	return total, nil
}

// apply merges a page into the cached events, commits it with its cursor and
// publishes the merged view. Nothing is published when the commit fails.
func (s *SyncService) apply(ctx context.Context, collection string, res models.SyncResult) error {
	s.mu.RLock()
	cached := s.events
	s.mu.RUnlock()

	merged := models.MergeEvents(cached, res)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.CommitSync(ctx, collection, res); err != nil {
		return fmt.Errorf("commit sync page: %w", err)
	}

	s.mu.Lock()
	s.events = merged
	s.mu.Unlock()
	return nil
}

func (s *SyncService) resetCollection(ctx context.Context, collection string) error {
	if err := s.store.ResetCollection(ctx, collection); err != nil {
		return fmt.Errorf("reset collection: %w", err)
	}
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
	return nil
}

func (s *SyncService) markDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Reset()
	}
	s.client = nil
	s.connected = false
}

func (s *SyncService) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Ping checks the live session. It does not take the sync guard.
func (s *SyncService) Ping(ctx context.Context) error {
	s.mu.RLock()
	c := s.client
	s.mu.RUnlock()
	if c == nil {
		return ErrNotConnected
	}
	return c.Ping(ctx)
}

// Folders returns a copy of the cached folder hierarchy.
func (s *SyncService) Folders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Folder(nil), s.folders...)
}

// Events returns a copy of the cached events, ordered by start time.
func (s *SyncService) Events() []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CalendarEvent(nil), s.events...)
}

// DefaultCalendar returns the folder events are synced from.
func (s *SyncService) DefaultCalendar() (models.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.ServerID == s.collection {
			return f, true
		}
	}
	return models.Folder{}, false
}

func (s *SyncService) State(ctx context.Context) (State, error) {
	s.mu.RLock()
	st := State{
		Connected:    s.connected,
		ServerURL:    s.serverURL,
		Username:     s.username,
		DeviceID:     s.deviceID,
		CollectionID: s.collection,
		Folders:      len(s.folders),
		Events:       len(s.events),
	}
	s.mu.RUnlock()

	if st.CollectionID != "" {
		cursor, err := s.store.Cursor(ctx, st.CollectionID)
		if err != nil {
			return st, err
		}
		st.Cursor = cursor
	}
	return st, nil
}
