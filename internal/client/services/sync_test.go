package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/client"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/repositories/metadata"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/store"
)

const (
	testServer = "https://mail.example.com"
	calendarID = "cal"
)

// fakeClient scripts the protocol client. Sync answers are popped in order.
type fakeClient struct {
	client.Client

	mu sync.Mutex

	discoverErr  error
	provisionErr error

	folderPages []folderAnswer
	folderCalls []string

	syncPages []syncAnswer
	syncCalls []string
	syncHook  func(call int)

	resets int
}

type folderAnswer struct {
	ch  *models.FolderChanges
	err error
}

type syncAnswer struct {
	res models.SyncResult
	err error
}

func (f *fakeClient) Discover(context.Context) (client.Capabilities, error) {
	return client.Capabilities{Negotiated: "14.1"}, f.discoverErr
}

func (f *fakeClient) Provision(context.Context) (string, error) {
	if f.provisionErr != nil {
		return "", f.provisionErr
	}
	return "KEY", nil
}

func (f *fakeClient) FolderSync(_ context.Context, cursor string) (*models.FolderChanges, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folderCalls = append(f.folderCalls, cursor)
	if len(f.folderPages) == 0 {
		return &models.FolderChanges{Status: 1, Cursor: cursor}, nil
	}
	a := f.folderPages[0]
	f.folderPages = f.folderPages[1:]
	return a.ch, a.err
}

func (f *fakeClient) Sync(ctx context.Context, collectionID, cursor string) (models.SyncResult, error) {
	f.mu.Lock()
	f.syncCalls = append(f.syncCalls, cursor)
	call := len(f.syncCalls)
	hook := f.syncHook
	var a syncAnswer
	if len(f.syncPages) > 0 {
		a = f.syncPages[0]
		f.syncPages = f.syncPages[1:]
	} else {
		a = syncAnswer{res: models.SyncResult{Status: 1, NewCursor: cursor}}
	}
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err := ctx.Err(); err != nil {
		return models.SyncResult{}, err
	}
	return a.res, a.err
}

func (f *fakeClient) Ping(context.Context) error { return nil }
func (f *fakeClient) Reset()                     { f.resets++ }

func calendarHierarchy() *models.FolderChanges {
	return &models.FolderChanges{
		Status: 1,
		Cursor: "F1",
		Added: []models.Folder{
			{ServerID: "inbox", DisplayName: "Inbox"},
			{ServerID: calendarID, DisplayName: "Calendar", Type: models.FolderTypeDefaultCalendar},
		},
	}
}

func event(id string, hour int) models.CalendarEvent {
	start := time.Date(2025, 1, 10, hour, 0, 0, 0, time.UTC)
	return models.CalendarEvent{ID: id, Subject: id, Start: start, End: start.Add(time.Hour)}
}

func ids(events []models.CalendarEvent) []string {
	out := []string{}
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func newTestService(t *testing.T, fc *fakeClient) (*SyncService, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	factory := func(serverURL string, creds client.Credentials, deviceID string) (client.Client, error) {
		return fc, nil
	}
	svc := NewSyncService(st, factory, Options{
		MaxPages:       5,
		CheckReachable: func(context.Context, string) error { return nil },
	}, nil)
	return svc, st
}

func connect(t *testing.T, svc *SyncService) {
	t.Helper()
	require.NoError(t, svc.Connect(context.Background(), testServer, client.Credentials{Username: "alice", Password: "pw"}))
}

func TestConnect_SelectsDefaultCalendarAndStoresState(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, st := newTestService(t, fc)
	ctx := context.Background()

	connect(t, svc)

	assert.True(t, svc.IsConnected())
	cal, ok := svc.DefaultCalendar()
	require.True(t, ok)
	assert.Equal(t, calendarID, cal.ServerID)
	assert.Len(t, svc.Folders(), 2)
	assert.Equal(t, []string{"0"}, fc.folderCalls)

	cursor, err := st.FolderCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "F1", cursor)

	coll, err := st.Metadata.GetString(ctx, metadata.KeyCollection, "")
	require.NoError(t, err)
	assert.Equal(t, calendarID, coll)

	deviceID, err := st.Metadata.GetString(ctx, metadata.KeyDeviceID, "")
	require.NoError(t, err)
	assert.Len(t, deviceID, 36)
}

func TestConnect_ReusesDeviceID(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyDeviceID, "fixed-device"))

	var got string
	svc.newClient = func(serverURL string, creds client.Credentials, deviceID string) (client.Client, error) {
		got = deviceID
		return fc, nil
	}
	connect(t, svc)
	assert.Equal(t, "fixed-device", got)
}

func TestConnect_Offline(t *testing.T) {
	fc := &fakeClient{}
	svc, _ := newTestService(t, fc)
	svc.opts.CheckReachable = func(context.Context, string) error { return errors.New("dial refused") }

	err := svc.Connect(context.Background(), testServer, client.Credentials{Username: "alice"})
	require.ErrorIs(t, err, client.ErrOffline)
	assert.Equal(t, ReasonNotConnected, Classify(err))
	assert.False(t, svc.IsConnected())
}

func TestConnect_ProvisioningDenied(t *testing.T) {
	fc := &fakeClient{provisionErr: client.ErrProvisioningDenied}
	svc, _ := newTestService(t, fc)

	err := svc.Connect(context.Background(), testServer, client.Credentials{Username: "alice"})
	require.ErrorIs(t, err, client.ErrProvisioningDenied)
	assert.Equal(t, ReasonProvisioningDenied, Classify(err))
	assert.False(t, svc.IsConnected())
	assert.Empty(t, fc.folderCalls)
}

func TestConnect_Unauthorized(t *testing.T) {
	fc := &fakeClient{discoverErr: &client.StatusError{Code: 401, Err: client.ErrUnauthorized}}
	svc, _ := newTestService(t, fc)

	err := svc.Connect(context.Background(), testServer, client.Credentials{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, ReasonAuthRequired, Classify(err))
}

func TestConnect_NoCalendar(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: &models.FolderChanges{
		Status: 1, Cursor: "F1",
		Added: []models.Folder{{ServerID: "inbox", DisplayName: "Inbox"}},
	}}}}
	svc, _ := newTestService(t, fc)

	err := svc.Connect(context.Background(), testServer, client.Credentials{Username: "alice"})
	require.ErrorIs(t, err, ErrNoCalendar)
	assert.False(t, svc.IsConnected())
}

func TestConnect_FallsBackToUserCalendar(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: &models.FolderChanges{
		Status: 1, Cursor: "F1",
		Added: []models.Folder{{ServerID: "team", DisplayName: "Team", Type: models.FolderTypeUserCalendar}},
	}}}}
	svc, _ := newTestService(t, fc)

	connect(t, svc)
	cal, ok := svc.DefaultCalendar()
	require.True(t, ok)
	assert.Equal(t, "team", cal.ServerID)
}

func TestConnect_InvalidFolderCursorResyncsOnce(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{
		{err: &client.CommandError{Command: "FolderSync", Status: 9}},
		{ch: calendarHierarchy()},
	}}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyServerURL, testServer))
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyUsername, "alice"))
	require.NoError(t, st.CommitFolders(ctx, models.FolderChanges{
		Cursor: "STALE",
		Added:  []models.Folder{{ServerID: "gone", DisplayName: "Gone"}},
	}))

	connect(t, svc)

	assert.Equal(t, []string{"STALE", "0"}, fc.folderCalls)
	for _, f := range svc.Folders() {
		assert.NotEqual(t, "gone", f.ServerID)
	}
}

func TestConnect_AccountSwitchWipesCache(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyServerURL, "https://old.example.com"))
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyUsername, "bob"))
	require.NoError(t, st.CommitSync(ctx, calendarID, models.SyncResult{
		NewCursor: "S9",
		Updated:   []models.CalendarEvent{event("old", 8)},
	}))

	connect(t, svc)

	assert.Empty(t, svc.Events())
	cursor, err := st.Cursor(ctx, calendarID)
	require.NoError(t, err)
	assert.Equal(t, models.BootstrapCursor, cursor)
	user, err := st.Metadata.GetString(ctx, metadata.KeyUsername, "")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
}

func TestConnect_FailedAccountSwitchKeepsSession(t *testing.T) {
	fc := &fakeClient{
		folderPages: []folderAnswer{{ch: calendarHierarchy()}},
		syncPages: []syncAnswer{
			{res: models.SyncResult{Status: 1, NewCursor: "S1"}},
			{res: models.SyncResult{Status: 1, NewCursor: "S2", Updated: []models.CalendarEvent{event("a", 9)}}},
		},
	}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	connect(t, svc)
	_, err := svc.SyncEvents(ctx)
	require.NoError(t, err)

	fc.discoverErr = errors.New("boom")
	err = svc.Connect(ctx, "https://other.example.com", client.Credentials{Username: "bob", Password: "pw"})
	require.Error(t, err)

	assert.True(t, svc.IsConnected())
	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, testServer, state.ServerURL)
	assert.Equal(t, "alice", state.Username)
	assert.Equal(t, calendarID, state.CollectionID)
	assert.Equal(t, "S2", state.Cursor)
	assert.Equal(t, []string{"a"}, ids(svc.Events()))

	user, err := st.Metadata.GetString(ctx, metadata.KeyUsername, "")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	_, err = svc.SyncEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "S2", fc.syncCalls[len(fc.syncCalls)-1])
}

func TestConnect_AccountSwitchFailingAfterWipeDisconnects(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, _ := newTestService(t, fc)
	ctx := context.Background()
	connect(t, svc)

	fc.folderPages = []folderAnswer{{err: errors.New("boom")}}
	err := svc.Connect(ctx, "https://other.example.com", client.Credentials{Username: "bob", Password: "pw"})
	require.Error(t, err)

	assert.False(t, svc.IsConnected())
	assert.Equal(t, 1, fc.resets)
	assert.Empty(t, svc.Folders())
	_, err = svc.SyncEvents(ctx)
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestSyncEvents_NotConnected(t *testing.T) {
	svc, _ := newTestService(t, &fakeClient{})
	_, err := svc.SyncEvents(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, ReasonNotConnected, Classify(err))
}

func TestSyncEvents_BootstrapThenItems(t *testing.T) {
	fc := &fakeClient{
		folderPages: []folderAnswer{{ch: calendarHierarchy()}},
		syncPages: []syncAnswer{
			{res: models.SyncResult{Status: 1, NewCursor: "S1"}},
			{res: models.SyncResult{Status: 1, NewCursor: "S2", Updated: []models.CalendarEvent{event("b", 10), event("a", 9)}}},
		},
	}
	svc, st := newTestService(t, fc)
	connect(t, svc)

	res, err := svc.SyncEvents(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "S1"}, fc.syncCalls)
	assert.Equal(t, "S2", res.NewCursor)
	assert.False(t, res.MoreAvailable)
	assert.Equal(t, []string{"a", "b"}, ids(svc.Events()))

	cursor, err := st.Cursor(context.Background(), calendarID)
	require.NoError(t, err)
	assert.Equal(t, "S2", cursor)

	cached, err := st.Events.List(context.Background(), calendarID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(cached))
}

func TestSyncEvents_MergeDeletesAndUpserts(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyServerURL, testServer))
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyUsername, "alice"))
	require.NoError(t, st.CommitSync(ctx, calendarID, models.SyncResult{
		NewCursor: "S1",
		Updated:   []models.CalendarEvent{event("a", 9), event("b", 11)},
	}))
	connect(t, svc)
	require.Equal(t, []string{"a", "b"}, ids(svc.Events()))

	fc.syncPages = []syncAnswer{{res: models.SyncResult{
		Status:     1,
		NewCursor:  "S2",
		DeletedIDs: []string{"a"},
		Updated:    []models.CalendarEvent{event("c", 10)},
	}}}

	res, err := svc.SyncEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, fc.syncCalls)
	assert.Equal(t, []string{"a"}, res.DeletedIDs)
	assert.Equal(t, []string{"c", "b"}, ids(svc.Events()))
}

func TestSyncEvents_DrainsMoreAvailable(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyServerURL, testServer))
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyUsername, "alice"))
	require.NoError(t, st.CommitSync(ctx, calendarID, models.SyncResult{NewCursor: "S1"}))
	connect(t, svc)

	fc.syncPages = []syncAnswer{
		{res: models.SyncResult{Status: 1, NewCursor: "S2", MoreAvailable: true, Updated: []models.CalendarEvent{event("a", 9)}}},
		{res: models.SyncResult{Status: 1, NewCursor: "S3", MoreAvailable: true, Updated: []models.CalendarEvent{event("b", 10)}}},
		{res: models.SyncResult{Status: 1, NewCursor: "S4", Updated: []models.CalendarEvent{event("c", 11)}}},
	}

	res, err := svc.SyncEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2", "S3"}, fc.syncCalls)
	assert.Equal(t, "S4", res.NewCursor)
	assert.Len(t, res.Updated, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(svc.Events()))
}

func TestSyncEvents_PageLimit(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyServerURL, testServer))
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyUsername, "alice"))
	require.NoError(t, st.CommitSync(ctx, calendarID, models.SyncResult{NewCursor: "S1"}))
	svc.opts.MaxPages = 2
	connect(t, svc)

	fc.syncPages = []syncAnswer{
		{res: models.SyncResult{Status: 1, NewCursor: "S2", MoreAvailable: true}},
		{res: models.SyncResult{Status: 1, NewCursor: "S3", MoreAvailable: true}},
		{res: models.SyncResult{Status: 1, NewCursor: "S4"}},
	}

	res, err := svc.SyncEvents(ctx)
	require.NoError(t, err)
	assert.True(t, res.MoreAvailable)
	assert.Len(t, fc.syncCalls, 2)

	cursor, err := st.Cursor(ctx, calendarID)
	require.NoError(t, err)
	assert.Equal(t, "S3", cursor)
}

func TestSyncEvents_FailureKeepsCursorAndCache(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyServerURL, testServer))
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyUsername, "alice"))
	require.NoError(t, st.CommitSync(ctx, calendarID, models.SyncResult{
		NewCursor: "S1",
		Updated:   []models.CalendarEvent{event("a", 9)},
	}))
	connect(t, svc)

	fc.syncPages = []syncAnswer{{err: &client.StatusError{Code: 503, Err: client.ErrUnavailable}}}

	_, err := svc.SyncEvents(ctx)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, ReasonRetryable, Classify(err))

	cursor, err := st.Cursor(ctx, calendarID)
	require.NoError(t, err)
	assert.Equal(t, "S1", cursor)
	assert.Equal(t, []string{"a"}, ids(svc.Events()))
	assert.True(t, svc.IsConnected())
}

func TestSyncEvents_CancelBeforeCommit(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, st := newTestService(t, fc)
	bg := context.Background()
	require.NoError(t, st.Metadata.SetString(bg, metadata.KeyServerURL, testServer))
	require.NoError(t, st.Metadata.SetString(bg, metadata.KeyUsername, "alice"))
	require.NoError(t, st.CommitSync(bg, calendarID, models.SyncResult{NewCursor: "S1"}))
	connect(t, svc)

	ctx, cancel := context.WithCancel(bg)
	fc.syncPages = []syncAnswer{{res: models.SyncResult{Status: 1, NewCursor: "S2", Updated: []models.CalendarEvent{event("a", 9)}}}}
	fc.syncHook = func(int) { cancel() }

	_, err := svc.SyncEvents(ctx)
	require.ErrorIs(t, err, context.Canceled)

	cursor, err := st.Cursor(bg, calendarID)
	require.NoError(t, err)
	assert.Equal(t, "S1", cursor)
	assert.Empty(t, svc.Events())
}

func TestSyncEvents_InvalidCursorResetsAndRebootstraps(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyServerURL, testServer))
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyUsername, "alice"))
	require.NoError(t, st.CommitSync(ctx, calendarID, models.SyncResult{
		NewCursor: "S7",
		Updated:   []models.CalendarEvent{event("stale", 9)},
	}))
	connect(t, svc)

	fc.syncPages = []syncAnswer{
		{err: &client.CommandError{Command: "Sync", Status: 3}},
		{res: models.SyncResult{Status: 1, NewCursor: "N1"}},
		{res: models.SyncResult{Status: 1, NewCursor: "N2", Updated: []models.CalendarEvent{event("fresh", 10)}}},
	}

	res, err := svc.SyncEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"S7", "0", "N1"}, fc.syncCalls)
	assert.Equal(t, "N2", res.NewCursor)
	assert.Equal(t, []string{"fresh"}, ids(svc.Events()))
}

func TestSyncEvents_InvalidCursorTwiceFails(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, _ := newTestService(t, fc)
	connect(t, svc)

	invalid := syncAnswer{err: &client.CommandError{Command: "Sync", Status: 3}}
	fc.syncPages = []syncAnswer{invalid, invalid}

	_, err := svc.SyncEvents(context.Background())
	require.ErrorIs(t, err, client.ErrInvalidSyncKey)
	assert.Len(t, fc.syncCalls, 2)
}

func TestSyncEvents_ProvisioningRequiredDisconnects(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, _ := newTestService(t, fc)
	connect(t, svc)

	fc.syncPages = []syncAnswer{{err: &client.CommandError{Command: "Sync", Status: 142}}}

	_, err := svc.SyncEvents(context.Background())
	require.ErrorIs(t, err, client.ErrProvisioningRequired)
	assert.Equal(t, ReasonNotConnected, Classify(err))
	assert.False(t, svc.IsConnected())
	assert.Equal(t, 1, fc.resets)

	_, err = svc.SyncEvents(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestSyncEvents_SingleFlight(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, _ := newTestService(t, fc)
	connect(t, svc)

	entered := make(chan struct{})
	proceed := make(chan struct{})
	fc.syncPages = []syncAnswer{{res: models.SyncResult{Status: 1, NewCursor: "S1"}}, {res: models.SyncResult{Status: 1, NewCursor: "S2"}}}
	fc.syncHook = func(call int) {
		if call == 1 {
			close(entered)
			<-proceed
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.SyncEvents(context.Background())
		done <- err
	}()

	<-entered
	_, err := svc.SyncEvents(context.Background())
	require.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, ReasonRetryable, Classify(err))

	close(proceed)
	require.NoError(t, <-done)
	assert.Len(t, fc.syncCalls, 2)
}

func TestDisconnect_ClearsSessionAndCache(t *testing.T) {
	fc := &fakeClient{
		folderPages: []folderAnswer{{ch: calendarHierarchy()}},
		syncPages: []syncAnswer{
			{res: models.SyncResult{Status: 1, NewCursor: "S1"}},
			{res: models.SyncResult{Status: 1, NewCursor: "S2", Updated: []models.CalendarEvent{event("a", 9)}}},
		},
	}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	connect(t, svc)
	_, err := svc.SyncEvents(ctx)
	require.NoError(t, err)

	deviceID, err := st.Metadata.GetString(ctx, metadata.KeyDeviceID, "")
	require.NoError(t, err)

	require.NoError(t, svc.Disconnect(ctx))
	assert.False(t, svc.IsConnected())
	assert.Empty(t, svc.Events())
	assert.Empty(t, svc.Folders())
	assert.Equal(t, 1, fc.resets)

	cursor, err := st.Cursor(ctx, calendarID)
	require.NoError(t, err)
	assert.Equal(t, models.BootstrapCursor, cursor)

	kept, err := st.Metadata.GetString(ctx, metadata.KeyDeviceID, "")
	require.NoError(t, err)
	assert.Equal(t, deviceID, kept)
}

func TestLoad_RestoresCachedView(t *testing.T) {
	fc := &fakeClient{}
	svc, st := newTestService(t, fc)
	ctx := context.Background()
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyServerURL, testServer))
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyUsername, "alice"))
	require.NoError(t, st.Metadata.SetString(ctx, metadata.KeyCollection, calendarID))
	require.NoError(t, st.CommitFolders(ctx, *calendarHierarchy()))
	require.NoError(t, st.CommitSync(ctx, calendarID, models.SyncResult{
		NewCursor: "S5",
		Updated:   []models.CalendarEvent{event("b", 11), event("a", 9)},
	}))

	require.NoError(t, svc.Load(ctx))

	assert.False(t, svc.IsConnected())
	assert.Equal(t, []string{"a", "b"}, ids(svc.Events()))
	cal, ok := svc.DefaultCalendar()
	require.True(t, ok)
	assert.Equal(t, "Calendar", cal.DisplayName)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "S5", state.Cursor)
	assert.Equal(t, "alice", state.Username)
	assert.Equal(t, 2, state.Events)
	assert.NotEmpty(t, state.DeviceID)
}

func TestPing_RequiresSession(t *testing.T) {
	fc := &fakeClient{folderPages: []folderAnswer{{ch: calendarHierarchy()}}}
	svc, _ := newTestService(t, fc)
	require.ErrorIs(t, svc.Ping(context.Background()), ErrNotConnected)

	connect(t, svc)
	require.NoError(t, svc.Ping(context.Background()))
}
