package models

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(id string, hour int) CalendarEvent {
	start := time.Date(2025, 1, 10, hour, 0, 0, 0, time.UTC)
	return CalendarEvent{ID: id, Start: start, End: start.Add(time.Hour)}
}

func ids(events []CalendarEvent) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.ID
	}
	return out
}

func TestMergeEvents_DeleteThenUpsert(t *testing.T) {
	cached := []CalendarEvent{event("a", 9), event("b", 10)}
	got := MergeEvents(cached, SyncResult{DeletedIDs: []string{"a"}, Updated: []CalendarEvent{event("c", 11)}})

	assert.Equal(t, []string{"b", "c"}, ids(got))
	assert.Equal(t, []string{"a", "b"}, ids(cached), "input must stay untouched")
}

func TestMergeEvents_ReplacesByIDAndResorts(t *testing.T) {
	cached := []CalendarEvent{event("a", 9), event("b", 10), event("c", 11)}
	moved := event("a", 12)
	moved.Subject = "moved"

	got := MergeEvents(cached, SyncResult{Updated: []CalendarEvent{moved}})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
	assert.Equal(t, "moved", got[2].Subject)
}

func TestMergeEvents_TiesOrderedByID(t *testing.T) {
	got := MergeEvents(nil, SyncResult{Updated: []CalendarEvent{event("z", 9), event("m", 9), event("a", 8)}})
	assert.Equal(t, []string{"a", "m", "z"}, ids(got))
}

func TestMergeEvents_DeletingUnknownIDIsNoop(t *testing.T) {
	cached := []CalendarEvent{event("a", 9)}
	got := MergeEvents(cached, SyncResult{DeletedIDs: []string{"missing"}})
	if diff := cmp.Diff(cached, got); diff != "" {
		t.Fatalf("unexpected merge result (-want +got):\n%s", diff)
	}
}

func TestApplyFolderChanges(t *testing.T) {
	folders := []Folder{
		{ServerID: "1", DisplayName: "Inbox"},
		{ServerID: "2", DisplayName: "Calendar", Type: FolderTypeDefaultCalendar},
		{ServerID: "3", DisplayName: "Old"},
	}
	got := ApplyFolderChanges(folders, FolderChanges{
		Added:     []Folder{{ServerID: "4", DisplayName: "Team", Type: FolderTypeUserCalendar}},
		Updated:   []Folder{{ServerID: "1", DisplayName: "Mail"}},
		DeletedID: []string{"3"},
	})

	want := []Folder{
		{ServerID: "1", DisplayName: "Mail"},
		{ServerID: "2", DisplayName: "Calendar", Type: FolderTypeDefaultCalendar},
		{ServerID: "4", DisplayName: "Team", Type: FolderTypeUserCalendar},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected folders (-want +got):\n%s", diff)
	}

	cal, ok := DefaultCalendar(got)
	require.True(t, ok)
	assert.Equal(t, "2", cal.ServerID)
	assert.True(t, cal.Type.IsCalendar())
}

func TestFolderTypeFromCode(t *testing.T) {
	assert.Equal(t, FolderTypeDefaultCalendar, FolderTypeFromCode(8))
	assert.Equal(t, FolderTypeUserCalendar, FolderTypeFromCode(13))
	assert.Equal(t, FolderTypeUnknown, FolderTypeFromCode(2))
	_, ok := DefaultCalendar([]Folder{{ServerID: "x", Type: FolderTypeUserCalendar}})
	assert.False(t, ok)
}
