package models

import "sort"

// BootstrapCursor is the reserved cursor meaning "no prior state".
const BootstrapCursor = "0"

// SyncResult is one page of changes for a collection.
type SyncResult struct {
	Status        int
	Updated       []CalendarEvent
	DeletedIDs    []string
	MoreAvailable bool
	NewCursor     string
}

// MergeEvents applies a page to cached events: ids in DeletedIDs are removed,
// Updated events replace any cached event with the same id, and the result is
// sorted by start time, then id. cached is not modified.
func MergeEvents(cached []CalendarEvent, res SyncResult) []CalendarEvent {
	gone := make(map[string]bool, len(res.DeletedIDs))
	for _, id := range res.DeletedIDs {
		gone[id] = true
	}
	byID := make(map[string]CalendarEvent, len(cached)+len(res.Updated))
	for _, ev := range cached {
		if !gone[ev.ID] {
			byID[ev.ID] = ev
		}
	}
	for _, ev := range res.Updated {
		byID[ev.ID] = ev
	}

	out := make([]CalendarEvent, 0, len(byID))
	for _, ev := range byID {
		out = append(out, ev)
	}
	SortEvents(out)
	return out
}

// SortEvents orders events by start time ascending, ties broken by id.
func SortEvents(events []CalendarEvent) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
}
