// Package models defines the calendar domain objects cached by the client.
package models

// FolderType mirrors the folder type codes reported by FolderSync.
type FolderType int

const (
	FolderTypeUnknown         FolderType = 0
	FolderTypeDefaultCalendar FolderType = 8
	FolderTypeUserCalendar    FolderType = 13
)

// FolderTypeFromCode maps a wire type code to a FolderType. Codes the client
// does not care about collapse to FolderTypeUnknown.
func FolderTypeFromCode(code int) FolderType {
	switch FolderType(code) {
	case FolderTypeDefaultCalendar, FolderTypeUserCalendar:
		return FolderType(code)
	default:
		return FolderTypeUnknown
	}
}

func (t FolderType) String() string {
	switch t {
	case FolderTypeDefaultCalendar:
		return "calendar"
	case FolderTypeUserCalendar:
		return "user-calendar"
	default:
		return "unknown"
	}
}

// IsCalendar reports whether the folder holds calendar items.
func (t FolderType) IsCalendar() bool {
	return t == FolderTypeDefaultCalendar || t == FolderTypeUserCalendar
}

// Folder is one node of the server folder hierarchy. ServerID is its identity.
type Folder struct {
	ServerID    string
	ParentID    string
	DisplayName string
	Type        FolderType
}

// FolderChanges is the hierarchy delta returned by one FolderSync exchange.
type FolderChanges struct {
	Status    int
	Cursor    string
	Added     []Folder
	Updated   []Folder
	DeletedID []string
}

// DefaultCalendar returns the first folder flagged as the default calendar.
func DefaultCalendar(folders []Folder) (Folder, bool) {
	for _, f := range folders {
		if f.Type == FolderTypeDefaultCalendar {
			return f, true
		}
	}
	return Folder{}, false
}

// ApplyFolderChanges returns folders with the delta applied, ordered as
// received with additions appended.
func ApplyFolderChanges(folders []Folder, ch FolderChanges) []Folder {
	gone := make(map[string]bool, len(ch.DeletedID))
	for _, id := range ch.DeletedID {
		gone[id] = true
	}
	repl := make(map[string]Folder, len(ch.Updated)+len(ch.Added))
	for _, f := range ch.Updated {
		repl[f.ServerID] = f
	}
	for _, f := range ch.Added {
		repl[f.ServerID] = f
	}

	out := make([]Folder, 0, len(folders)+len(ch.Added))
	seen := make(map[string]bool, len(folders))
	for _, f := range folders {
		if gone[f.ServerID] {
			continue
		}
		if r, ok := repl[f.ServerID]; ok {
			f = r
		}
		seen[f.ServerID] = true
		out = append(out, f)
	}
	for _, list := range [][]Folder{ch.Updated, ch.Added} {
		for _, f := range list {
			if seen[f.ServerID] || gone[f.ServerID] {
				continue
			}
			seen[f.ServerID] = true
			out = append(out, f)
		}
	}
	return out
}
