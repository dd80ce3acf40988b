package parser

import (
	"errors"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
)

var (
	ErrMalformed      = errors.New("malformed response")
	ErrUnexpectedRoot = errors.New("unexpected response root")
	ErrUnknownKind    = errors.New("unknown response kind")
)

// ResponseKind names the command a document answers.
type ResponseKind int

const (
	KindFolderSync ResponseKind = iota + 1
	KindSync
	KindProvision
)

func (k ResponseKind) String() string {
	switch k {
	case KindFolderSync:
		return "FolderSync"
	case KindSync:
		return "Sync"
	case KindProvision:
		return "Provision"
	default:
		return "unknown"
	}
}

// ProvisionResult is the outcome of one Provision exchange.
type ProvisionResult struct {
	// Status is the command level status; 1 means success.
	Status int
	// PolicyStatus is the status inside the Policy element, 0 when absent.
	PolicyStatus int
	PolicyType   string
	PolicyKey    string
}

// Response holds the typed result of one parse. Exactly one of FolderSync,
// Sync and Provision is set, matching Kind.
type Response struct {
	Kind       ResponseKind
	FolderSync *models.FolderChanges
	Sync       *models.SyncResult
	Provision  *ProvisionResult

	// CollectionID is the collection a Sync response reports on.
	CollectionID string
	// DroppedEvents and DroppedAttendees count records that failed validation.
	DroppedEvents    int
	DroppedAttendees int
}
