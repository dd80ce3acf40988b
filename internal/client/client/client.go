package client

import (
	"context"
	"time"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
)

// Client drives the command sequence of one account. Calls are sequential;
// none of them retries.
type Client interface {
	// Discover probes the server and negotiates the protocol version.
	Discover(ctx context.Context) (Capabilities, error)
	// Provision runs the two-step policy handshake and returns the final key.
	Provision(ctx context.Context) (string, error)
	// FolderSync fetches hierarchy changes since cursor.
	FolderSync(ctx context.Context, cursor string) (*models.FolderChanges, error)
	// Sync fetches one page of item changes for a collection.
	Sync(ctx context.Context, collectionID, cursor string) (models.SyncResult, error)
	// Ping checks that the server answers with the current credentials.
	Ping(ctx context.Context) error
	// Reset forgets the policy key and negotiated version.
	Reset()
}

// Credentials authenticate every request with HTTP Basic auth.
type Credentials struct {
	Username string
	Password string
}

// Capabilities is what the server advertised during Discover.
type Capabilities struct {
	Versions   []string
	Commands   []string
	Negotiated string
}

// DeviceInfo is sent with the first Provision request.
type DeviceInfo struct {
	Model        string
	FriendlyName string
	OS           string
	OSLanguage   string
}

// Options tune an EASClient. Zero values take the defaults below.
type Options struct {
	DeviceID   string
	DeviceType string
	UserAgent  string
	// ProtocolVersion is the highest version the client will negotiate.
	ProtocolVersion string
	WindowSize      int
	FilterType      int
	BodyType        int
	TruncationSize  int
	// PlainXML sends and accepts text/xml instead of WBXML. Diagnostics only.
	PlainXML    bool
	CallTimeout time.Duration
	Device      DeviceInfo
}

const (
	DefaultProtocolVersion = "14.1"
	DefaultDeviceType      = "VantaSpeech"
	DefaultUserAgent       = "VantaSpeech-EAS/1.0"
	DefaultWindowSize      = 100
	DefaultFilterType      = 5
	DefaultBodyType        = 1
	DefaultTruncationSize  = 32768
	DefaultCallTimeout     = 30 * time.Second
)

func (o Options) withDefaults() Options {
	if o.DeviceType == "" {
		o.DeviceType = DefaultDeviceType
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.ProtocolVersion == "" {
		o.ProtocolVersion = DefaultProtocolVersion
	}
	if o.WindowSize <= 0 {
		o.WindowSize = DefaultWindowSize
	}
	if o.FilterType <= 0 {
		o.FilterType = DefaultFilterType
	}
	if o.BodyType <= 0 {
		o.BodyType = DefaultBodyType
	}
	if o.TruncationSize <= 0 {
		o.TruncationSize = DefaultTruncationSize
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = DefaultCallTimeout
	}
	return o
}
