package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/client"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/config"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/services"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/store"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// syncService is the part of services.SyncService the CLI drives.
type syncService interface {
	Load(ctx context.Context) error
	Connect(ctx context.Context, serverURL string, creds client.Credentials) error
	Disconnect(ctx context.Context) error
	SyncEvents(ctx context.Context) (models.SyncResult, error)
	Ping(ctx context.Context) error
	IsConnected() bool
	Folders() []models.Folder
	Events() []models.CalendarEvent
	DefaultCalendar() (models.Folder, bool)
	State(ctx context.Context) (services.State, error)
}

type App struct {
	config  *config.Config
	svc     syncService
	log     logging.Logger
	out     io.Writer
	reader  *bufio.Reader
	closeFn func() error

	// reachable probes the server while no session is open.
	reachable func(ctx context.Context, serverURL string) error
	now       func() time.Time

	mu        sync.Mutex
	Mode      Mode
	serverURL string
	userName  string
	creds     client.Credentials
}

// NewApp opens the cache and wires the sync service for cfg.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewText(os.Stderr, c.LogLevel)

	st, err := store.Open(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error opening cache", "path", c.DBPath, "error", err)
		return nil, err
	}

	svc := services.NewSyncService(st, clientFactory(c, log), services.Options{MaxPages: c.MaxPages}, log)
	if err := svc.Load(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load cache: %w", err)
	}

	return &App{
		config:  c,
		svc:     svc,
		log:     log,
		out:     os.Stdout,
		reader:  bufio.NewReader(os.Stdin),
		closeFn: st.Close,
		Mode:    ModeOffline,
	}, nil
}

// clientFactory builds EAS clients over HTTP with the settings of c.
func clientFactory(c *config.Config, log logging.Logger) services.ClientFactory {
	return func(serverURL string, creds client.Credentials, deviceID string) (client.Client, error) {
		if c.DeviceID != "" {
			deviceID = c.DeviceID
		}
		opts := client.Options{
			DeviceID:        deviceID,
			DeviceType:      c.DeviceType,
			UserAgent:       c.Device.UserAgent,
			ProtocolVersion: c.ProtocolVersion,
			WindowSize:      c.WindowSize,
			FilterType:      c.FilterType,
			TruncationSize:  c.TruncationSize,
			PlainXML:        c.PlainXML,
			CallTimeout:     c.CallTimeout,
			Device: client.DeviceInfo{
				Model:        c.Device.Model,
				FriendlyName: c.Device.FriendlyName,
				OS:           c.Device.OS,
				OSLanguage:   c.Device.OSLanguage,
			},
		}
		return client.NewEASClient(serverURL, creds, client.NewHTTPTransport(c.CallTimeout), opts, log)
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(context.Background(), "mode changed", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// Run starts the mode the config asks for and blocks until it ends.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	switch {
	case a.config.Once:
		return a.RunOnce(ctx)
	case a.config.Watch:
		return a.RunWatch(ctx)
	default:
		a.Root(ctx)
		return nil
	}
}

func (a *App) close() {
	if a.closeFn != nil {
		if err := a.closeFn(); err != nil {
			a.log.Error(context.Background(), "error closing cache", "error", err)
		}
	}
}

func (a *App) isConnected() bool {
	return a.svc.IsConnected()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) timeNow() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}
