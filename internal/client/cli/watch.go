package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/netx"
)

var ErrNoSession = errors.New("no previous session to resume")

// StartOnlineStatusWatcher probes the server every interval and switches
// between online and offline mode. With a session open it pings through the
// protocol client; otherwise it only checks that the server is reachable.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	if a.mode() == ModeDisabled {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var err error
	if a.isConnected() {
		err = a.svc.Ping(ctx)
	} else {
		a.mu.Lock()
		serverURL := a.serverURL
		a.mu.Unlock()
		if serverURL == "" {
			serverURL = a.config.ServerURL
		}
		if serverURL == "" {
			return
		}
		reachable := a.reachable
		if reachable == nil {
			reachable = netx.CheckReachable
		}
		err = reachable(ctx, serverURL)
	}

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	if a.isConnected() {
		a.setMode(ModeOnline)
	}
}

// RunOnce connects, syncs and prints the agenda.
func (a *App) RunOnce(ctx context.Context) error {
	if err := a.Connect(ctx); err != nil {
		return err
	}
	if err := a.Sync(ctx); err != nil {
		return err
	}
	return a.Agenda(ctx, nil)
}

// RunWatch connects and then syncs on the RefreshCron schedule until ctx
// ends. Failed cycles are reported and retried on the next tick.
func (a *App) RunWatch(ctx context.Context) error {
	schedule, err := cron.ParseStandard(a.config.RefreshCron)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", a.config.RefreshCron, err)
	}
	if err := a.Connect(ctx); err != nil {
		return err
	}
	_ = a.Sync(ctx)

	c := cron.New()
	c.Schedule(schedule, cron.FuncJob(func() { a.watchTick(ctx) }))
	c.Start()
	a.log.Info(ctx, "watching calendar", "schedule", a.config.RefreshCron, "next", schedule.Next(a.timeNow()))

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (a *App) watchTick(ctx context.Context) {
	if !a.isConnected() {
		if err := a.reconnect(ctx); err != nil {
			return
		}
	}
	_ = a.Sync(ctx)
}

// reconnect reopens a session dropped by the server with the credentials
// of the last successful connect.
func (a *App) reconnect(ctx context.Context) error {
	a.mu.Lock()
	serverURL, creds := a.serverURL, a.creds
	a.mu.Unlock()
	if serverURL == "" {
		return ErrNoSession
	}
	a.log.Info(ctx, "session lost, reconnecting", "server", serverURL)
	return a.connect(ctx, serverURL, creds)
}
