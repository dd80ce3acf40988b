package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/agenda"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/client"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/icsview"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/services"
)

// getPassword is a test seam for the password prompt.
var getPassword = GetPassword

// Connect asks for whatever the config does not provide and opens a session.
func (a *App) Connect(ctx context.Context) error {
	serverURL := a.config.ServerURL
	if serverURL == "" {
		s, err := GetSimpleText(a.reader, "Server URL", a.out)
		if err != nil {
			return err
		}
		serverURL = s
	}
	userName := a.config.Username
	if userName == "" {
		s, err := GetSimpleText(a.reader, "User name", a.out)
		if err != nil {
			return err
		}
		userName = s
	}
	password, err := getPassword(a.out)
	if err != nil {
		a.log.Error(ctx, "error reading password", "error", err)
		return err
	}

	creds := client.Credentials{Username: userName, Password: string(password)}
	for i := range password {
		password[i] = 0
	}
	return a.connect(ctx, serverURL, creds)
}

func (a *App) connect(ctx context.Context, serverURL string, creds client.Credentials) error {
	if err := a.svc.Connect(ctx, serverURL, creds); err != nil {
		a.report("connect", err)
		return err
	}

	a.mu.Lock()
	a.serverURL, a.userName, a.creds = serverURL, creds.Username, creds
	a.mu.Unlock()
	a.setMode(ModeOnline)

	if cal, ok := a.svc.DefaultCalendar(); ok {
		a.printf("Connected, calendar %q\n", cal.DisplayName)
	} else {
		a.printf("Connected\n")
	}
	return nil
}

// Sync pulls calendar changes and prints a summary.
func (a *App) Sync(ctx context.Context) error {
	res, err := a.svc.SyncEvents(ctx)
	if err != nil {
		a.report("sync", err)
		return err
	}
	a.printf("Synced: %d updated, %d deleted, %d cached\n", len(res.Updated), len(res.DeletedIDs), len(a.svc.Events()))
	if res.MoreAvailable {
		a.printf("More changes are waiting on the server; run sync again\n")
	}
	return nil
}

func (a *App) Folders(ctx context.Context) error {
	folders := a.svc.Folders()
	if len(folders) == 0 {
		a.printf("No folders cached\n")
		return nil
	}
	cal, _ := a.svc.DefaultCalendar()
	for _, f := range folders {
		mark := " "
		if f.ServerID == cal.ServerID {
			mark = "*"
		}
		a.printf("%s %-12s %-14s %s\n", mark, f.ServerID, f.Type, f.DisplayName)
	}
	return nil
}

func (a *App) Events(ctx context.Context) error {
	events := a.svc.Events()
	if len(events) == 0 {
		a.printf("No events cached\n")
		return nil
	}
	for _, ev := range events {
		a.printf("%s  %s\n", formatSpan(ev.Start.Local(), ev.End.Local(), ev.AllDay), ev.Subject)
	}
	return nil
}

// Agenda prints the occurrences of the next days, recurring events expanded.
// args may hold the number of days.
func (a *App) Agenda(ctx context.Context, args []string) error {
	days := a.config.AgendaDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			a.printf("Usage: agenda [days]\n")
			return fmt.Errorf("invalid day count %q", args[0])
		}
		days = n
	}
	if days < 1 {
		days = 1
	}

	now := a.timeNow()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	occ, err := agenda.Expand(a.svc.Events(), agenda.Options{
		From:     from,
		To:       from.AddDate(0, 0, days),
		Location: now.Location(),
	})
	if err != nil {
		return err
	}
	if len(occ) == 0 {
		a.printf("Nothing in the next %d days\n", days)
		return nil
	}
	for _, d := range agenda.ByDay(occ) {
		a.printf("%s\n", d.Date.Format("Mon 02 Jan 2006"))
		for _, o := range d.Occurrences {
			when := "all day"
			if !o.AllDay {
				when = o.Start.Format("15:04") + "-" + o.End.Format("15:04")
			}
			line := fmt.Sprintf("  %-11s %s", when, o.Subject)
			if o.Location != "" {
				line += " @ " + o.Location
			}
			a.printf("%s\n", line)
		}
	}
	return nil
}

// Export writes the cached events as iCalendar to args[0], or to the output
// when no path is given.
func (a *App) Export(ctx context.Context, args []string) error {
	name := ""
	if cal, ok := a.svc.DefaultCalendar(); ok {
		name = cal.DisplayName
	}

	var w io.Writer = a.out
	if len(args) > 0 {
		f, err := os.Create(args[0])
		if err != nil {
			a.log.Error(ctx, "error creating export file", "path", args[0], "error", err)
			return err
		}
		defer f.Close()
		w = f
	}

	events := a.svc.Events()
	if err := icsview.Render(w, name, events, a.timeNow()); err != nil {
		a.log.Error(ctx, "error exporting calendar", "error", err)
		return err
	}
	if len(args) > 0 {
		a.printf("Exported %d events to %s\n", len(events), args[0])
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st, err := a.svc.State(ctx)
	if err != nil {
		return err
	}
	a.printf("mode:       %s\n", a.mode())
	a.printf("connected:  %t\n", st.Connected)
	a.printf("server:     %s\n", st.ServerURL)
	a.printf("user:       %s\n", st.Username)
	a.printf("device:     %s\n", st.DeviceID)
	a.printf("collection: %s (cursor %s)\n", st.CollectionID, st.Cursor)
	a.printf("cached:     %d folders, %d events\n", st.Folders, st.Events)
	return nil
}

// Disconnect closes the session and clears the cache.
func (a *App) Disconnect(ctx context.Context) error {
	if err := a.svc.Disconnect(ctx); err != nil {
		a.report("disconnect", err)
		return err
	}
	a.mu.Lock()
	a.serverURL, a.userName, a.creds = "", "", client.Credentials{}
	a.mu.Unlock()
	a.setMode(ModeOffline)
	a.printf("Disconnected\n")
	return nil
}

// report prints a user-facing explanation of err and adjusts the mode.
func (a *App) report(op string, err error) {
	reason := services.Classify(err)
	a.log.Debug(context.Background(), "command failed", "op", op, "reason", reason.String(), "error", err)

	switch reason {
	case services.ReasonNotConnected:
		a.setMode(ModeOffline)
		if errors.Is(err, client.ErrOffline) {
			a.printf("%s: server unreachable, working offline\n", op)
			return
		}
		a.printf("%s: not connected, run connect\n", op)
	case services.ReasonAuthRequired:
		a.setMode(ModeDisabled)
		a.printf("%s: credentials rejected, run connect again\n", op)
	case services.ReasonProvisioningDenied:
		a.setMode(ModeDisabled)
		a.printf("%s: the server denied the device policy\n", op)
	case services.ReasonRetryable:
		a.printf("%s: temporary failure, try again later: %v\n", op, err)
	default:
		a.printf("%s failed: %v\n", op, err)
	}
}

func formatSpan(start, end time.Time, allDay bool) string {
	if allDay {
		return start.Format("2006-01-02") + " (all day)"
	}
	if start.YearDay() == end.YearDay() && start.Year() == end.Year() {
		return start.Format("2006-01-02 15:04") + "-" + end.Format("15:04")
	}
	return start.Format("2006-01-02 15:04") + " - " + end.Format("2006-01-02 15:04")
}
