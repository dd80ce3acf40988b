package cli

import (
	"bufio"
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	a.mu.Unlock()
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive shell until the user exits or ctx ends. When the
// config names a server and user it connects first.
func (a *App) Root(ctx context.Context) {
	a.printf("Calendar sync CLI (type 'help' for commands)\n")
	scanner := bufio.NewScanner(a.reader)

	if a.config.ServerURL != "" && a.config.Username != "" {
		_ = a.Connect(ctx)
	}

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, scanner)
}
