// Package cli provides the interactive calendar sync command-line client.
//
// It wires configuration, the local cache and the sync service into a REPL
// that keeps working offline on cached data. Typical flow: connect (prompting
// for the password), sync, then browse folders, events and the expanded
// agenda, or export the calendar as iCalendar. A background watcher probes
// the server and switches between online and offline mode.
//
// Besides the REPL (App.Root) the App runs once (connect, sync, print the
// agenda) or in watch mode, syncing on a cron schedule.
package cli
