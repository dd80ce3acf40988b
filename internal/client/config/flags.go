package config

import (
	"flag"
	"os"
	"time"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-s string   server URL
//	-u string   account user name
//	-d string   path of the SQLite cache
//	-i int      online check interval in seconds
//	-plain      send plain XML instead of WBXML
//	-once       connect, sync, print the agenda and exit
//	-watch      keep syncing on the refresh schedule
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-u", "-d", "-i", "-plain", "-once", "-watch"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "server URL")
	fs.StringVar(&cfg.Username, "u", cfg.Username, "user name")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local cache database")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.BoolVar(&cfg.PlainXML, "plain", cfg.PlainXML, "send plain XML instead of WBXML (diagnostics)")
	fs.BoolVar(&cfg.Once, "once", cfg.Once, "connect, sync, print the agenda and exit")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "sync on the refresh schedule until interrupted")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
