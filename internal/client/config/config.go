package config

import "time"

// Config holds runtime settings for the calendar sync CLI.
type Config struct {
	ServerURL string
	Username  string
	// DBPath is the SQLite cache file; ":memory:" keeps nothing between runs.
	DBPath string
	// DeviceID overrides the generated device id when set.
	DeviceID        string
	DeviceType      string
	ProtocolVersion string
	WindowSize      int
	FilterType      int
	TruncationSize  int
	MaxPages        int
	CallTimeout     time.Duration
	// OnlineCheckInterval is how often the CLI probes server reachability.
	OnlineCheckInterval time.Duration
	// RefreshCron is the schedule of watch mode, in cron syntax.
	RefreshCron string
	AgendaDays  int
	LogLevel    string
	PlainXML    bool
	Device      Device

	// Once connects, syncs, prints the agenda and exits.
	Once bool
	// Watch syncs on RefreshCron until interrupted.
	Watch bool
}

// Device is the identity sent with the first Provision request.
type Device struct {
	Model        string
	FriendlyName string
	OS           string
	OSLanguage   string
	UserAgent    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "calendar.db"
	c.DeviceType = "VantaSpeech"
	c.ProtocolVersion = "14.1"
	c.WindowSize = 100
	c.FilterType = 5
	c.TruncationSize = 32768
	c.MaxPages = 50
	c.CallTimeout = 30 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.RefreshCron = "*/15 * * * *"
	c.AgendaDays = 7
	c.LogLevel = "info"
	c.Device = Device{
		Model:        "CLI",
		FriendlyName: "Vanta Speech CLI",
		OS:           "Go",
		OSLanguage:   "en-US",
		UserAgent:    "VantaSpeech-EAS/1.0",
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a YAML file (if given) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseYAML(cfg)
	parseFlags(cfg)
	return cfg
}
