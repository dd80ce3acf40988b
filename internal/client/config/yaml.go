package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/flagx"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/timex"
)

// YAMLConfig is the file representation of Config. Pointer fields tell an
// absent key from a zero value so the file only overrides what it names.
type YAMLConfig struct {
	ServerURL           string          `yaml:"server_url"`
	Username            string          `yaml:"username"`
	DBPath              string          `yaml:"db_path"`
	DeviceID            string          `yaml:"device_id"`
	DeviceType          string          `yaml:"device_type"`
	ProtocolVersion     string          `yaml:"protocol_version"`
	WindowSize          int             `yaml:"window_size"`
	FilterType          *int            `yaml:"filter_type"`
	TruncationSize      int             `yaml:"truncation_size"`
	MaxPages            int             `yaml:"max_pages"`
	CallTimeout         *timex.Duration `yaml:"call_timeout"`
	OnlineCheckInterval *timex.Duration `yaml:"online_check_interval"`
	RefreshCron         string          `yaml:"refresh_cron"`
	AgendaDays          int             `yaml:"agenda_days"`
	LogLevel            string          `yaml:"log_level"`
	PlainXML            *bool           `yaml:"plain_xml"`
	Device              YAMLDevice      `yaml:"device"`
}

type YAMLDevice struct {
	Model        string `yaml:"model"`
	FriendlyName string `yaml:"friendly_name"`
	OS           string `yaml:"os"`
	OSLanguage   string `yaml:"os_language"`
	UserAgent    string `yaml:"user_agent"`
}

// parseYAML overlays cfg with the file named by -c or -config. Without either
// flag nothing happens. Read and decode errors panic, like flag errors.
func parseYAML(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var yc YAMLConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		panic(err)
	}
	yc.apply(cfg)
}

func (yc *YAMLConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, yc.ServerURL)
	setString(&cfg.Username, yc.Username)
	setString(&cfg.DBPath, yc.DBPath)
	setString(&cfg.DeviceID, yc.DeviceID)
	setString(&cfg.DeviceType, yc.DeviceType)
	setString(&cfg.ProtocolVersion, yc.ProtocolVersion)
	setString(&cfg.RefreshCron, yc.RefreshCron)
	setString(&cfg.LogLevel, yc.LogLevel)
	setInt(&cfg.WindowSize, yc.WindowSize)
	setInt(&cfg.TruncationSize, yc.TruncationSize)
	setInt(&cfg.MaxPages, yc.MaxPages)
	setInt(&cfg.AgendaDays, yc.AgendaDays)

	if yc.FilterType != nil {
		cfg.FilterType = *yc.FilterType
	}
	if yc.CallTimeout != nil {
		cfg.CallTimeout = yc.CallTimeout.Duration
	}
	if yc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = yc.OnlineCheckInterval.Duration
	}
	if yc.PlainXML != nil {
		cfg.PlainXML = *yc.PlainXML
	}

	setString(&cfg.Device.Model, yc.Device.Model)
	setString(&cfg.Device.FriendlyName, yc.Device.FriendlyName)
	setString(&cfg.Device.OS, yc.Device.OS)
	setString(&cfg.Device.OSLanguage, yc.Device.OSLanguage)
	setString(&cfg.Device.UserAgent, yc.Device.UserAgent)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
