// Package config loads runtime configuration for the calendar sync CLI.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional YAML file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # YAML schema
//
// Durations are strings like "30s" or integer nanoseconds:
//
//	server_url: https://mail.example.com
//	username: alice@example.com
//	db_path: /var/lib/vanta/calendar.db
//	protocol_version: "14.1"
//	window_size: 100
//	filter_type: 5
//	call_timeout: 30s
//	online_check_interval: 30s
//	refresh_cron: "*/15 * * * *"
//	agenda_days: 7
//	log_level: debug
//	device:
//	  model: CLI
//	  user_agent: VantaSpeech-EAS/1.0
//
// Passwords are never read from configuration; the CLI prompts for them.
package config
