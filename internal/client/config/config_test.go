package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "calendar.db", c.DBPath)
	assert.Equal(t, "14.1", c.ProtocolVersion)
	assert.Equal(t, 100, c.WindowSize)
	assert.Equal(t, 5, c.FilterType)
	assert.Equal(t, 50, c.MaxPages)
	assert.Equal(t, 30*time.Second, c.CallTimeout)
	assert.Equal(t, 30*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "*/15 * * * *", c.RefreshCron)
	assert.Equal(t, "VantaSpeech-EAS/1.0", c.Device.UserAgent)
	assert.Empty(t, c.ServerURL)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempYAML(t, `
server_url: https://file.example.com
username: file-user
window_size: 25
`)
	os.Args = []string{"cli", "-c", path, "-u", "flag-user"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "https://file.example.com", cfg.ServerURL)
	assert.Equal(t, "flag-user", cfg.Username)
	assert.Equal(t, 25, cfg.WindowSize)
	assert.Equal(t, 5, cfg.FilterType)
}

func TestLoadConfig_NoArgsUsesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cli"}

	cfg := LoadConfig()
	assert.Equal(t, "calendar.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.OnlineCheckInterval)
}
