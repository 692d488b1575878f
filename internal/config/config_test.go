package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("RTCROOM_ROOM_NAME", "lobby")

	// When no config file exists
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

	// Then the defaults apply
	req.NoError(err)
	req.Equal("lobby", cfg.Room.Name)
	req.Equal("wss://wss.tinychat.com", cfg.Service.Endpoint)
	req.Equal("https://tinychat.com", cfg.Service.Origin)
	req.Equal("2.0.10-296", cfg.Service.FallbackVersion)
	req.Equal(time.Second, cfg.Service.Throttle)
	req.Zero(cfg.Service.PingTimeout)
	req.True(cfg.Console.Use24Hour)
	req.True(cfg.Console.Colors)
	req.False(cfg.ChatLog.Enabled)
	req.False(cfg.Status.Enabled)
	req.Equal("info", cfg.Log.Level)
}

func TestLoadFile_File_And_Env_Override(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, `
room:
  name: music
  nick: dj
service:
  ping_timeout: 90s
chat_log:
  enabled: true
  dir: /tmp/rooms
log:
  level: debug
`)
	t.Setenv("RTCROOM_ROOM_NICK", "dj2")

	cfg, err := LoadFile(path)

	req.NoError(err)
	req.Equal("music", cfg.Room.Name)
	req.Equal("dj2", cfg.Room.Nick)
	req.Equal(90*time.Second, cfg.Service.PingTimeout)
	req.True(cfg.ChatLog.Enabled)
	req.Equal("/tmp/rooms", cfg.ChatLog.Dir)
	req.Equal("debug", cfg.Log.Level)
}

func TestLoadFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "room required", body: "room:\n  nick: dj\n"},
		{name: "nick too long", body: "room:\n  name: lobby\n  nick: abcdefghijklmnopqrstuvwxyz0123456789\n"},
		{name: "bad endpoint", body: "room:\n  name: lobby\nservice:\n  endpoint: not a url\n"},
		{name: "bad status mode", body: "room:\n  name: lobby\nstatus:\n  mode: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			require.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoadFile_Malformed_Yaml(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "room: [unclosed"))
	require.ErrorContains(t, err, "failed to read config")
}
