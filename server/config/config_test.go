package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := LoadDefaultConfig()

	assert.Equal(t, "0.0.0.0:25565", cfg.GetJavaAddress())
	assert.Equal(t, "0.0.0.0:2847", cfg.GetHTTPAddress())
	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.True(t, cfg.IsJournalEnabled())
	assert.Equal(t, 30*time.Second, cfg.Server.IdleTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"server port", func(c *Config) { c.Server.Port = 0 }, ErrInvalidPort},
		{"http port", func(c *Config) { c.HTTP.Port = 70000 }, ErrInvalidPort},
		{"chunk size", func(c *Config) { c.Server.ReadChunkSize = 0 }, ErrInvalidChunkSize},
		{"frame limit", func(c *Config) { c.Server.MaxFrameLength = 1 << 21 }, ErrInvalidFrameLimit},
		{"connections", func(c *Config) { c.Server.MaxConnections = -1 }, ErrInvalidConnectionLimit},
		{"idle timeout", func(c *Config) { c.Server.IdleTimeout = -time.Second }, ErrInvalidIdleTimeout},
		{"journal path", func(c *Config) { c.Journal.Path = "" }, ErrJournalPathRequired},
		{"journal queue", func(c *Config) { c.Journal.QueueSize = -1 }, ErrInvalidJournalQueue},
		{"guard threshold", func(c *Config) { c.Guard.FailureThreshold = 0 }, ErrInvalidGuard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}

	cfg := LoadDefaultConfig()
	cfg.HTTP.Enabled = false
	cfg.HTTP.Port = 0
	assert.NoError(t, cfg.Validate(), "disabled http server skips port check")
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcwire.yaml")
	yaml := `
server:
  port: 25570
  idle_timeout: 5s
status:
  motd: "hello"
journal:
  enabled: false
login:
  whitelist_enabled: true
  whitelist: [Steve, Alex]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25570, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, "hello", cfg.Status.MOTD)
	assert.False(t, cfg.Journal.Enabled)
	assert.True(t, cfg.Login.WhitelistEnabled)
	assert.Equal(t, []string{"Steve", "Alex"}, cfg.Login.Whitelist)
	assert.Equal(t, 5, cfg.Guard.FailureThreshold)
	assert.Equal(t, DEFAULT_READ_CHUNK_SIZE, cfg.Server.ReadChunkSize)
	assert.Equal(t, DEFAULT_MAX_PLAYERS, cfg.Status.MaxPlayers)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.HasCode(err, ErrConfigFileReadFailed))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [unclosed"), 0644))
	_, err = LoadConfig(bad)
	assert.True(t, errors.HasCode(err, ErrConfigFileParseFailed))

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("server:\n  read_chunk_size: -4\n"), 0644))
	_, err = LoadConfig(invalid)
	assert.True(t, errors.HasCode(err, ErrConfigValidationFailed))
	assert.True(t, errors.HasCode(err, ErrInvalidChunkSize))
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := LoadDefaultConfig()
	cfg.Status.MaxPlayers = 64

	require.NoError(t, SaveConfig(cfg, path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSetupLoggerWritesFile(t *testing.T) {
	cfg := LoadDefaultConfig()
	cfg.Log.Console = false
	cfg.Log.FilePath = filepath.Join(t.TempDir(), "logs", "mcwire.log")

	logger, closer, err := SetupLogger(cfg)
	require.NoError(t, err)
	logger.Info().Str("session_id", "abc").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.Log.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session_id":"abc"`)
	assert.Contains(t, string(data), `"component":"mcwire-server"`)
}

func TestCleanupLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.log")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, CleanupLogFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	assert.NoError(t, CleanupLogFile(filepath.Join(t.TempDir(), "absent.log")))
	assert.NoError(t, CleanupLogFile(""))
}
