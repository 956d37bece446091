package config

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"gopkg.in/yaml.v3"
)

// Config represents the server configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Status  StatusConfig  `yaml:"status"`
	Guard   GuardConfig   `yaml:"guard"`
	Login   LoginConfig   `yaml:"login"`
	HTTP    HTTPConfig    `yaml:"http"`
	Journal JournalConfig `yaml:"journal"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`      // "json" or "console"
	FilePath   string `yaml:"file_path"`   // Path to log file
	Console    bool   `yaml:"console"`     // Whether to log to console
	MaxSize    int    `yaml:"max_size"`    // Max file size in MB
	MaxBackups int    `yaml:"max_backups"` // Max number of backup files
	MaxAge     int    `yaml:"max_age"`     // Max age in days
	Compress   bool   `yaml:"compress"`    // Gzip rotated files
	Cleanup    bool   `yaml:"cleanup"`     // Whether to cleanup log file on startup
}

// ServerConfig configures the Java Edition listener
type ServerConfig struct {
	Address        string        `yaml:"address"`
	Port           int           `yaml:"port"`
	ReadChunkSize  int           `yaml:"read_chunk_size"`
	MaxFrameLength int           `yaml:"max_frame_length"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxConnections int           `yaml:"max_connections"`
}

// StatusConfig is what the server reports in its status response
type StatusConfig struct {
	VersionName     string `yaml:"version_name"`
	ProtocolVersion int    `yaml:"protocol_version"`
	MOTD            string `yaml:"motd"`
	MaxPlayers      int    `yaml:"max_players"`
}

// GuardConfig configures per-host blocking after repeated protocol errors
type GuardConfig struct {
	Enabled          bool          `yaml:"enabled"`
	FailureThreshold int           `yaml:"failure_threshold"`
	Window           time.Duration `yaml:"window"`
	BlockDuration    time.Duration `yaml:"block_duration"`
}

// LoginConfig controls who may start a login
type LoginConfig struct {
	WhitelistEnabled bool     `yaml:"whitelist_enabled"`
	Whitelist        []string `yaml:"whitelist,omitempty"`
}

// HTTPConfig configures the status API
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// JournalConfig configures the SQLite session journal
type JournalConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	QueueSize int    `yaml:"queue_size"` // Entries waiting for the writer; overflow is dropped
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			FilePath:   "logs/mcwire.log",
			Console:    true,
			MaxSize:    100, // 100MB
			MaxBackups: 3,
			MaxAge:     7, // 7 days
			Cleanup:    false,
		},
		Server: ServerConfig{
			Address:        DEFAULT_SERVER_ADDRESS,
			Port:           JAVA_SERVER_PORT,
			ReadChunkSize:  DEFAULT_READ_CHUNK_SIZE,
			MaxFrameLength: DEFAULT_MAX_FRAME_LENGTH,
			IdleTimeout:    DEFAULT_IDLE_TIMEOUT_SEC * time.Second,
			MaxConnections: DEFAULT_MAX_CONNECTIONS,
		},
		Status: StatusConfig{
			VersionName:     DEFAULT_VERSION_NAME,
			ProtocolVersion: DEFAULT_PROTOCOL_VERSION,
			MOTD:            DEFAULT_MOTD,
			MaxPlayers:      DEFAULT_MAX_PLAYERS,
		},
		Guard: GuardConfig{
			Enabled:          true,
			FailureThreshold: 5,
			Window:           time.Minute,
			BlockDuration:    5 * time.Minute,
		},
		Login: LoginConfig{
			WhitelistEnabled: false,
		},
		HTTP: HTTPConfig{
			Enabled: true,
			Address: DEFAULT_SERVER_ADDRESS,
			Port:    HTTP_SERVER_PORT,
		},
		Journal: JournalConfig{
			Enabled:   true,
			Path:      "data/sessions.db",
			QueueSize: DEFAULT_JOURNAL_QUEUE_SIZE,
		},
	}
}

// LoadConfig loads configuration from a file. Keys missing from the file keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err).AddContext("path", filename)
	}

	config := LoadDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err).AddContext("path", filename)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}

	if c.Guard.Enabled && (c.Guard.FailureThreshold <= 0 || c.Guard.Window <= 0 || c.Guard.BlockDuration <= 0) {
		return errors.New(ErrInvalidGuard, "guard needs a positive failure_threshold, window and block_duration", nil)
	}

	if c.HTTP.Enabled && !IsValidPort(c.HTTP.Port) {
		return errors.Newf(ErrInvalidPort, "http port %d out of range", c.HTTP.Port)
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return errors.New(ErrJournalPathRequired, "journal.path is required when the journal is enabled", nil)
	}
	if c.Journal.QueueSize < 0 {
		return errors.Newf(ErrInvalidJournalQueue, "journal.queue_size must not be negative, got %d", c.Journal.QueueSize)
	}

	return nil
}

// Validate validates the listener configuration
func (s *ServerConfig) Validate() error {
	if !IsValidPort(s.Port) {
		return errors.Newf(ErrInvalidPort, "server port %d out of range", s.Port)
	}

	if s.ReadChunkSize <= 0 {
		return errors.Newf(ErrInvalidChunkSize, "read_chunk_size must be positive, got %d", s.ReadChunkSize)
	}

	if s.MaxFrameLength <= 0 || s.MaxFrameLength > protocol.MaxFrameLength {
		return errors.Newf(ErrInvalidFrameLimit, "max_frame_length must be in 1..%d, got %d", protocol.MaxFrameLength, s.MaxFrameLength)
	}

	if s.MaxConnections <= 0 {
		return errors.Newf(ErrInvalidConnectionLimit, "max_connections must be positive, got %d", s.MaxConnections)
	}

	if s.IdleTimeout < 0 {
		return errors.Newf(ErrInvalidIdleTimeout, "idle_timeout must not be negative, got %s", s.IdleTimeout)
	}

	return nil
}

// GetJavaAddress returns host:port for the Java listener
func (c *Config) GetJavaAddress() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// GetHTTPAddress returns host:port for the status API
func (c *Config) GetHTTPAddress() string {
	return net.JoinHostPort(c.HTTP.Address, strconv.Itoa(c.HTTP.Port))
}

// IsHTTPServerEnabled returns whether the HTTP server is enabled
func (c *Config) IsHTTPServerEnabled() bool {
	return c.HTTP.Enabled
}

// IsJournalEnabled returns whether sessions are recorded to SQLite
func (c *Config) IsJournalEnabled() bool {
	return c.Journal.Enabled
}
