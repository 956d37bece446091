package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"gopkg.in/yaml.v3"
)

const configFileName = "mcwire-client.yml"

// Config represents the client configuration
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Probe   ProbeConfig  `yaml:"probe"`
	Logging LogConfig    `yaml:"logging"`
}

// ServerConfig holds server connection configuration
type ServerConfig struct {
	Address  string        `yaml:"address"`
	Port     int           `yaml:"port"`
	HTTPPort int           `yaml:"http_port"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ProbeConfig is what the probe claims to be in its handshake
type ProbeConfig struct {
	ProtocolVersion int    `yaml:"protocol_version"`
	Username        string `yaml:"username"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns default client configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:  "localhost",
			Port:     25565,
			HTTPPort: 2847,
			Timeout:  5 * time.Second,
		},
		Probe: ProbeConfig{
			ProtocolVersion: 763,
			Username:        "mcwire-probe",
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the first config file found, or defaults.
func Load() (*Config, error) {
	if configPath := findConfigFile(); configPath != "" {
		return LoadFromFile(configPath)
	}
	return DefaultConfig(), nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err).AddContext("path", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err).AddContext("path", path)
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err).AddContext("path", path)
	}

	return nil
}

// findConfigFile searches for configuration file
func findConfigFile() string {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".mcwire", configFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	return ""
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New(ErrServerAddressEmpty, "server address cannot be empty", nil)
	}

	for _, port := range []int{c.Server.Port, c.Server.HTTPPort} {
		if port <= 0 || port > 65535 {
			return errors.Newf(ErrServerPortInvalid, "invalid server port: %d", port)
		}
	}

	if c.Server.Timeout <= 0 {
		return errors.Newf(ErrProbeTimeoutInvalid, "timeout must be positive, got %s", c.Server.Timeout)
	}

	// Names are at most 16 characters on vanilla servers.
	if n := len(c.Probe.Username); n == 0 || n > 16 {
		return errors.Newf(ErrUsernameInvalid, "username must be 1 to 16 characters, got %d", n)
	}

	return nil
}

// GetJavaAddress returns host:port of the Java listener
func (c *Config) GetJavaAddress() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// GetServerURL returns the base URL of the status API
func (c *Config) GetServerURL() string {
	return "http://" + net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.HTTPPort))
}
