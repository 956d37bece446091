package config

// Network server port constants
const (
	// Java Edition listener, the port clients try when none is given
	JAVA_SERVER_PORT = 25565

	// HTTP status API and Prometheus metrics
	HTTP_SERVER_PORT = 2847
)

// Network server address constants
const (
	// Default bind address for all servers
	DEFAULT_SERVER_ADDRESS = "0.0.0.0"

	// Localhost address for development and the probe command
	LOCALHOST_ADDRESS = "127.0.0.1"
)

// Connection handling defaults
const (
	DEFAULT_READ_CHUNK_SIZE  = 1024
	DEFAULT_MAX_FRAME_LENGTH = 1<<21 - 1
	DEFAULT_MAX_CONNECTIONS  = 1000
	DEFAULT_IDLE_TIMEOUT_SEC = 30
)

// Session journal defaults
const (
	DEFAULT_JOURNAL_QUEUE_SIZE = 1024
)

// Status response defaults
const (
	DEFAULT_VERSION_NAME     = "mcwire"
	DEFAULT_PROTOCOL_VERSION = 763
	DEFAULT_MOTD             = "A mcwire server"
	DEFAULT_MAX_PLAYERS      = 20
)

// Port validation constants
const (
	MIN_PORT = 1
	MAX_PORT = 65535
)

// IsValidPort checks if a port number is within valid range
func IsValidPort(port int) bool {
	return port >= MIN_PORT && port <= MAX_PORT
}
