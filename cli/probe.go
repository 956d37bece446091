package cli

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gear6io/mcwire/client"
	"github.com/gear6io/mcwire/client/config"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe a Java Edition server",
	Long: `Probe a Java Edition server the way a game client would.

Examples:
  mcwire probe status --server mc.example.com:25565
  mcwire probe login Steve --server localhost:25565`,
}

var probeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Run the server list ping and print the status",
	Args:  cobra.NoArgs,
	RunE:  runProbeStatus,
}

var probeLoginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Send LoginStart and report whether the server refuses the name",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProbeLogin,
}

type clientOptions struct {
	server  string
	api     string
	timeout time.Duration
	version int
}

var clientOpts = &clientOptions{}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.AddCommand(probeStatusCmd, probeLoginCmd)

	addClientFlags(probeCmd)
	probeCmd.PersistentFlags().IntVar(&clientOpts.version, "protocol", 0, "protocol version to announce (default from client config)")
}

func addClientFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&clientOpts.server, "server", "", "Java listener address as host:port")
	cmd.PersistentFlags().StringVar(&clientOpts.api, "api", "", "status API address as host:port")
	cmd.PersistentFlags().DurationVar(&clientOpts.timeout, "timeout", 0, "dial and read timeout")
}

// loadClientConfig merges the client config file with the command flags.
func loadClientConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if clientOpts.server != "" {
		host, port, err := splitHostPort(clientOpts.server)
		if err != nil {
			return nil, err
		}
		cfg.Server.Address, cfg.Server.Port = host, port
	}
	if clientOpts.api != "" {
		host, port, err := splitHostPort(clientOpts.api)
		if err != nil {
			return nil, err
		}
		// one host serves both; --server wins when the two disagree
		if clientOpts.server == "" {
			cfg.Server.Address = host
		}
		cfg.Server.HTTPPort = port
	}
	if clientOpts.timeout > 0 {
		cfg.Server.Timeout = clientOpts.timeout
	}
	if clientOpts.version > 0 {
		cfg.Probe.ProtocolVersion = clientOpts.version
	}
	return cfg, nil
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

func newClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := loadClientConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg, getLoggerFromContext(cmd.Context()))
}

func runProbeStatus(cmd *cobra.Command, args []string) error {
	d := newDisplay(cmd)

	c, err := newClient(cmd)
	if err != nil {
		d.Failure("Invalid client configuration", err)
		return err
	}

	result, err := c.Status(cmd.Context())
	if err != nil {
		d.Failure("Status probe failed", err)
		return err
	}

	rows := [][]string{
		{"Version", result.VersionName},
		{"Protocol", strconv.FormatInt(result.ProtocolVersion, 10)},
		{"Players", strconv.FormatInt(result.PlayersOnline, 10) + "/" + strconv.FormatInt(result.PlayersMax, 10)},
		{"MOTD", result.MOTD},
		{"Latency", result.Latency.Round(time.Microsecond).String()},
	}
	if len(result.Sample) > 0 {
		rows = append(rows, []string{"Online", strings.Join(result.Sample, ", ")})
	}
	if err := d.KeyValues(rows); err != nil {
		return err
	}
	if isVerbose(cmd) {
		d.Info("Raw status: %s", result.Raw)
	}
	return nil
}

func runProbeLogin(cmd *cobra.Command, args []string) error {
	d := newDisplay(cmd)

	cfg, err := loadClientConfig()
	if err != nil {
		d.Failure("Invalid client configuration", err)
		return err
	}
	if len(args) == 1 {
		cfg.Probe.Username = args[0]
	}

	c, err := client.New(cfg, getLoggerFromContext(cmd.Context()))
	if err != nil {
		d.Failure("Invalid client configuration", err)
		return err
	}

	result, err := c.Login(cmd.Context(), cfg.Probe.Username)
	if err != nil {
		d.Failure("Login probe failed", err)
		return err
	}

	if result.Disconnected {
		d.Warning("%s was refused: %s", result.Username, result.Reason)
		return nil
	}
	d.Success("%s was accepted", result.Username)
	return nil
}
