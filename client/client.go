package client

import (
	"context"
	"net"
	"time"

	"github.com/gear6io/mcwire/client/config"
	apihttp "github.com/gear6io/mcwire/client/protocols/http"
	"github.com/gear6io/mcwire/client/protocols/java"
	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"github.com/gear6io/mcwire/server/protocols/java/protocol/packets"
	faster "github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Client probes a Java Edition server and reads its status API
type Client struct {
	config *config.Config
	api    *apihttp.Client
	logger zerolog.Logger
}

// StatusResult is what a status probe learned about the server
type StatusResult struct {
	VersionName     string
	ProtocolVersion int64
	PlayersOnline   int64
	PlayersMax      int64
	MOTD            string
	Sample          []string
	Latency         time.Duration
	Raw             string
}

// LoginResult is the outcome of a login probe
type LoginResult struct {
	Username     string
	Disconnected bool
	Reason       string
}

// New creates a new client
func New(cfg *config.Config, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logger.With().Str("component", "client").Logger()
	return &Client{
		config: cfg,
		api:    apihttp.NewClient(cfg, logger),
		logger: logger,
	}, nil
}

// API returns the status API client
func (c *Client) API() *apihttp.Client {
	return c.api
}

func (c *Client) dial(ctx context.Context) (*java.Conn, error) {
	addr := c.config.GetJavaAddress()
	conn, err := java.Dial(ctx, addr, c.config.Server.Timeout)
	if err != nil {
		return nil, errors.New(ErrConnectionFailed, "failed to connect to "+addr, err).AddContext("address", addr)
	}
	return conn, nil
}

// Status runs the status exchange: handshake, status request, ping.
func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := conn.Handshake(c.config.Probe.ProtocolVersion, packets.NextStateStatus); err != nil {
		return nil, errors.New(ErrStatusProbeFailed, "handshake failed", err)
	}
	if err := conn.Send(&packets.StatusRequest{}); err != nil {
		return nil, errors.New(ErrStatusProbeFailed, "status request failed", err)
	}
	resp, err := java.ExpectPacket[*packets.StatusResponse](conn)
	if err != nil {
		return nil, errors.New(ErrStatusProbeFailed, "no status response", err)
	}

	result, err := parseStatus(string(resp.JSON))
	if err != nil {
		return nil, err
	}

	sent := time.Now()
	payload := protocol.Long(sent.UnixMilli())
	if err := conn.Send(&packets.PingRequest{Payload: payload}); err != nil {
		return nil, errors.New(ErrStatusProbeFailed, "ping failed", err)
	}
	pong, err := java.ExpectPacket[*packets.PongResponse](conn)
	if err != nil {
		return nil, errors.New(ErrStatusProbeFailed, "no pong", err)
	}
	if pong.Payload != payload {
		return nil, errors.Newf(ErrPongMismatch, "pong payload %d does not match ping %d", int64(pong.Payload), int64(payload))
	}
	result.Latency = time.Since(sent)

	c.logger.Debug().
		Str("version", result.VersionName).
		Dur("latency", result.Latency).
		Msg("Status probe finished")
	return result, nil
}

// parseStatus reads the fields the probe reports from a status document.
func parseStatus(raw string) (*StatusResult, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New(ErrStatusMalformed, "status response is not valid JSON", nil)
	}
	doc := gjson.Parse(raw)

	result := &StatusResult{
		VersionName:     doc.Get("version.name").String(),
		ProtocolVersion: doc.Get("version.protocol").Int(),
		PlayersOnline:   doc.Get("players.online").Int(),
		PlayersMax:      doc.Get("players.max").Int(),
		Raw:             raw,
	}

	// The description is either a chat component or a bare string.
	if desc := doc.Get("description"); desc.IsObject() {
		result.MOTD = desc.Get("text").String()
	} else {
		result.MOTD = desc.String()
	}

	for _, name := range doc.Get("players.sample.#.name").Array() {
		result.Sample = append(result.Sample, name.String())
	}
	return result, nil
}

// Login sends LoginStart for username and waits one timeout for the server
// to refuse it. No answer means the server accepted the name.
func (c *Client) Login(ctx context.Context, username string) (*LoginResult, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := conn.Handshake(c.config.Probe.ProtocolVersion, packets.NextStateLogin); err != nil {
		return nil, errors.New(ErrLoginProbeFailed, "handshake failed", err)
	}
	if err := conn.Send(&packets.LoginStart{Username: protocol.String(username)}); err != nil {
		return nil, errors.New(ErrLoginProbeFailed, "login start failed", err)
	}

	result := &LoginResult{Username: username}
	disconnect, err := java.ExpectPacket[*packets.LoginDisconnect](conn)
	if err != nil {
		var netErr net.Error
		if faster.As(err, &netErr) && netErr.Timeout() {
			return result, nil
		}
		return nil, errors.New(ErrLoginProbeFailed, "login probe failed", err)
	}

	result.Disconnected = true
	reason := gjson.Parse(string(disconnect.Reason))
	if reason.IsObject() {
		result.Reason = reason.Get("text").String()
	} else {
		result.Reason = string(disconnect.Reason)
	}
	return result, nil
}
