package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gear6io/mcwire/server/config"
	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"github.com/gear6io/mcwire/server/protocols/java/protocol/packets"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.LoadDefaultConfig()
	cfg.Server.Address = config.LOCALHOST_ADDRESS
	cfg.Server.Port = 0
	cfg.HTTP.Address = config.LOCALHOST_ADDRESS
	cfg.HTTP.Port = 0
	cfg.Journal.Path = filepath.Join(t.TempDir(), "data", "sessions.db")
	return cfg
}

func TestServerLifecycle(t *testing.T) {
	ctx := context.Background()
	srv, err := New(ctx, testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, srv.Journal())

	require.NoError(t, srv.Start(ctx))
	defer srv.Shutdown()

	conn, err := net.DialTimeout("tcp", srv.JavaServer().Addr().String(), 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	for _, p := range []protocol.Packet{
		&packets.ClientHandshake{ProtocolVersion: 763, Address: "localhost", Port: 25565, NextState: packets.NextStateStatus},
		&packets.PingRequest{Payload: 11},
	} {
		require.NoError(t, protocol.WritePacket(conn, p))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var pong *packets.PongResponse
	err = protocol.ReadFrames(ctx, conn, 64, func(f *protocol.Frame) error {
		pkt, err := packets.Clientbound().Decode(protocol.Status, f.Info.ID, f.Payload)
		if err != nil {
			return err
		}
		pong = pkt.(*packets.PongResponse)
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, pong)
	assert.Equal(t, protocol.Long(11), pong.Payload)

	// The session is journaled once the server has hung up.
	require.Eventually(t, func() bool {
		rows, err := srv.Journal().Recent(ctx, 10)
		return err == nil && len(rows) == 1 && rows[0].EndedAt != nil
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get("http://" + srv.HTTPServer().Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "mcwire_sessions_total 1"))

	status := srv.GetStatus()
	assert.Equal(t, true, status["journal_enabled"])

	require.NoError(t, srv.Shutdown())
	require.NoError(t, srv.Shutdown())
}

func TestServerWithoutJournalOrHTTP(t *testing.T) {
	cfg := testConfig(t)
	cfg.Journal.Enabled = false
	cfg.HTTP.Enabled = false

	srv, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, srv.Journal())

	require.NoError(t, srv.Start(context.Background()))
	assert.Nil(t, srv.HTTPServer().Addr())
	require.NoError(t, srv.Shutdown())
}

func TestServerStartFailsOnBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := testConfig(t)
	cfg.Server.Port = busy.Addr().(*net.TCPAddr).Port

	srv, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer srv.Shutdown()

	assert.Error(t, srv.Start(context.Background()))
}
