package java

import (
	"encoding/json"
	"testing"

	"github.com/gear6io/mcwire/server/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflinePlayerUUID(t *testing.T) {
	id := OfflinePlayerUUID("Notch")

	assert.Equal(t, uuid.Version(3), id.Version())
	assert.Equal(t, uuid.RFC4122, id.Variant())
	assert.Equal(t, id, OfflinePlayerUUID("Notch"))
	assert.NotEqual(t, id, OfflinePlayerUUID("notch"))
	// no namespace bytes go into the hash
	assert.NotEqual(t, uuid.NewMD5(uuid.Nil, []byte("OfflinePlayer:Notch")), id)
}

func TestPlayerList(t *testing.T) {
	l := NewPlayerList()
	assert.Equal(t, 0, l.Online())

	steve := l.Add("s1", "Steve")
	l.Add("s2", "Alex")
	l.Add("s3", "Notch")

	assert.Equal(t, OfflinePlayerUUID("Steve").String(), steve.ID)
	assert.Equal(t, 3, l.Online())

	sample := l.Sample(2)
	require.Len(t, sample, 2)
	assert.Equal(t, "Alex", sample[0].Name)
	assert.Equal(t, "Notch", sample[1].Name)

	l.Remove("s2")
	l.Remove("missing")
	assert.Equal(t, 2, l.Online())
}

func TestConfigStatus(t *testing.T) {
	cfg := config.LoadDefaultConfig().Status
	players := NewPlayerList()
	players.Add("s1", "Steve")

	doc := NewConfigStatus(cfg, players).Status()
	assert.Equal(t, cfg.VersionName, doc.Version.Name)
	assert.Equal(t, cfg.ProtocolVersion, doc.Version.Protocol)
	assert.Equal(t, cfg.MaxPlayers, doc.Players.Max)
	assert.Equal(t, 1, doc.Players.Online)
	assert.Equal(t, cfg.MOTD, doc.Description.Text)

	body, err := encodeStatus(doc)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Contains(t, decoded, "version")
	assert.Contains(t, decoded, "players")
	assert.Contains(t, decoded, "description")
}

func TestDisconnectReason(t *testing.T) {
	assert.JSONEq(t, `{"text":"Server closed"}`, disconnectReason("Server closed"))
}
