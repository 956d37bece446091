package java

import (
	"encoding/json"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/config"
)

const statusSampleSize = 12

// StatusDocument is the JSON body of a StatusResponse.
type StatusDocument struct {
	Version     StatusVersion `json:"version"`
	Players     StatusPlayers `json:"players"`
	Description ChatText      `json:"description"`
}

type StatusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type StatusPlayers struct {
	Max    int      `json:"max"`
	Online int      `json:"online"`
	Sample []Player `json:"sample,omitempty"`
}

// ChatText is the plain-text form of a chat component.
type ChatText struct {
	Text string `json:"text"`
}

// StatusSource produces the document sent for each status request.
type StatusSource interface {
	Status() StatusDocument
}

// ConfigStatus answers status requests from configuration and the live
// player list.
type ConfigStatus struct {
	cfg     config.StatusConfig
	players *PlayerList
}

func NewConfigStatus(cfg config.StatusConfig, players *PlayerList) *ConfigStatus {
	return &ConfigStatus{cfg: cfg, players: players}
}

func (s *ConfigStatus) Status() StatusDocument {
	doc := StatusDocument{
		Version: StatusVersion{
			Name:     s.cfg.VersionName,
			Protocol: s.cfg.ProtocolVersion,
		},
		Players: StatusPlayers{
			Max: s.cfg.MaxPlayers,
		},
		Description: ChatText{Text: s.cfg.MOTD},
	}
	if s.players != nil {
		doc.Players.Online = s.players.Online()
		doc.Players.Sample = s.players.Sample(statusSampleSize)
	}
	return doc
}

func encodeStatus(doc StatusDocument) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.New(ErrStatusEncodeFailed, "failed to encode status document", err)
	}
	return string(data), nil
}

func disconnectReason(text string) string {
	data, _ := json.Marshal(ChatText{Text: text})
	return string(data)
}
