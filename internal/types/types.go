package types

import (
	"encoding/json"

	"github.com/DoyleJ11/squad-randomizer/internal/lobby"
)

const (
	MsgStateSnapshot = "StateSnapshot"
	MsgError         = "Error"
)

// ClientMessage is one command sent over the websocket. Type names the
// command; the other fields are read as that command needs them.
type ClientMessage struct {
	Type      string          `json:"type"`
	Name      string          `json:"name,omitempty"`
	Team      int             `json:"team,omitempty"`
	Key       string          `json:"key,omitempty"`
	GroupID   string          `json:"groupId,omitempty"`
	Kind      string          `json:"kind,omitempty"`
	Primary   string          `json:"primary,omitempty"`
	Secondary string          `json:"secondary,omitempty"`
	On        bool            `json:"on,omitempty"`
	Mode      string          `json:"mode,omitempty"`
	Document  json.RawMessage `json:"document,omitempty"`
}

type ServerMessage struct {
	Type    string       `json:"type"` // "StateSnapshot" | "Error"
	Version int          `json:"version,omitempty"`
	State   *lobby.State `json:"state,omitempty"`
	Error   string       `json:"error,omitempty"`
	Reason  string       `json:"reason,omitempty"`
}

func (m ClientMessage) Command() lobby.Command {
	return lobby.Command{
		Type:      lobby.CommandType(m.Type),
		Name:      m.Name,
		Team:      m.Team,
		Key:       m.Key,
		GroupID:   m.GroupID,
		Kind:      m.Kind,
		Primary:   m.Primary,
		Secondary: m.Secondary,
		On:        m.On,
		Mode:      m.Mode,
		Document:  m.Document,
	}
}

func Snapshot(s lobby.Snapshot) ServerMessage {
	return ServerMessage{Type: MsgStateSnapshot, Version: s.Version, State: &s.State}
}

func Error(err error) ServerMessage {
	return ServerMessage{Type: MsgError, Error: err.Error(), Reason: lobby.Reason(err)}
}
