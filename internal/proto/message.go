package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeHello  = "hello"
	InboundTypeNick   = "nick"
	InboundTypeCreate = "create"
	InboundTypeJoin   = "join"
	InboundTypeLeave  = "leave"
	InboundTypeMsg    = "msg"
	InboundTypeInvite = "invite"
	InboundTypeKick   = "kick"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameConnected    = "connected"
	EventNameDisconnected = "disconnected"
	EventNameNickname     = "nickname"
	EventNameCreated      = "created"
	EventNameNames        = "names"
	EventNameLeft         = "left"
	EventNameMessage      = "message"
	EventNameKicked       = "kicked"

	ErrCodeInvalidMessage     = "invalid_message"
	ErrCodeUnsupportedVersion = "unsupported_version"
)

// HelloData is sent by the client to introduce itself.
// A non-empty User is applied as the initial nickname.
type HelloData struct {
	User     string `json:"user,omitempty"`
	Protocol int    `json:"protocol,omitempty"`
}

// NickData requests a nickname change.
type NickData struct {
	Nickname string `json:"nickname"`
}

// CreateData requests a new channel.
type CreateData struct {
	Channel    string `json:"channel"`
	InviteOnly bool   `json:"invite_only,omitempty"`
}

// ChannelData names a channel to join or leave.
type ChannelData struct {
	Channel string `json:"channel"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// MemberData names a user to invite into or kick from a channel.
type MemberData struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventUser announces a connected or disconnected user.
type EventUser struct {
	User string `json:"user"`
}

// EventNickname notifies that a user changed nickname.
type EventNickname struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// EventCreated confirms a new channel to its owner.
type EventCreated struct {
	Channel    string `json:"channel"`
	Owner      string `json:"owner"`
	InviteOnly bool   `json:"invite_only"`
}

// EventNames carries the full roster of a channel after a join or invite.
type EventNames struct {
	Channel string   `json:"channel"`
	User    string   `json:"user"`
	Invited string   `json:"invited,omitempty"`
	Owner   string   `json:"owner"`
	Members []string `json:"members"`
}

// EventLeft notifies that a user left a channel.
type EventLeft struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
}

// EventKicked notifies that the owner removed a user from a channel.
type EventKicked struct {
	Channel string `json:"channel"`
	By      string `json:"by"`
	User    string `json:"user"`
}

// EventMessage is a chat message delivered to channel members.
type EventMessage struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	Text    string `json:"text"`
	TS      int64  `json:"ts"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code    string `json:"code"`
	Msg     string `json:"msg"`
	Command string `json:"command,omitempty"`
	Channel string `json:"channel,omitempty"`
}
