package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandNickname changes the sender's nickname.
	CommandNickname CommandKind = iota
	// CommandCreateChannel creates a channel owned by the sender.
	CommandCreateChannel
	// CommandJoinChannel subscribes the sender to a public channel.
	CommandJoinChannel
	// CommandLeaveChannel unsubscribes the sender from a channel.
	CommandLeaveChannel
	// CommandSendMessage delivers a chat message to channel members.
	CommandSendMessage
	// CommandInvite adds a user to an invite-only channel.
	CommandInvite
	// CommandKick removes a user from a channel.
	CommandKick
)

var commandNames = [...]string{
	CommandNickname:      "nickname",
	CommandCreateChannel: "create",
	CommandJoinChannel:   "join",
	CommandLeaveChannel:  "leave",
	CommandSendMessage:   "message",
	CommandInvite:        "invite",
	CommandKick:          "kick",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[k]
}

// Command represents an action requested by a client.
// Fields not used by a kind are left zero.
type Command struct {
	Kind     CommandKind
	SenderID UserID
	Channel  string
	// Nickname is the requested nickname for CommandNickname and the
	// target user for CommandInvite and CommandKick.
	Nickname   string
	InviteOnly bool
	Body       string
}
