package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventConnected tells a new client which nickname it was given.
	EventConnected EventKind = iota
	// EventDisconnected notifies channel peers that a user went away.
	EventDisconnected
	// EventNicknameChanged notifies channel peers about a rename.
	EventNicknameChanged
	// EventChannelCreated confirms channel creation to its owner.
	EventChannelCreated
	// EventNames carries the full roster after a join or invite.
	EventNames
	// EventUserLeft notifies members that a user left a channel.
	EventUserLeft
	// EventChannelMessage delivers a chat message.
	EventChannelMessage
	// EventUserKicked notifies members that the owner removed a user.
	EventUserKicked
	// EventError notifies the sender about a rejected command.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind EventKind
	// Command is the command an EventError answers.
	Command    CommandKind
	Channel    string
	User       string
	Target     string
	Owner      string
	Members    []string
	InviteOnly bool
	Text       string
	At         time.Time
	Error      *CoreError
}

// EventFromPlan renders a plan as the single event its recipients receive.
// sender is the sender's nickname after the plan was applied.
func EventFromPlan(p *Plan, sender string, at time.Time) *Event {
	ev := &Event{At: at, User: sender}
	switch p.Kind {
	case PlanConnected:
		ev.Kind = EventConnected
		ev.User = p.Nickname
		return ev
	case PlanDisconnected:
		ev.Kind = EventDisconnected
		ev.User = p.Nickname
		return ev
	case PlanError:
		ev.Kind = EventError
		ev.Error = p.Err
		if p.Command != nil {
			ev.Command = p.Command.Kind
			ev.Channel = p.Command.Channel
		}
		return ev
	}

	cmd := p.Command
	ev.Channel = cmd.Channel
	switch cmd.Kind {
	case CommandNickname:
		ev.Kind = EventNicknameChanged
		ev.User = p.Nickname
		ev.Target = cmd.Nickname
	case CommandCreateChannel:
		ev.Kind = EventChannelCreated
		ev.InviteOnly = cmd.InviteOnly
	case CommandJoinChannel, CommandInvite:
		ev.Kind = EventNames
		ev.Owner = p.Owner
		ev.Members = p.Recipients
		if cmd.Kind == CommandInvite {
			ev.Target = cmd.Nickname
		}
	case CommandLeaveChannel:
		ev.Kind = EventUserLeft
	case CommandSendMessage:
		ev.Kind = EventChannelMessage
		ev.Text = cmd.Body
	case CommandKick:
		ev.Kind = EventUserKicked
		ev.Target = cmd.Nickname
	}
	return ev
}
