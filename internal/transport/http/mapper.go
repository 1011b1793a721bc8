package http

import (
	"encoding/json"

	"github.com/vovakirdan/chanserv/internal/core"
	"github.com/vovakirdan/chanserv/internal/proto"
)

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

// inboundToCommand decodes a frame into a registry command. A nil command
// with a nil error means the frame needs no registry call.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeHello:
		var hello proto.HelloData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &hello); err != nil {
				return nil, badRequest("malformed hello")
			}
		}
		if hello.Protocol != 0 && hello.Protocol != proto.ProtocolVersion {
			return nil, &proto.Error{Code: proto.ErrCodeUnsupportedVersion, Msg: "unsupported protocol version"}
		}
		if hello.User == "" {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandNickname, Nickname: hello.User}, nil
	case proto.InboundTypeNick:
		var nick proto.NickData
		if err := json.Unmarshal(inbound.Data, &nick); err != nil {
			return nil, badRequest("malformed nick")
		}
		return &core.Command{Kind: core.CommandNickname, Nickname: nick.Nickname}, nil
	case proto.InboundTypeCreate:
		var create proto.CreateData
		if err := json.Unmarshal(inbound.Data, &create); err != nil {
			return nil, badRequest("malformed create")
		}
		return &core.Command{
			Kind:       core.CommandCreateChannel,
			Channel:    create.Channel,
			InviteOnly: create.InviteOnly,
		}, nil
	case proto.InboundTypeJoin, proto.InboundTypeLeave:
		var ch proto.ChannelData
		if err := json.Unmarshal(inbound.Data, &ch); err != nil {
			return nil, badRequest("malformed " + inbound.Type)
		}
		kind := core.CommandJoinChannel
		if inbound.Type == proto.InboundTypeLeave {
			kind = core.CommandLeaveChannel
		}
		return &core.Command{Kind: kind, Channel: ch.Channel}, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, badRequest("malformed msg")
		}
		return &core.Command{Kind: core.CommandSendMessage, Channel: msg.Channel, Body: msg.Text}, nil
	case proto.InboundTypeInvite, proto.InboundTypeKick:
		var member proto.MemberData
		if err := json.Unmarshal(inbound.Data, &member); err != nil {
			return nil, badRequest("malformed " + inbound.Type)
		}
		kind := core.CommandInvite
		if inbound.Type == proto.InboundTypeKick {
			kind = core.CommandKick
		}
		return &core.Command{Kind: kind, Channel: member.Channel, Nickname: member.User}, nil
	default:
		return nil, &proto.Error{Code: proto.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	evt := func(name string, data any) proto.Outbound {
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: name, Data: data}
	}

	switch event.Kind {
	case core.EventConnected:
		return evt(proto.EventNameConnected, proto.EventUser{User: event.User})
	case core.EventDisconnected:
		return evt(proto.EventNameDisconnected, proto.EventUser{User: event.User})
	case core.EventNicknameChanged:
		return evt(proto.EventNameNickname, proto.EventNickname{Old: event.User, New: event.Target})
	case core.EventChannelCreated:
		return evt(proto.EventNameCreated, proto.EventCreated{
			Channel:    event.Channel,
			Owner:      event.User,
			InviteOnly: event.InviteOnly,
		})
	case core.EventNames:
		return evt(proto.EventNameNames, proto.EventNames{
			Channel: event.Channel,
			User:    event.User,
			Invited: event.Target,
			Owner:   event.Owner,
			Members: event.Members,
		})
	case core.EventUserLeft:
		return evt(proto.EventNameLeft, proto.EventLeft{Channel: event.Channel, User: event.User})
	case core.EventChannelMessage:
		return evt(proto.EventNameMessage, proto.EventMessage{
			Channel: event.Channel,
			User:    event.User,
			Text:    event.Text,
			TS:      event.At.Unix(),
		})
	case core.EventUserKicked:
		return evt(proto.EventNameKicked, proto.EventKicked{
			Channel: event.Channel,
			By:      event.User,
			User:    event.Target,
		})
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeError,
			Error: &proto.Error{
				Code:    event.Error.Code,
				Msg:     event.Error.Message,
				Command: event.Command.String(),
				Channel: event.Channel,
			},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
