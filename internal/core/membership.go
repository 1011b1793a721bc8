package core

// CreateChannel creates a channel owned by the sender, who becomes its only member.
func (r *Registry) CreateChannel(sender UserID, name string, inviteOnly bool) *Plan {
	return r.createChannel(&Command{Kind: CommandCreateChannel, SenderID: sender, Channel: name, InviteOnly: inviteOnly})
}

func (r *Registry) createChannel(cmd *Command) *Plan {
	user, ok := r.users[cmd.SenderID]
	if !ok {
		return nil
	}
	if !IsValidName(cmd.Channel) {
		return failure(cmd, ErrCodeInvalidName)
	}
	if _, exists := r.channels[cmd.Channel]; exists {
		return failure(cmd, ErrCodeChannelAlreadyExists)
	}

	r.channels[cmd.Channel] = NewChannel(cmd.Channel, user.ID, cmd.InviteOnly)
	return okay(cmd, []string{user.Nickname})
}

// Join adds the sender to a public channel and returns its roster.
//
// A sender that is already a member gets no_such_channel rather than an
// idempotent success; clients depend on that reply.
func (r *Registry) Join(sender UserID, name string) *Plan {
	return r.join(&Command{Kind: CommandJoinChannel, SenderID: sender, Channel: name})
}

func (r *Registry) join(cmd *Command) *Plan {
	if !r.IsConnected(cmd.SenderID) {
		return nil
	}
	ch, ok := r.channels[cmd.Channel]
	if !ok {
		return failure(cmd, ErrCodeNoSuchChannel)
	}
	if ch.InviteOnly {
		return failure(cmd, ErrCodeJoinPrivateChannel)
	}
	if !ch.AddMember(cmd.SenderID) {
		return failure(cmd, ErrCodeNoSuchChannel)
	}

	owner, _ := r.NicknameForUserID(ch.OwnerID)
	return roster(cmd, r.memberNicknames(ch), owner)
}

// Leave removes the sender from a channel. The leaver is among the recipients.
func (r *Registry) Leave(sender UserID, name string) *Plan {
	return r.leave(&Command{Kind: CommandLeaveChannel, SenderID: sender, Channel: name})
}

func (r *Registry) leave(cmd *Command) *Plan {
	if !r.IsConnected(cmd.SenderID) {
		return nil
	}
	ch, ok := r.channels[cmd.Channel]
	if !ok {
		return failure(cmd, ErrCodeNoSuchChannel)
	}
	if !ch.HasMember(cmd.SenderID) {
		return failure(cmd, ErrCodeUserNotInChannel)
	}

	recipients := r.memberNicknames(ch)
	ch.RemoveMember(cmd.SenderID)
	return okay(cmd, recipients)
}

// SendMessage routes body to every member of the channel, sender included.
func (r *Registry) SendMessage(sender UserID, name, body string) *Plan {
	return r.sendMessage(&Command{Kind: CommandSendMessage, SenderID: sender, Channel: name, Body: body})
}

func (r *Registry) sendMessage(cmd *Command) *Plan {
	if !r.IsConnected(cmd.SenderID) {
		return nil
	}
	ch, ok := r.channels[cmd.Channel]
	if !ok {
		return failure(cmd, ErrCodeNoSuchChannel)
	}
	if !ch.HasMember(cmd.SenderID) {
		return failure(cmd, ErrCodeUserNotInChannel)
	}
	return okay(cmd, r.memberNicknames(ch))
}
