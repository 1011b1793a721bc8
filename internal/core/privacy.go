package core

// Invite adds target to an invite-only channel owned by the sender.
// Inviting an existing member succeeds without changing membership.
func (r *Registry) Invite(sender UserID, target, name string) *Plan {
	return r.invite(&Command{Kind: CommandInvite, SenderID: sender, Nickname: target, Channel: name})
}

func (r *Registry) invite(cmd *Command) *Plan {
	if !r.IsConnected(cmd.SenderID) {
		return nil
	}
	targetID, ok := r.nicknames[cmd.Nickname]
	if !ok {
		return failure(cmd, ErrCodeNoSuchUser)
	}
	ch, ok := r.channels[cmd.Channel]
	if !ok {
		return failure(cmd, ErrCodeNoSuchChannel)
	}
	if !ch.InviteOnly {
		return failure(cmd, ErrCodeInviteToPublicChannel)
	}
	if ch.OwnerID != cmd.SenderID {
		return failure(cmd, ErrCodeUserNotOwner)
	}

	ch.AddMember(targetID)
	owner, _ := r.NicknameForUserID(ch.OwnerID)
	return roster(cmd, r.memberNicknames(ch), owner)
}

// Kick removes target from a channel owned by the sender. The kicked user is
// among the recipients. The owner may kick themselves; the channel then
// lives on without them until they disconnect.
func (r *Registry) Kick(sender UserID, target, name string) *Plan {
	return r.kick(&Command{Kind: CommandKick, SenderID: sender, Nickname: target, Channel: name})
}

func (r *Registry) kick(cmd *Command) *Plan {
	if !r.IsConnected(cmd.SenderID) {
		return nil
	}
	targetID, ok := r.nicknames[cmd.Nickname]
	if !ok {
		return failure(cmd, ErrCodeNoSuchUser)
	}
	ch, ok := r.channels[cmd.Channel]
	if !ok {
		return failure(cmd, ErrCodeNoSuchChannel)
	}
	if !ch.HasMember(targetID) {
		return failure(cmd, ErrCodeUserNotInChannel)
	}
	if ch.OwnerID != cmd.SenderID {
		return failure(cmd, ErrCodeUserNotOwner)
	}

	recipients := r.memberNicknames(ch)
	ch.RemoveMember(targetID)
	return okay(cmd, recipients)
}
