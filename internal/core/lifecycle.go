package core

import "github.com/samber/lo"

// Connect registers a new user under a fresh default nickname.
// Returns nil if id is already connected.
func (r *Registry) Connect(id UserID) *Plan {
	if r.IsConnected(id) {
		return nil
	}
	nickname := r.nextDefaultNickname()
	r.users[id] = &User{ID: id, Nickname: nickname}
	r.nicknames[nickname] = id

	return &Plan{
		Kind:       PlanConnected,
		Recipients: []string{nickname},
		Nickname:   nickname,
	}
}

// Disconnect removes a user from every channel, deletes the channels they
// own and drops them from all indices. Recipients are the members that
// remain in the channels the user was part of.
// Returns nil if id is not connected.
func (r *Registry) Disconnect(id UserID) *Plan {
	user, ok := r.users[id]
	if !ok {
		return nil
	}

	notify := make(map[string]struct{})
	for _, ch := range r.channels {
		if !ch.RemoveMember(id) {
			continue
		}
		for _, nick := range r.memberNicknames(ch) {
			notify[nick] = struct{}{}
		}
	}

	for _, name := range r.ChannelsOwnedBy(id) {
		delete(r.channels, name)
	}

	delete(r.nicknames, user.Nickname)
	delete(r.users, id)

	return &Plan{
		Kind:       PlanDisconnected,
		Recipients: sorted(lo.Keys(notify)),
		Nickname:   user.Nickname,
	}
}

// Rename changes the sender's nickname. Everyone sharing a channel with the
// sender is notified, under the nicknames they held before the change.
func (r *Registry) Rename(sender UserID, nickname string) *Plan {
	return r.rename(&Command{Kind: CommandNickname, SenderID: sender, Nickname: nickname})
}

func (r *Registry) rename(cmd *Command) *Plan {
	user, ok := r.users[cmd.SenderID]
	if !ok {
		return nil
	}
	if !IsValidName(cmd.Nickname) {
		return failure(cmd, ErrCodeInvalidName)
	}
	if _, taken := r.nicknames[cmd.Nickname]; taken {
		return failure(cmd, ErrCodeNameAlreadyInUse)
	}

	notify := make(map[string]struct{})
	for _, ch := range r.channels {
		if !ch.HasMember(user.ID) {
			continue
		}
		for _, nick := range r.memberNicknames(ch) {
			notify[nick] = struct{}{}
		}
	}

	previous := user.Nickname
	delete(r.nicknames, previous)
	user.Nickname = cmd.Nickname
	r.nicknames[cmd.Nickname] = user.ID

	plan := okay(cmd, sorted(lo.Keys(notify)))
	plan.Nickname = previous
	return plan
}
