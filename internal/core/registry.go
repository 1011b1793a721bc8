package core

import (
	"slices"
	"strconv"

	"github.com/samber/lo"
)

// Registry is the authoritative membership and routing state of the chat
// system. Every operation validates, mutates and returns a Plan without
// doing any I/O.
//
// Registry is not safe for concurrent use; Hub serializes access to it.
type Registry struct {
	users     map[UserID]*User
	nicknames map[string]UserID
	channels  map[string]*Channel
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users:     make(map[UserID]*User),
		nicknames: make(map[string]UserID),
		channels:  make(map[string]*Channel),
	}
}

// UserIDForNickname resolves a nickname to the id of the connected user holding it.
func (r *Registry) UserIDForNickname(nickname string) (UserID, bool) {
	id, ok := r.nicknames[nickname]
	return id, ok
}

// NicknameForUserID returns the nickname of a connected user.
func (r *Registry) NicknameForUserID(id UserID) (string, bool) {
	u, ok := r.users[id]
	if !ok {
		return "", false
	}
	return u.Nickname, true
}

// IsConnected reports whether id belongs to a connected user.
func (r *Registry) IsConnected(id UserID) bool {
	_, ok := r.users[id]
	return ok
}

// RegisteredUsers returns the sorted nicknames of all connected users.
func (r *Registry) RegisteredUsers() []string {
	return sorted(lo.Keys(r.nicknames))
}

// ChannelNames returns the sorted names of all existing channels.
func (r *Registry) ChannelNames() []string {
	return sorted(lo.Keys(r.channels))
}

// MembersOf returns the sorted nicknames of a channel's members, or an empty
// slice if the channel does not exist.
func (r *Registry) MembersOf(name string) []string {
	ch, ok := r.channels[name]
	if !ok {
		return []string{}
	}
	return r.memberNicknames(ch)
}

// OwnerOf returns the current nickname of a channel's owner.
func (r *Registry) OwnerOf(name string) (string, bool) {
	ch, ok := r.channels[name]
	if !ok {
		return "", false
	}
	return r.NicknameForUserID(ch.OwnerID)
}

// ChannelsOwnedBy returns the sorted names of channels whose owner is id.
// Ownership does not depend on membership.
func (r *Registry) ChannelsOwnedBy(id UserID) []string {
	owned := lo.PickBy(r.channels, func(_ string, ch *Channel) bool {
		return ch.OwnerID == id
	})
	return sorted(lo.Keys(owned))
}

// ChannelsOf returns the sorted names of channels id is a member of.
func (r *Registry) ChannelsOf(id UserID) []string {
	joined := lo.PickBy(r.channels, func(_ string, ch *Channel) bool {
		return ch.HasMember(id)
	})
	return sorted(lo.Keys(joined))
}

// ChannelInfo returns a copy of a channel's state.
func (r *Registry) ChannelInfo(name string) (ChannelSnapshot, bool) {
	ch, ok := r.channels[name]
	if !ok {
		return ChannelSnapshot{}, false
	}
	owner, _ := r.NicknameForUserID(ch.OwnerID)
	return ChannelSnapshot{
		Name:       ch.Name,
		Owner:      owner,
		InviteOnly: ch.InviteOnly,
		Members:    r.memberNicknames(ch),
	}, true
}

func (r *Registry) memberNicknames(ch *Channel) []string {
	names := make([]string, 0, len(ch.members))
	for id := range ch.members {
		if u, ok := r.users[id]; ok {
			names = append(names, u.Nickname)
		}
	}
	return sorted(names)
}

// nextDefaultNickname finds the smallest N such that "User"+N is free.
func (r *Registry) nextDefaultNickname() string {
	for n := 0; ; n++ {
		candidate := defaultNicknamePrefix + strconv.Itoa(n)
		if _, taken := r.nicknames[candidate]; !taken {
			return candidate
		}
	}
}

func sorted(s []string) []string {
	slices.Sort(s)
	return s
}
