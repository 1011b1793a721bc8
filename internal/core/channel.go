package core

// Channel is a named group of members with a fixed owner and privacy flag.
type Channel struct {
	Name       string
	OwnerID    UserID
	InviteOnly bool
	members    map[UserID]struct{}
}

// NewChannel constructs a channel whose only member is its owner.
func NewChannel(name string, owner UserID, inviteOnly bool) *Channel {
	ch := &Channel{
		Name:       name,
		OwnerID:    owner,
		InviteOnly: inviteOnly,
		members:    make(map[UserID]struct{}),
	}
	ch.AddMember(owner)
	return ch
}

// AddMember inserts a user into the channel. Returns true if newly added.
func (c *Channel) AddMember(id UserID) bool {
	if _, exists := c.members[id]; exists {
		return false
	}
	c.members[id] = struct{}{}
	return true
}

// RemoveMember deletes a user from the channel. Returns true if removed.
func (c *Channel) RemoveMember(id UserID) bool {
	if _, exists := c.members[id]; !exists {
		return false
	}
	delete(c.members, id)
	return true
}

// HasMember reports whether the user is currently in the channel.
func (c *Channel) HasMember(id UserID) bool {
	_, ok := c.members[id]
	return ok
}

// ChannelSnapshot is a read-only copy of a channel's state.
type ChannelSnapshot struct {
	Name       string
	Owner      string
	InviteOnly bool
	Members    []string
}
