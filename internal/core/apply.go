package core

// Apply routes a command to the matching registry operation.
// The returned plan refers to a copy of cmd.
func (r *Registry) Apply(cmd Command) *Plan {
	c := &cmd
	switch cmd.Kind {
	case CommandNickname:
		return r.rename(c)
	case CommandCreateChannel:
		return r.createChannel(c)
	case CommandJoinChannel:
		return r.join(c)
	case CommandLeaveChannel:
		return r.leave(c)
	case CommandSendMessage:
		return r.sendMessage(c)
	case CommandInvite:
		return r.invite(c)
	case CommandKick:
		return r.kick(c)
	default:
		if !r.IsConnected(cmd.SenderID) {
			return nil
		}
		return failure(c, ErrCodeBadRequest)
	}
}
