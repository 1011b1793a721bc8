package core

// Error codes for domain errors.
const (
	ErrCodeInvalidName           = "invalid_name"
	ErrCodeNameAlreadyInUse      = "name_already_in_use"
	ErrCodeChannelAlreadyExists  = "channel_already_exists"
	ErrCodeNoSuchChannel         = "no_such_channel"
	ErrCodeUserNotInChannel      = "user_not_in_channel"
	ErrCodeNoSuchUser            = "no_such_user"
	ErrCodeInviteToPublicChannel = "invite_to_public_channel"
	ErrCodeUserNotOwner          = "user_not_owner"
	ErrCodeJoinPrivateChannel    = "join_private_channel"

	// Protocol-level codes, produced outside the registry.
	ErrCodeBadRequest = "bad_request"
)

var messages = map[string]string{
	ErrCodeInvalidName:           "name must be non-empty and contain only letters and digits",
	ErrCodeNameAlreadyInUse:      "nickname already in use",
	ErrCodeChannelAlreadyExists:  "channel already exists",
	ErrCodeNoSuchChannel:         "no such channel",
	ErrCodeUserNotInChannel:      "user not in channel",
	ErrCodeNoSuchUser:            "no such user",
	ErrCodeInviteToPublicChannel: "cannot invite to a public channel",
	ErrCodeUserNotOwner:          "only the channel owner can do that",
	ErrCodeJoinPrivateChannel:    "channel is invite-only",
	ErrCodeBadRequest:            "bad request",
}

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so errors.Is works with code-only values.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	return ok && t.Code == e.Code
}

func coreError(code string) *CoreError {
	msg, ok := messages[code]
	if !ok {
		msg = code
	}
	return &CoreError{Code: code, Message: msg}
}
