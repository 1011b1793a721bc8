package core

import "strconv"

// UserID identifies a connection. It is assigned by the transport layer and
// may be reused once the previous holder has disconnected.
type UserID int64

func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// User is a connected participant.
type User struct {
	ID       UserID
	Nickname string
}

const defaultNicknamePrefix = "User"

// IsValidName reports whether s is usable as a nickname or channel name:
// non-empty, ASCII letters and digits only.
func IsValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
