package core

// Client is a connection as seen by the core layer.
// The registry owns the nickname; the client only knows its id.
type Client struct {
	ID       UserID
	Commands chan *Command
	Events   chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
// buffer <= 0 falls back to a small default.
func NewClient(id UserID, buffer int) *Client {
	if buffer <= 0 {
		buffer = 8
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, buffer),
		Events:   make(chan *Event, buffer),
		done:     make(chan struct{}),
	}
}
