package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/chanserv/internal/store"
)

// ErrHubStopped is returned by Query once Run has exited.
var ErrHubStopped = errors.New("hub stopped")

const journalBuffer = 64

type envelope struct {
	client *Client
	cmd    *Command
}

type query struct {
	fn   func(*Registry)
	done chan struct{}
}

// Hub owns the Registry and serializes every access to it on the goroutine
// running Run. It also delivers the resulting plans to connected clients.
type Hub struct {
	registry *Registry
	journal  store.Journal
	log      *zerolog.Logger
	now      func() time.Time

	clients    map[UserID]*Client
	register   chan *Client
	unregister chan *Client
	inbox      chan envelope
	queries    chan query
	entries    chan store.Entry
	stopped    chan struct{}
}

// NewHub creates a hub around an empty registry.
// journal and logger may be nil.
func NewHub(journal store.Journal, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   NewRegistry(),
		journal:    journal,
		log:        logger,
		now:        time.Now,
		clients:    make(map[UserID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan envelope, 64),
		queries:    make(chan query),
		entries:    make(chan store.Entry, journalBuffer),
		stopped:    make(chan struct{}),
	}
}

// Run processes registrations, commands and queries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.journal != nil {
		go h.writeJournal(ctx)
	}
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.handleRegister(ctx, c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case env := <-h.inbox:
			h.handleCommand(env)
		case q := <-h.queries:
			q.fn(h.registry)
			close(q.done)
		}
	}
}

// RegisterClient connects a client. The client receives EventConnected with
// its nickname, or finds its Events channel closed if the id is taken.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

// UnregisterClient disconnects a client and closes its Events channel.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// Query runs fn against the registry on the hub goroutine and waits for it.
// fn must not retain the registry.
func (h *Hub) Query(ctx context.Context, fn func(*Registry)) error {
	q := query{fn: fn, done: make(chan struct{})}
	select {
	case h.queries <- q:
	case <-h.stopped:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) handleRegister(ctx context.Context, c *Client) {
	plan := h.registry.Connect(c.ID)
	if plan == nil {
		h.log.Warn().Stringer("user_id", c.ID).Msg("duplicate client registration ignored")
		close(c.Events)
		return
	}
	h.clients[c.ID] = c
	go h.forward(ctx, c)

	h.log.Info().Stringer("user_id", c.ID).Str("nickname", plan.Nickname).Msg("user connected")
	h.deliver(plan)
}

func (h *Hub) handleUnregister(c *Client) {
	if current, ok := h.clients[c.ID]; !ok || current != c {
		return
	}
	plan := h.registry.Disconnect(c.ID)
	delete(h.clients, c.ID)
	close(c.done)
	close(c.Events)

	if plan != nil {
		h.log.Info().Stringer("user_id", c.ID).Str("nickname", plan.Nickname).
			Int("recipients", len(plan.Recipients)).Msg("user disconnected")
	}
	h.deliver(plan)
}

func (h *Hub) handleCommand(env envelope) {
	if current, ok := h.clients[env.client.ID]; !ok || current != env.client {
		return
	}
	cmd := *env.cmd
	cmd.SenderID = env.client.ID

	plan := h.registry.Apply(cmd)
	if plan == nil {
		return
	}
	h.log.Debug().
		Stringer("user_id", cmd.SenderID).
		Stringer("command", cmd.Kind).
		Str("channel", cmd.Channel).
		Stringer("outcome", plan.Kind).
		Int("recipients", len(plan.Recipients)).
		Msg("command applied")
	h.deliver(plan)
}

// forward moves commands from a client into the hub inbox until the client
// is unregistered or the hub stops.
func (h *Hub) forward(ctx context.Context, c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			if cmd == nil {
				continue
			}
			select {
			case h.inbox <- envelope{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) deliver(plan *Plan) {
	if plan == nil {
		return
	}

	var sender string
	if plan.Command != nil {
		sender, _ = h.registry.NicknameForUserID(plan.Command.SenderID)
	}
	ev := EventFromPlan(plan, sender, h.now())

	if !plan.OK() {
		h.send(h.clients[plan.Command.SenderID], ev)
		return
	}

	h.record(plan, sender)
	for _, nickname := range plan.Recipients {
		id, ok := h.resolve(plan, nickname)
		if !ok {
			continue
		}
		h.send(h.clients[id], ev)
	}
}

// resolve maps a recipient nickname to a live id. A rename plan lists the
// sender under the nickname they held before the change.
func (h *Hub) resolve(plan *Plan, nickname string) (UserID, bool) {
	if plan.Command != nil && plan.Command.Kind == CommandNickname && nickname == plan.Nickname {
		return plan.Command.SenderID, true
	}
	return h.registry.UserIDForNickname(nickname)
}

func (h *Hub) send(c *Client, ev *Event) {
	if c == nil {
		return
	}
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Stringer("user_id", c.ID).Msg("client event buffer full, dropping event")
	}
}

func (h *Hub) shutdown() {
	close(h.stopped)
	for id, c := range h.clients {
		close(c.done)
		close(c.Events)
		delete(h.clients, id)
	}
}
