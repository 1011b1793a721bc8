package core

import (
	"context"

	"github.com/vovakirdan/chanserv/internal/store"
)

// record offers a successful transition to the journal writer. Messages are
// not journaled, and a full buffer drops the entry rather than stall the hub.
func (h *Hub) record(plan *Plan, sender string) {
	if h.journal == nil {
		return
	}
	entry, ok := journalEntry(plan, sender)
	if !ok {
		return
	}
	entry.CreatedAt = h.now()

	select {
	case h.entries <- entry:
	default:
		h.log.Warn().Str("kind", entry.Kind).Msg("journal buffer full, dropping entry")
	}
}

func (h *Hub) writeJournal(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-h.entries:
			if err := h.journal.Record(ctx, e); err != nil {
				h.log.Warn().Err(err).Str("kind", e.Kind).Msg("failed to write journal entry")
			}
		}
	}
}

func journalEntry(plan *Plan, sender string) (store.Entry, bool) {
	e := store.Entry{Recipients: len(plan.Recipients), Actor: sender}
	switch plan.Kind {
	case PlanConnected:
		e.Kind = "connected"
		e.Actor = plan.Nickname
		return e, true
	case PlanDisconnected:
		e.Kind = "disconnected"
		e.Actor = plan.Nickname
		return e, true
	case PlanError:
		return e, false
	}

	cmd := plan.Command
	if cmd.Kind == CommandSendMessage {
		return e, false
	}
	e.Kind = cmd.Kind.String()
	e.Channel = cmd.Channel
	switch cmd.Kind {
	case CommandNickname:
		e.Actor = plan.Nickname
		e.Target = cmd.Nickname
	case CommandInvite, CommandKick:
		e.Target = cmd.Nickname
	}
	return e, true
}
