package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chanserv/internal/core"
	"github.com/vovakirdan/chanserv/internal/store"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// APIHandlers serves read-only snapshots of the registry and the audit journal.
type APIHandlers struct {
	hub     *core.Hub
	journal store.Journal
	log     *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, journal store.Journal, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		hub:     hub,
		journal: journal,
		log:     logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChannelResponse represents a channel in API responses.
type ChannelResponse struct {
	Name       string   `json:"name"`
	Owner      string   `json:"owner"`
	InviteOnly bool     `json:"invite_only"`
	Members    []string `json:"members"`
}

// UserResponse represents a connected user and the channels they are in.
type UserResponse struct {
	Nickname string   `json:"nickname"`
	Channels []string `json:"channels"`
	Owns     []string `json:"owns"`
}

// AuditEntryResponse represents a journal entry in API responses.
type AuditEntryResponse struct {
	ID         int64  `json:"id"`
	Kind       string `json:"kind"`
	Actor      string `json:"actor"`
	Channel    string `json:"channel,omitempty"`
	Target     string `json:"target,omitempty"`
	Recipients int    `json:"recipients"`
	CreatedAt  string `json:"created_at"`
}

// ListUsers returns the nicknames of connected users.
// GET /api/users
func (h *APIHandlers) ListUsers(c *gin.Context) {
	var users []string
	if err := h.hub.Query(c.Request.Context(), func(r *core.Registry) {
		users = r.RegisteredUsers()
	}); err != nil {
		h.unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns the channels a user belongs to and the channels they own.
// GET /api/users/:nick
func (h *APIHandlers) GetUser(c *gin.Context) {
	nick := c.Param("nick")

	var (
		resp  UserResponse
		found bool
	)
	if err := h.hub.Query(c.Request.Context(), func(r *core.Registry) {
		id, ok := r.UserIDForNickname(nick)
		if !ok {
			return
		}
		found = true
		resp = UserResponse{
			Nickname: nick,
			Channels: r.ChannelsOf(id),
			Owns:     r.ChannelsOwnedBy(id),
		}
	}); err != nil {
		h.unavailable(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListChannels returns the names of existing channels.
// GET /api/channels
func (h *APIHandlers) ListChannels(c *gin.Context) {
	var channels []string
	if err := h.hub.Query(c.Request.Context(), func(r *core.Registry) {
		channels = r.ChannelNames()
	}); err != nil {
		h.unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

// GetChannel returns one channel's owner, privacy flag and members.
// GET /api/channels/:name
func (h *APIHandlers) GetChannel(c *gin.Context) {
	name := c.Param("name")

	var (
		info  core.ChannelSnapshot
		found bool
	)
	if err := h.hub.Query(c.Request.Context(), func(r *core.Registry) {
		info, found = r.ChannelInfo(name)
	}); err != nil {
		h.unavailable(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "channel not found"})
		return
	}

	c.JSON(http.StatusOK, ChannelResponse{
		Name:       info.Name,
		Owner:      info.Owner,
		InviteOnly: info.InviteOnly,
		Members:    info.Members,
	})
}

// ListAudit returns recent journal entries, optionally for one channel.
// GET /api/audit?limit=50&channel=name
func (h *APIHandlers) ListAudit(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "audit journal disabled"})
		return
	}

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxAuditLimit)
	}

	var (
		entries []store.Entry
		err     error
	)
	if channel := c.Query("channel"); channel != "" {
		entries, err = h.journal.ByChannel(c.Request.Context(), channel, limit)
	} else {
		entries, err = h.journal.Recent(c.Request.Context(), limit)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read audit journal")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, AuditEntryResponse{
			ID:         e.ID,
			Kind:       e.Kind,
			Actor:      e.Actor,
			Channel:    e.Channel,
			Target:     e.Target,
			Recipients: e.Recipients,
			CreatedAt:  e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, response)
}

func (h *APIHandlers) unavailable(c *gin.Context, err error) {
	h.log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("registry query failed")
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable"})
}
