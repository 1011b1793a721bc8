package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chanserv/internal/config"
	"github.com/vovakirdan/chanserv/internal/core"
	"github.com/vovakirdan/chanserv/internal/store"
)

// NewServer builds the HTTP server: health check, websocket endpoint and the
// read-only registry API. journal may be nil.
//
// /ws is mounted on the mux directly because gin's response writer refuses
// to hijack a connection once the 101 status has been written.
func NewServer(hub *core.Hub, journal store.Journal, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(hub, journal, logger)
	group := router.Group("/api")
	group.GET("/users", api.ListUsers)
	group.GET("/users/:nick", api.GetUser)
	group.GET("/channels", api.ListChannels)
	group.GET("/channels/:name", api.GetChannel)
	group.GET("/audit", api.ListAudit)

	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg.MaxMessageBytes, cfg.ClientBuffer, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
