package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peerex/p2p-escrow-service/internal/delivery/http/handlers"
	"github.com/peerex/p2p-escrow-service/internal/delivery/http/middleware"
)

type Handlers struct {
	Counterparty *handlers.CounterpartyHandler
	Ad           *handlers.AdHandler
	Order        *handlers.OrderHandler
	Dispute      *handlers.DisputeHandler
	Settlement   *handlers.SettlementHandler
}

// NewRouter wires the public surface. Everything under the authenticated
// group acts on behalf of the token subject; dispute moderation additionally
// requires the moderator role.
func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.POST("/counterparties", h.Counterparty.Register)

	auth := api.Group("")
	auth.Use(middleware.JwtAuthMiddleware(jwtSecret))
	{
		auth.GET("/counterparties/:id", h.Counterparty.GetByID)

		auth.POST("/ads", h.Ad.Create)
		auth.GET("/ads", h.Ad.List)
		auth.GET("/ads/:id", h.Ad.GetByID)
		auth.POST("/ads/:id/pause", h.Ad.Pause)
		auth.POST("/ads/:id/resume", h.Ad.Resume)
		auth.POST("/ads/:id/close", h.Ad.Close)

		auth.POST("/orders", h.Order.Create)
		auth.GET("/orders", h.Order.List)
		auth.GET("/orders/:id", h.Order.GetByID)
		auth.POST("/orders/:id/paid", h.Order.MarkPaid)
		auth.POST("/orders/:id/confirm", h.Order.Confirm)
		auth.POST("/orders/:id/cancel", h.Order.Cancel)
		auth.POST("/orders/:id/dispute", h.Dispute.Open)

		moderation := auth.Group("/disputes")
		moderation.GET("", h.Dispute.List)
		moderation.GET("/:id", h.Dispute.GetByID)
		moderation.POST("/:id/investigate", middleware.RequireRole(middleware.RoleModerator), h.Dispute.Investigate)
		moderation.POST("/:id/resolve", middleware.RequireRole(middleware.RoleModerator), h.Dispute.Resolve)

		auth.GET("/settlements/pending", middleware.RequireRole(middleware.RoleModerator), h.Settlement.ListPending)
	}

	return r
}
