package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/lab-bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("/quota", h.Quota)
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.DELETE("/:id", h.Cancel)
		group.POST("/:id/check-in", h.CheckIn)
		group.POST("/:id/check-out", h.CheckOut)
	}

	// === Staff Routes ===
	staff := group.Group("")
	staff.Use(staffMiddleware)
	{
		staff.POST("/:id/approve", h.Approve)
		staff.POST("/:id/reject", h.Reject)
	}

	// Availability feed hangs off the lab-spaces resource but is served by
	// the booking module, which owns the calendar projection.
	g.GET("/lab-spaces/:slug/availability", h.Availability)
}
