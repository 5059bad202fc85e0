package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/lab-spaces")

	// === Public Routes ===
	group.GET("", h.List)
	group.GET("/:slug", h.Get)

	// === Staff Routes ===
	staff := group.Group("")
	staff.Use(authMiddleware, staffMiddleware)
	{
		staff.POST("", h.Create)
		staff.PATCH("/:slug", h.Update)
	}
}
