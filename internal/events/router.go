package events

import (
	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse events and their seat maps
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.GetAllEvents)                 // GET /api/v1/events?status=ACTIVE
		publicEvents.GET("/:id", controller.GetEvent)                 // GET /api/v1/events/:id
		publicEvents.GET("/:id/sections", controller.GetAvailability) // GET /api/v1/events/:id/sections
	}
}
