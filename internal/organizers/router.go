package organizers

import (
	"boletamaster/internal/shared/middleware"
	"boletamaster/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupOrganizerRoutes(rg *gin.RouterGroup, controller *Controller) {
	organizer := rg.Group("/organizer")
	organizer.Use(middleware.JWTAuth(), middleware.RequireRole(string(users.RoleOrganizer)))
	{
		organizer.GET("/profile", controller.GetProfile)            // GET /api/v1/organizer/profile
		organizer.GET("/reports", controller.GetReports)            // GET /api/v1/organizer/reports
		organizer.POST("/tickets/:id/check-in", controller.CheckIn) // POST /api/v1/organizer/tickets/:id/check-in
	}

	events := organizer.Group("/events")
	{
		events.GET("", controller.GetEvents)                                          // GET /api/v1/organizer/events
		events.POST("", controller.CreateEvent)                                       // POST /api/v1/organizer/events
		events.POST("/:id/cancel", controller.CancelEvent)                            // POST /api/v1/organizer/events/:id/cancel
		events.POST("/:id/sections", controller.CreateSection)                        // POST /api/v1/organizer/events/:id/sections
		events.PATCH("/:id/sections/:sectionId/price", controller.ModifySectionPrice) // PATCH /api/v1/organizer/events/:id/sections/:sectionId/price
		events.POST("/:id/discounts", controller.CreateDiscount)                      // POST /api/v1/organizer/events/:id/discounts
		events.POST("/:id/courtesies", controller.GrantCourtesy)                      // POST /api/v1/organizer/events/:id/courtesies
		events.POST("/:id/reports", controller.GenerateReport)                        // POST /api/v1/organizer/events/:id/reports
	}
}
