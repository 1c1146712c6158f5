package venues

import (
	"boletamaster/internal/shared/middleware"
	"boletamaster/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Organizers propose venues, anyone authenticated can browse them
	venues := rg.Group("/venues")
	venues.Use(middleware.JWTAuth())
	{
		venues.GET("", controller.ListVenues)   // GET /api/v1/venues
		venues.GET("/:id", controller.GetVenue) // GET /api/v1/venues/:id
		venues.POST("", middleware.RequireRoles(string(users.RoleOrganizer), string(users.RoleAdmin)),
			controller.CreateVenue) // POST /api/v1/venues
	}
}
