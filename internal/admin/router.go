package admin

import (
	"boletamaster/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())

	// Fee policy
	fees := admin.Group("/fees")
	{
		fees.GET("", controller.GetFees)                      // GET /api/v1/admin/fees
		fees.PUT("/issuance", controller.SetIssuanceFee)      // PUT /api/v1/admin/fees/issuance
		fees.PUT("/service-rates", controller.SetServiceRate) // PUT /api/v1/admin/fees/service-rates
	}

	// Venue approval
	admin.POST("/venues/:id/approve", controller.ApproveVenue)       // POST /api/v1/admin/venues/:id/approve
	admin.POST("/venues/:id/disapprove", controller.DisapproveVenue) // POST /api/v1/admin/venues/:id/disapprove

	admin.POST("/events/:id/cancel", controller.CancelEvent) // POST /api/v1/admin/events/:id/cancel
	admin.GET("/offers", controller.GetOfferLog)             // GET /api/v1/admin/offers

	// Reports
	reports := admin.Group("/reports")
	{
		reports.GET("/daily-sales", controller.GetDailySales)        // GET /api/v1/admin/reports/daily-sales
		reports.GET("/earnings", controller.GetEarnings)             // GET /api/v1/admin/reports/earnings
		reports.GET("/organizers/:id", controller.GetOrganizerSales) // GET /api/v1/admin/reports/organizers/:id
	}
}
