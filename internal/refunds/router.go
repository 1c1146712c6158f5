package refunds

import (
	"boletamaster/internal/shared/middleware"
	"boletamaster/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupRefundRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Client refund requests
	requests := rg.Group("/refunds")
	requests.Use(middleware.JWTAuth(), middleware.RequireRole(string(users.RoleClient)))
	{
		requests.POST("/tickets/:id", controller.RequestTicketRefund) // POST /api/v1/refunds/tickets/:id
		requests.POST("/bundles/:id", controller.RequestBundleRefund) // POST /api/v1/refunds/bundles/:id
	}

	// Administrator refund desk
	admin := rg.Group("/admin/refunds")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.GetPending)                        // GET /api/v1/admin/refunds
		admin.GET("/history", controller.GetHistory)                // GET /api/v1/admin/refunds/history
		admin.POST("/:kind/:clientId/:decision", controller.Decide) // POST /api/v1/admin/refunds/tickets/:clientId/approve
	}
}
