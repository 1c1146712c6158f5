package marketplace

import (
	"boletamaster/internal/shared/middleware"
	"boletamaster/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupMarketplaceRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public listing
	public := rg.Group("/marketplace/offers")
	{
		public.GET("", controller.GetOffers)    // GET /api/v1/marketplace/offers
		public.GET("/:id", controller.GetOffer) // GET /api/v1/marketplace/offers/:id
	}

	// Client resale operations
	trading := rg.Group("/marketplace/offers")
	trading.Use(middleware.JWTAuth(), middleware.RequireRole(string(users.RoleClient)))
	{
		trading.POST("", controller.CreateOffer)                      // POST /api/v1/marketplace/offers
		trading.DELETE("/:id", controller.CancelOffer)                // DELETE /api/v1/marketplace/offers/:id
		trading.POST("/:id/bids", controller.PlaceBid)                // POST /api/v1/marketplace/offers/:id/bids
		trading.POST("/:id/bids/:bidId/accept", controller.AcceptBid) // POST /api/v1/marketplace/offers/:id/bids/:bidId/accept
		trading.DELETE("/:id/bids/:bidId", controller.CancelBid)      // DELETE /api/v1/marketplace/offers/:id/bids/:bidId
	}

	// Administrator oversight
	admin := rg.Group("/admin/marketplace")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.DELETE("/offers/:id", controller.AdminCancelOffer) // DELETE /api/v1/admin/marketplace/offers/:id
		admin.GET("/log", controller.GetLog)                     // GET /api/v1/admin/marketplace/log
	}
}
