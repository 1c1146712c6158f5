package clients

import (
	"boletamaster/internal/shared/middleware"
	"boletamaster/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupClientRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Client self-service routes
	me := rg.Group("/me")
	me.Use(middleware.JWTAuth(), middleware.RequireRole(string(users.RoleClient)))
	{
		me.GET("/wallet", controller.GetWallet)                     // GET /api/v1/me/wallet
		me.GET("/purchases", controller.GetPurchases)               // GET /api/v1/me/purchases
		me.POST("/purchases", controller.Checkout)                  // POST /api/v1/me/purchases
		me.POST("/tickets/:id/transfer", controller.TransferTicket) // POST /api/v1/me/tickets/:id/transfer
		me.POST("/tickets/:id/print", controller.PrintTicket)       // POST /api/v1/me/tickets/:id/print
		me.POST("/bundles/:id/transfer", controller.TransferBundle) // POST /api/v1/me/bundles/:id/transfer
	}
}
