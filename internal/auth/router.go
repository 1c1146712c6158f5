package auth

import (
	"boletamaster/internal/shared/config"
	"boletamaster/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	group := rg.Group("/auth")
	{
		group.POST("/register", controller.Register)    // POST /api/v1/auth/register
		group.POST("/login", controller.Login)          // POST /api/v1/auth/login
		group.POST("/refresh", controller.RefreshToken) // POST /api/v1/auth/refresh
		group.POST("/logout", controller.Logout)        // POST /api/v1/auth/logout
	}

	session := group.Group("")
	session.Use(middleware.JWTAuthWithConfig(cfg))
	{
		session.PUT("/change-password", controller.ChangePassword) // PUT /api/v1/auth/change-password
		session.GET("/me", controller.GetMe)                       // GET /api/v1/auth/me
	}
}
