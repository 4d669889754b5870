package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/controllers"
	"github.com/JWehbe/tikshop_backend/middleware"
)

// RegisterAuthRoutes wires the authentication endpoints
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)

	auth := e.Group("/api/auth")
	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)
	auth.POST("/google", authController.GoogleAuth)
	auth.GET("/remembered", authController.GetRememberedUser)
	auth.GET("/validate-token", authController.ValidateToken)

	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
	protected.GET("/me", authController.GetCurrentUser)
}
