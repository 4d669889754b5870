package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/controllers"
	"github.com/JWehbe/tikshop_backend/middleware"
	"github.com/JWehbe/tikshop_backend/websocket"
)

// RegisterRoutes wires every route group onto the Echo instance
func RegisterRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Receipt and profile images
	e.Static("/uploads", "uploads")

	RegisterAuthRoutes(e, db)
	RegisterSellerRoutes(e, db, hub)
	RegisterAdminRoutes(e, db, hub)
	RegisterUserRoutes(e, db, hub)
}

// RegisterUserRoutes wires profile, notification and websocket endpoints
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	userController := controllers.NewUserController(db, hub)
	notificationController := controllers.NewNotificationController(db)

	users := e.Group("/api/users")
	users.Use(middleware.JWTMiddleware())
	users.POST("/profile-picture", userController.UploadProfilePicture)
	users.PUT("/usdt-address", userController.UpdateUsdtAddress)

	notifications := e.Group("/api/notifications")
	notifications.Use(middleware.JWTMiddleware())
	notifications.GET("", notificationController.GetNotifications)
	notifications.PUT("/:id/read", notificationController.MarkNotificationRead)
	notifications.PUT("/read-all", notificationController.MarkAllNotificationsRead)

	// Token optional here: unauthenticated sockets authenticate in-band
	e.GET("/ws", userController.HandleWebSocket)
}
