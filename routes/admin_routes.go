package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/controllers"
	"github.com/JWehbe/tikshop_backend/middleware"
	"github.com/JWehbe/tikshop_backend/websocket"
)

// RegisterAdminRoutes wires the admin review queues, seller oversight and
// migration endpoints.
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	adminController := controllers.NewAdminController(db, hub)
	depositController := controllers.NewDepositController(db, hub)
	bulkController := controllers.NewBulkPaymentController(db, hub)
	withdrawalController := controllers.NewWithdrawalController(db, hub)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireAdmin())

	admin.GET("/sellers", adminController.GetMySellers)
	admin.GET("/sellers/:id", adminController.GetSellerDetails)
	admin.GET("/dashboard", adminController.GetDashboardStats)

	admin.GET("/deposits", depositController.GetAdminDeposits)
	admin.POST("/deposits/:id/approve", depositController.ApproveDepositReceipt)

	admin.GET("/bulk-payments", bulkController.GetPendingBulkPayments)
	admin.POST("/bulk-payments/:id/approve", bulkController.ApproveBulkPayment)
	admin.POST("/bulk-payments/:id/reject", bulkController.RejectBulkPayment)

	admin.GET("/withdrawals", withdrawalController.GetPendingWithdrawals)
	admin.POST("/withdrawals/:id/approve", withdrawalController.ApproveWithdrawal)
	admin.POST("/withdrawals/:id/reject", withdrawalController.RejectWithdrawal)
	admin.GET("/withdrawals/:id/payout-status", withdrawalController.GetWithdrawalPayoutStatus)

	admin.POST("/migrate-seller", adminController.MigrateSeller)
	admin.GET("/migration-logs", adminController.GetMigrationLogs)

	superadmin := e.Group("/api/superadmin")
	superadmin.Use(middleware.JWTMiddleware())
	superadmin.Use(middleware.RequireSuperadmin())
	superadmin.POST("/admins", adminController.CreateAdmin)
}
