package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/controllers"
	"github.com/JWehbe/tikshop_backend/middleware"
	"github.com/JWehbe/tikshop_backend/websocket"
)

// RegisterSellerRoutes wires the seller-facing endpoints: deposits, bulk
// payment batches, withdrawals and referrals.
func RegisterSellerRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	depositController := controllers.NewDepositController(db, hub)
	bulkController := controllers.NewBulkPaymentController(db, hub)
	withdrawalController := controllers.NewWithdrawalController(db, hub)
	referralController := controllers.NewReferralController(db)

	deposits := e.Group("/api/deposits")
	deposits.Use(middleware.JWTMiddleware())
	deposits.Use(middleware.RequireSeller())
	deposits.POST("", depositController.CreateDeposit)
	deposits.GET("", depositController.GetMyDeposits)
	deposits.POST("/:id/sold", depositController.MarkDepositSold)
	deposits.POST("/:id/receipt", depositController.SubmitDepositReceipt)

	bulk := e.Group("/api/bulk-payments")
	bulk.Use(middleware.JWTMiddleware())
	bulk.Use(middleware.RequireSeller())
	bulk.POST("", bulkController.CreateBulkPayment)
	bulk.GET("", bulkController.GetMyBulkPayments)
	bulk.POST("/:id/receipt", bulkController.SubmitBulkReceipt)

	withdrawals := e.Group("/api/withdrawals")
	withdrawals.Use(middleware.JWTMiddleware())
	withdrawals.Use(middleware.RequireSeller())
	withdrawals.POST("", withdrawalController.CreateWithdrawal)
	withdrawals.GET("", withdrawalController.GetMyWithdrawals)

	referral := e.Group("/api/referral")
	referral.Use(middleware.JWTMiddleware())
	referral.GET("/code", referralController.GetReferralCode)
	referral.GET("/qr", referralController.GetReferralQRCode)
	referral.GET("/list", referralController.GetReferrals)
}
