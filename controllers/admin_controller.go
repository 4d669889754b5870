package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
	"github.com/JWehbe/tikshop_backend/repositories"
	"github.com/JWehbe/tikshop_backend/services"
	"github.com/JWehbe/tikshop_backend/utils"
	"github.com/JWehbe/tikshop_backend/websocket"
)

// AdminController covers admin account management, seller oversight and
// seller migration between admins.
type AdminController struct {
	DB        *mongo.Client
	Hub       *websocket.Hub
	migration *services.MigrationService
	users     *repositories.UserRepository
	logger    *log.Logger
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client, hub *websocket.Hub) *AdminController {
	return &AdminController{
		DB:        db,
		Hub:       hub,
		migration: services.NewMigrationService(db),
		users:     repositories.NewUserRepository(db),
		logger:    log.New(os.Stdout, "[ADMIN] ", log.LstdFlags),
	}
}

// CreateAdminRequest is the superadmin payload for creating an admin account
type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
}

// CreateAdmin provisions a new admin account with its ADM- referral code
func (ac *AdminController) CreateAdmin(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req CreateAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	collection := config.GetCollection(ac.DB, "users")
	count, err := collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	referralCode, err := utils.GenerateAdminReferralCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate referral code",
		})
	}

	admin := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Password:     string(hashedPassword),
		FullName:     utils.SanitizeInput(req.FullName),
		Role:         models.RoleAdmin,
		IsActive:     true,
		ReferralCode: referralCode,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if _, err := collection.InsertOne(ctx, admin); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create admin",
		})
	}

	admin.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Admin created successfully",
		Data:    admin,
	})
}

// GetMySellers lists the sellers assigned to the calling admin
func (ac *AdminController) GetMySellers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	sellers, err := ac.users.SellersOfAdmin(ctx, adminID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load sellers",
		})
	}
	for i := range sellers {
		sellers[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sellers retrieved successfully",
		Data: map[string]interface{}{
			"count":   len(sellers),
			"sellers": sellers,
		},
	})
}

// GetSellerDetails returns one seller's profile, restricted to the admin
// the seller is assigned to.
func (ac *AdminController) GetSellerDetails(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	sellerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid seller id",
		})
	}

	seller, err := ac.users.FindByID(ctx, sellerID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Seller not found",
		})
	}
	if seller.AdminID == nil || *seller.AdminID != adminID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Seller is not assigned to you",
		})
	}

	seller.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Seller retrieved successfully",
		Data:    seller,
	})
}

// MigrateSeller reassigns a seller to a different admin. The seller record,
// their pending deposits and the audit log all move in one transaction.
func (ac *AdminController) MigrateSeller(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	performedBy, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.MigrateSellerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	sellerID, err := primitive.ObjectIDFromHex(req.SellerID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid seller id",
		})
	}
	newAdminID, err := primitive.ObjectIDFromHex(req.NewAdminID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid admin id",
		})
	}

	result, err := ac.migration.MigrateSeller(ctx, sellerID, newAdminID, performedBy, req.Reason)
	if err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Migration failed: " + err.Error(),
		})
	}

	if err := utils.SaveNotification(ac.DB, sellerID,
		"Account reassigned",
		"Your account has been assigned to a new admin.",
		models.NotificationTypeSellerMigrated,
		result,
	); err != nil {
		ac.logger.Printf("Failed to save notification: %v", err)
	}
	if err := ac.Hub.NotifySellerMigrated(sellerID, result); err != nil {
		ac.logger.Printf("Websocket notify failed: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: result.Message,
		Data:    result,
	})
}

// GetMigrationLogs lists the audit trail, newest first
func (ac *AdminController) GetMigrationLogs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if raw := c.QueryParam("sellerId"); raw != "" {
		sellerID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid seller id",
			})
		}
		filter["sellerId"] = sellerID
	}

	collection := config.GetCollection(ac.DB, "migration_logs")
	cursor, err := collection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"migratedAt": -1}).SetLimit(100))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load migration logs",
		})
	}

	var logs []models.MigrationLog
	if err := cursor.All(ctx, &logs); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode migration logs",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Migration logs retrieved successfully",
		Data: map[string]interface{}{
			"count": len(logs),
			"logs":  logs,
		},
	})
}

// GetDashboardStats summarizes the calling admin's queue: pending receipts,
// open withdrawals and outstanding deposit totals.
func (ac *AdminController) GetDashboardStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	cacheKey := dashboardCacheKey(adminID)
	if rdb := config.GetRedisClient(); rdb != nil {
		if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var stats map[string]interface{}
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return c.JSON(http.StatusOK, models.Response{
					Status:  http.StatusOK,
					Message: "Dashboard stats retrieved successfully",
					Data:    stats,
				})
			}
		}
	}

	sellers, err := ac.users.SellersOfAdmin(ctx, adminID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load sellers",
		})
	}
	sellerIDs := make([]primitive.ObjectID, 0, len(sellers))
	for _, s := range sellers {
		sellerIDs = append(sellerIDs, s.ID)
	}

	deposits := config.GetCollection(ac.DB, "pending_deposits")
	withdrawals := config.GetCollection(ac.DB, "withdrawals")
	bulkPayments := config.GetCollection(ac.DB, "bulk_deposit_payments")

	pendingReceipts, err := deposits.CountDocuments(ctx, bson.M{
		"adminId": adminID,
		"status":  models.DepositStatusReceiptSubmitted,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count pending receipts",
		})
	}

	pendingBulk, err := bulkPayments.CountDocuments(ctx, bson.M{
		"sellerId": bson.M{"$in": sellerIDs},
		"status":   models.BulkPaymentStatusReceiptSubmitted,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count pending bulk payments",
		})
	}

	pendingWithdrawals, err := withdrawals.CountDocuments(ctx, bson.M{
		"sellerId": bson.M{"$in": sellerIDs},
		"status":   models.WithdrawalStatusPending,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count pending withdrawals",
		})
	}

	// Outstanding deposit money across this admin's sellers
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"adminId": adminID,
			"status":  bson.M{"$ne": models.DepositStatusPaid},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalDeposit": bson.M{"$sum": "$totalDepositRequired"},
			"totalProfit":  bson.M{"$sum": "$pendingProfitAmount"},
		}}},
	}
	aggCursor, err := deposits.Aggregate(ctx, pipeline)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate deposits",
		})
	}
	var totals []struct {
		TotalDeposit float64 `bson:"totalDeposit"`
		TotalProfit  float64 `bson:"totalProfit"`
	}
	if err := aggCursor.All(ctx, &totals); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode deposit totals",
		})
	}
	var totalDeposit, totalProfit float64
	if len(totals) > 0 {
		totalDeposit = totals[0].TotalDeposit
		totalProfit = totals[0].TotalProfit
	}

	stats := map[string]interface{}{
		"sellerCount":             len(sellers),
		"pendingReceipts":         pendingReceipts,
		"pendingBulkPayments":     pendingBulk,
		"pendingWithdrawals":      pendingWithdrawals,
		"outstandingDepositTotal": totalDeposit,
		"outstandingProfitTotal":  totalProfit,
	}

	if rdb := config.GetRedisClient(); rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			rdb.Set(ctx, cacheKey, payload, dashboardCacheTTL)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats retrieved successfully",
		Data:    stats,
	})
}

const dashboardCacheTTL = time.Minute

func dashboardCacheKey(adminID primitive.ObjectID) string {
	return "dashboard:stats:" + adminID.Hex()
}
