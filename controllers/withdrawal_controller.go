package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
	"github.com/JWehbe/tikshop_backend/security"
	"github.com/JWehbe/tikshop_backend/services"
	"github.com/JWehbe/tikshop_backend/utils"
	"github.com/JWehbe/tikshop_backend/websocket"
)

// WithdrawalController handles seller balance withdrawals. Approval debits
// the balance and triggers a gateway payout to the seller's USDT address.
type WithdrawalController struct {
	DB     *mongo.Client
	Hub    *websocket.Hub
	wallet *services.WalletService
	logger *log.Logger
}

// NewWithdrawalController creates a new withdrawal controller
func NewWithdrawalController(db *mongo.Client, hub *websocket.Hub) *WithdrawalController {
	return &WithdrawalController{
		DB:     db,
		Hub:    hub,
		wallet: services.NewWalletService(),
		logger: log.New(os.Stdout, "[WITHDRAWAL] ", log.LstdFlags),
	}
}

// CreateWithdrawal files a withdrawal request against the caller's balance
func (wc *WithdrawalController) CreateWithdrawal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seller, err := utils.GetUserFromToken(c, wc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}
	if seller.Role != models.RoleSeller {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only sellers can request withdrawals",
		})
	}

	var req models.CreateWithdrawalRequest
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

	usdtID, err := utils.SanitizeUsdtID(req.UsdtID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid USDT address",
		})
	}

	if req.Amount > seller.Balance {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Withdrawal amount exceeds available balance",
		})
	}

	collection := config.GetCollection(wc.DB, "withdrawals")

	// One open request at a time
	pending, err := collection.CountDocuments(ctx, bson.M{
		"sellerId": seller.ID,
		"status":   models.WithdrawalStatusPending,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing requests",
		})
	}
	if pending > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "You already have a pending withdrawal request",
		})
	}

	withdrawal := models.WithdrawalRequest{
		ID:          primitive.NewObjectID(),
		SellerID:    seller.ID,
		Amount:      req.Amount,
		UsdtID:      usdtID,
		Status:      models.WithdrawalStatusPending,
		RequestDate: time.Now(),
	}

	if _, err := collection.InsertOne(ctx, withdrawal); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create withdrawal request",
		})
	}

	// Remember the address for next time
	users := config.GetCollection(wc.DB, "users")
	_, _ = users.UpdateOne(ctx,
		bson.M{"_id": seller.ID},
		bson.M{"$set": bson.M{"usdtId": usdtID, "updatedAt": time.Now()}},
	)

	if seller.AdminID != nil {
		if err := utils.SaveNotification(wc.DB, *seller.AdminID,
			"Withdrawal request",
			seller.FullName+" requested a withdrawal",
			models.NotificationTypeWithdrawalRequest,
			withdrawal,
		); err != nil {
			wc.logger.Printf("Failed to save notification: %v", err)
		}
		if err := wc.Hub.NotifyWithdrawalRequest(*seller.AdminID, withdrawal); err != nil {
			wc.logger.Printf("Websocket notify failed: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Withdrawal request created successfully",
		Data:    withdrawal,
	})
}

// GetMyWithdrawals lists the caller's withdrawal requests
func (wc *WithdrawalController) GetMyWithdrawals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sellerID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	collection := config.GetCollection(wc.DB, "withdrawals")
	cursor, err := collection.Find(ctx, bson.M{"sellerId": sellerID},
		options.Find().SetSort(bson.M{"requestDate": -1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load withdrawals",
		})
	}

	var withdrawals []models.WithdrawalRequest
	if err := cursor.All(ctx, &withdrawals); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode withdrawals",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawals retrieved successfully",
		Data: map[string]interface{}{
			"count":       len(withdrawals),
			"withdrawals": withdrawals,
		},
	})
}

// GetPendingWithdrawals lists open requests for the calling admin's sellers
func (wc *WithdrawalController) GetPendingWithdrawals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	users := config.GetCollection(wc.DB, "users")
	cursor, err := users.Find(ctx, bson.M{"role": models.RoleSeller, "adminId": adminID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load sellers",
		})
	}
	var sellers []models.User
	if err := cursor.All(ctx, &sellers); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode sellers",
		})
	}

	sellerIDs := make([]primitive.ObjectID, 0, len(sellers))
	for _, s := range sellers {
		sellerIDs = append(sellerIDs, s.ID)
	}

	collection := config.GetCollection(wc.DB, "withdrawals")
	wCursor, err := collection.Find(ctx, bson.M{
		"sellerId": bson.M{"$in": sellerIDs},
		"status":   models.WithdrawalStatusPending,
	}, options.Find().SetSort(bson.M{"requestDate": 1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load withdrawals",
		})
	}

	var withdrawals []models.WithdrawalRequest
	if err := wCursor.All(ctx, &withdrawals); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode withdrawals",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending withdrawals retrieved successfully",
		Data: map[string]interface{}{
			"count":       len(withdrawals),
			"withdrawals": withdrawals,
		},
	})
}

// ApproveWithdrawal debits the seller balance inside a transaction, then
// sends the gateway payout. The payout happens after commit: a failed payout
// leaves the request approved with an empty gatewayRef for manual retry,
// rather than risking a double debit.
func (wc *WithdrawalController) ApproveWithdrawal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	withdrawalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid withdrawal id",
		})
	}

	var req models.ProcessWithdrawalRequest
	_ = c.Bind(&req)

	collection := config.GetCollection(wc.DB, "withdrawals")
	users := config.GetCollection(wc.DB, "users")

	// Check the gateway can cover the payout before touching the seller balance
	var pending models.WithdrawalRequest
	if err := collection.FindOne(ctx, bson.M{
		"_id":    withdrawalID,
		"status": models.WithdrawalStatusPending,
	}).Decode(&pending); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Pending withdrawal not found",
		})
	}
	gatewayBalance, err := wc.wallet.GetBalance()
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to check gateway balance: " + err.Error(),
		})
	}
	if gatewayBalance < pending.Amount {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Gateway balance is insufficient for this payout",
		})
	}

	session, err := wc.DB.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start transaction",
		})
	}
	defer session.EndSession(ctx)

	var withdrawal models.WithdrawalRequest
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := collection.FindOne(sc, bson.M{
			"_id":    withdrawalID,
			"status": models.WithdrawalStatusPending,
		}).Decode(&withdrawal); err != nil {
			return nil, err
		}

		var seller models.User
		if err := users.FindOne(sc, bson.M{"_id": withdrawal.SellerID}).Decode(&seller); err != nil {
			return nil, err
		}
		if seller.Balance < withdrawal.Amount {
			return nil, echo.NewHTTPError(http.StatusConflict, "seller balance is below the requested amount")
		}

		now := time.Now()
		if _, err := users.UpdateOne(sc,
			bson.M{"_id": withdrawal.SellerID},
			bson.M{"$inc": bson.M{"balance": -withdrawal.Amount}, "$set": bson.M{"updatedAt": now}},
		); err != nil {
			return nil, err
		}

		if _, err := collection.UpdateOne(sc,
			bson.M{"_id": withdrawalID},
			bson.M{"$set": bson.M{
				"status":        models.WithdrawalStatusApproved,
				"processedDate": now,
				"adminId":       adminID,
				"adminNotes":    req.AdminNotes,
			}},
		); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Failed to approve withdrawal: " + err.Error(),
		})
	}

	externalID, err := security.GenerateExternalID()
	if err == nil {
		ref, payoutErr := wc.wallet.Payout(withdrawal.UsdtID, withdrawal.Amount, externalID)
		if payoutErr != nil {
			wc.logger.Printf("Payout failed for withdrawal %s: %v", withdrawalID.Hex(), payoutErr)
		} else {
			_, _ = collection.UpdateOne(ctx,
				bson.M{"_id": withdrawalID},
				bson.M{"$set": bson.M{"gatewayRef": ref, "externalId": externalID}},
			)
			withdrawal.GatewayRef = ref
			withdrawal.ExternalID = externalID
		}
	}

	withdrawal.Status = models.WithdrawalStatusApproved

	if err := utils.NotifySellerOfApproval(wc.DB, withdrawal.SellerID,
		"Withdrawal approved",
		"Your withdrawal request was approved and the payout is on its way.",
		models.NotificationTypeWithdrawalRequest,
	); err != nil {
		wc.logger.Printf("Failed to notify seller: %v", err)
	}
	if err := wc.Hub.NotifyWithdrawalResult(withdrawal.SellerID, withdrawal); err != nil {
		wc.logger.Printf("Websocket notify failed: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal approved successfully",
		Data:    withdrawal,
	})
}

// RejectWithdrawal declines a pending request, leaving the balance untouched
func (wc *WithdrawalController) RejectWithdrawal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	withdrawalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid withdrawal id",
		})
	}

	var req models.ProcessWithdrawalRequest
	_ = c.Bind(&req)
	if req.AdminNotes == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Rejection requires admin notes",
		})
	}

	collection := config.GetCollection(wc.DB, "withdrawals")
	now := time.Now()
	res := collection.FindOneAndUpdate(ctx,
		bson.M{"_id": withdrawalID, "status": models.WithdrawalStatusPending},
		bson.M{"$set": bson.M{
			"status":        models.WithdrawalStatusRejected,
			"processedDate": now,
			"adminId":       adminID,
			"adminNotes":    req.AdminNotes,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var withdrawal models.WithdrawalRequest
	if err := res.Decode(&withdrawal); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Withdrawal not found or already processed",
		})
	}

	if err := wc.Hub.NotifyWithdrawalResult(withdrawal.SellerID, withdrawal); err != nil {
		wc.logger.Printf("Websocket notify failed: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal rejected",
		Data:    withdrawal,
	})
}

// GetWithdrawalPayoutStatus polls the gateway for the payout state of an
// approved withdrawal.
func (wc *WithdrawalController) GetWithdrawalPayoutStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	withdrawalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid withdrawal id",
		})
	}

	collection := config.GetCollection(wc.DB, "withdrawals")

	var withdrawal models.WithdrawalRequest
	if err := collection.FindOne(ctx, bson.M{
		"_id":    withdrawalID,
		"status": models.WithdrawalStatusApproved,
	}).Decode(&withdrawal); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Approved withdrawal not found",
		})
	}
	if withdrawal.ExternalID == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "No payout was dispatched for this withdrawal",
		})
	}

	status, ref, err := wc.wallet.GetPayoutStatus(withdrawal.ExternalID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to query payout status: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payout status retrieved",
		Data: map[string]interface{}{
			"withdrawalId": withdrawal.ID,
			"payoutStatus": status,
			"gatewayRef":   ref,
		},
	})
}
