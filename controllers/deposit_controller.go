package controllers

import (
	"context"
	"io"
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

// DepositController handles pending deposits: the per-sale obligations sellers
// settle before their profit is released.
type DepositController struct {
	DB     *mongo.Client
	Hub    *websocket.Hub
	logger *log.Logger
}

// NewDepositController creates a new deposit controller
func NewDepositController(db *mongo.Client, hub *websocket.Hub) *DepositController {
	return &DepositController{
		DB:     db,
		Hub:    hub,
		logger: log.New(os.Stdout, "[DEPOSIT] ", log.LstdFlags),
	}
}

// CreateDeposit records a deposit obligation for a seller's listed product.
// Listing price and deposit amounts derive from the cost so the stored
// financials always agree with the markup rule.
func (dc *DepositController) CreateDeposit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateDepositRequest
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

	seller, err := utils.GetUserFromToken(c, dc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}
	if seller.Role != models.RoleSeller {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only sellers can list products",
		})
	}

	fin := services.ComputeExpectedFinancials(req.OriginalCostPerUnit, req.QuantityListed)

	deposit := models.PendingDeposit{
		ID:                   primitive.NewObjectID(),
		SellerID:             seller.ID,
		AdminID:              seller.AdminID,
		ProductID:            req.ProductID,
		ProductName:          req.ProductName,
		Status:               models.DepositStatusPending,
		OriginalCostPerUnit:  req.OriginalCostPerUnit,
		QuantityListed:       req.QuantityListed,
		ListingPrice:         fin.ListingPrice,
		TotalDepositRequired: fin.TotalDepositRequired,
		PendingProfitAmount:  fin.PendingProfitAmount,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	collection := config.GetCollection(dc.DB, "pending_deposits")
	if _, err := collection.InsertOne(ctx, deposit); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create deposit",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Deposit created successfully",
		Data:    deposit,
	})
}

// MarkDepositSold flags a deposit's product as sold, which makes the deposit
// eligible for payment batches.
func (dc *DepositController) MarkDepositSold(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	depositID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deposit id",
		})
	}

	collection := config.GetCollection(dc.DB, "pending_deposits")
	now := time.Now()
	res, err := collection.UpdateOne(ctx,
		bson.M{"_id": depositID, "status": models.DepositStatusPending, "sold": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"sold": true, "saleDate": now, "updatedAt": now}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update deposit",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Deposit not found or already sold",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposit marked as sold",
	})
}

// GetMyDeposits lists the caller's deposits, optionally filtered by status
// and sold flag
func (dc *DepositController) GetMyDeposits(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sellerID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	filter := bson.M{"sellerId": sellerID}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}
	if sold := c.QueryParam("sold"); sold == "true" {
		filter["sold"] = true
	} else if sold == "false" {
		filter["sold"] = bson.M{"$ne": true}
	}

	collection := config.GetCollection(dc.DB, "pending_deposits")
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load deposits",
		})
	}

	var deposits []models.PendingDeposit
	if err := cursor.All(ctx, &deposits); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode deposits",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposits retrieved successfully",
		Data: map[string]interface{}{
			"count":    len(deposits),
			"deposits": deposits,
		},
	})
}

// GetAdminDeposits lists deposits for the sellers assigned to the calling admin
func (dc *DepositController) GetAdminDeposits(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	filter := bson.M{"adminId": adminID}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	collection := config.GetCollection(dc.DB, "pending_deposits")
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load deposits",
		})
	}

	var deposits []models.PendingDeposit
	if err := cursor.All(ctx, &deposits); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode deposits",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposits retrieved successfully",
		Data: map[string]interface{}{
			"count":    len(deposits),
			"deposits": deposits,
		},
	})
}

// SubmitDepositReceipt uploads a payment receipt image for one deposit and
// moves it out of the payable pool while the admin reviews it.
func (dc *DepositController) SubmitDepositReceipt(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !security.ValidateUploadContentType(c.Request().Header.Get(echo.HeaderContentType)) {
		return c.JSON(http.StatusUnsupportedMediaType, models.Response{
			Status:  http.StatusUnsupportedMediaType,
			Message: "Receipt uploads must be multipart form data",
		})
	}

	sellerID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	depositID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deposit id",
		})
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Receipt image is required",
		})
	}
	if err := utils.ValidateImageFile(fileHeader.Filename); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	fileData, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}

	receiptURL, err := utils.UploadFileToPath(fileData, fileHeader.Filename, "receipts")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store receipt",
		})
	}

	thumbnailURL, err := utils.GenerateImageThumbnail(fileData, fileHeader.Filename)
	if err != nil {
		dc.logger.Printf("Thumbnail generation failed for %s: %v", fileHeader.Filename, err)
	}

	collection := config.GetCollection(dc.DB, "pending_deposits")

	var deposit models.PendingDeposit
	err = collection.FindOne(ctx, bson.M{"_id": depositID, "sellerId": sellerID}).Decode(&deposit)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Deposit not found",
		})
	}
	if deposit.Status != models.DepositStatusPending {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Deposit is not awaiting payment",
		})
	}

	now := time.Now()
	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": depositID},
		bson.M{"$set": bson.M{
			"status":     models.DepositStatusReceiptSubmitted,
			"receiptUrl": receiptURL,
			"updatedAt":  now,
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update deposit",
		})
	}

	receipt := models.Receipt{
		ID:                primitive.NewObjectID(),
		SellerID:          sellerID,
		Amount:            deposit.TotalDepositRequired,
		PendingDepositIDs: []primitive.ObjectID{depositID},
		Status:            models.ReceiptStatusPending,
		ReceiptURL:        receiptURL,
		ThumbnailURL:      thumbnailURL,
		SubmittedAt:       now,
	}
	receiptColl := config.GetCollection(dc.DB, "receipts_v2")
	if _, err := receiptColl.InsertOne(ctx, receipt); err != nil {
		dc.logger.Printf("Failed to record receipt for deposit %s: %v", depositID.Hex(), err)
	}

	if deposit.AdminID != nil {
		seller, _ := utils.GetUserFromToken(c, dc.DB)
		sellerName := ""
		if seller != nil {
			sellerName = seller.FullName
		}
		if err := utils.NotifyAdminOfReceipt(dc.DB, *deposit.AdminID, sellerName, deposit.TotalDepositRequired, false); err != nil {
			dc.logger.Printf("Failed to notify admin: %v", err)
		}
		if err := dc.Hub.NotifyReceiptSubmitted(*deposit.AdminID, receipt); err != nil {
			dc.logger.Printf("Websocket notify failed: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Receipt submitted successfully",
		Data: map[string]interface{}{
			"receiptUrl":   receiptURL,
			"thumbnailUrl": thumbnailURL,
		},
	})
}

// ApproveDepositReceipt marks a single-deposit receipt approved and the
// deposit paid, crediting the seller's profit.
func (dc *DepositController) ApproveDepositReceipt(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	depositID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deposit id",
		})
	}

	collection := config.GetCollection(dc.DB, "pending_deposits")
	users := config.GetCollection(dc.DB, "users")
	receiptColl := config.GetCollection(dc.DB, "receipts_v2")

	session, err := dc.DB.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start transaction",
		})
	}
	defer session.EndSession(ctx)

	var deposit models.PendingDeposit
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := collection.FindOne(sc, bson.M{
			"_id":     depositID,
			"adminId": adminID,
			"status":  models.DepositStatusReceiptSubmitted,
		}).Decode(&deposit); err != nil {
			return nil, err
		}

		now := time.Now()
		if _, err := collection.UpdateOne(sc,
			bson.M{"_id": depositID},
			bson.M{"$set": bson.M{"status": models.DepositStatusPaid, "updatedAt": now}},
		); err != nil {
			return nil, err
		}

		if credit := services.ApprovalCredit(&deposit); credit > 0 {
			if _, err := users.UpdateOne(sc,
				bson.M{"_id": deposit.SellerID},
				bson.M{"$inc": bson.M{"balance": credit}, "$set": bson.M{"updatedAt": now}},
			); err != nil {
				return nil, err
			}
		}

		if _, err := receiptColl.UpdateMany(sc,
			bson.M{"pendingDepositIds": depositID, "isBulkPayment": false},
			bson.M{"$set": bson.M{"status": models.ReceiptStatusApproved}},
		); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Failed to approve deposit: " + err.Error(),
		})
	}

	msg := "Your deposit payment was approved."
	if deposit.Sold {
		msg = "Your deposit payment was approved and your profit has been credited."
	}
	if err := utils.NotifySellerOfApproval(dc.DB, deposit.SellerID,
		"Deposit approved", msg,
		models.NotificationTypeDepositPaid,
	); err != nil {
		dc.logger.Printf("Failed to notify seller: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposit approved successfully",
	})
}
