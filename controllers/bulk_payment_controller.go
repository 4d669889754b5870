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

// BulkPaymentController exposes the bulk payment batch lifecycle: sellers
// create batches from sold deposits and attach one receipt covering all of
// them; admins approve or reject the whole batch.
type BulkPaymentController struct {
	DB      *mongo.Client
	Hub     *websocket.Hub
	service *services.BulkPaymentService
	logger  *log.Logger
}

// NewBulkPaymentController creates a new bulk payment controller
func NewBulkPaymentController(db *mongo.Client, hub *websocket.Hub) *BulkPaymentController {
	return &BulkPaymentController{
		DB:      db,
		Hub:     hub,
		service: services.NewBulkPaymentService(db),
		logger:  log.New(os.Stdout, "[BULK-PAYMENT] ", log.LstdFlags),
	}
}

// CreateBulkPayment groups up to ten of the caller's sold deposits into one
// batch. Wallet batches settle immediately from the seller balance.
func (bc *BulkPaymentController) CreateBulkPayment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sellerID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.CreateBulkPaymentRequest
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

	depositIDs := make([]primitive.ObjectID, 0, len(req.DepositIDs))
	for _, raw := range req.DepositIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid deposit id: " + raw,
			})
		}
		depositIDs = append(depositIDs, id)
	}

	batch, err := bc.service.CreateBatch(ctx, sellerID, depositIDs, req.IsWalletPayment)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	message := "Bulk payment created, submit a receipt to continue"
	if batch.Status == models.BulkPaymentStatusApproved {
		message = "Bulk payment settled from wallet balance"
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: message,
		Data:    batch,
	})
}

// SubmitBulkReceipt uploads the receipt image covering a whole batch
func (bc *BulkPaymentController) SubmitBulkReceipt(c echo.Context) error {
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

	batchID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid bulk payment id",
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
	if _, err := utils.GenerateImageThumbnail(fileData, fileHeader.Filename); err != nil {
		bc.logger.Printf("Thumbnail generation failed for %s: %v", fileHeader.Filename, err)
	}

	description := c.FormValue("description")

	batch, err := bc.service.SubmitReceipt(ctx, batchID, sellerID, receiptURL, description)
	if err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
		})
	}

	bc.notifyBatchAdmin(ctx, batch, sellerID)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Receipt submitted successfully",
		Data:    batch,
	})
}

func (bc *BulkPaymentController) notifyBatchAdmin(ctx context.Context, batch *models.BulkDepositPayment, sellerID primitive.ObjectID) {
	users := config.GetCollection(bc.DB, "users")
	var seller models.User
	if err := users.FindOne(ctx, bson.M{"_id": sellerID}).Decode(&seller); err != nil || seller.AdminID == nil {
		return
	}
	if err := utils.NotifyAdminOfReceipt(bc.DB, *seller.AdminID, seller.FullName, batch.TotalDepositAmount, true); err != nil {
		bc.logger.Printf("Failed to notify admin: %v", err)
	}
	if err := bc.Hub.NotifyReceiptSubmitted(*seller.AdminID, batch); err != nil {
		bc.logger.Printf("Websocket notify failed: %v", err)
	}
}

// GetMyBulkPayments lists the caller's payment batches
func (bc *BulkPaymentController) GetMyBulkPayments(c echo.Context) error {
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

	collection := config.GetCollection(bc.DB, "bulk_deposit_payments")
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load bulk payments",
		})
	}

	var batches []models.BulkDepositPayment
	if err := cursor.All(ctx, &batches); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode bulk payments",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bulk payments retrieved successfully",
		Data: map[string]interface{}{
			"count":        len(batches),
			"bulkPayments": batches,
		},
	})
}

// GetPendingBulkPayments lists batches awaiting review for the calling
// admin's sellers
func (bc *BulkPaymentController) GetPendingBulkPayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	users := config.GetCollection(bc.DB, "users")
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

	collection := config.GetCollection(bc.DB, "bulk_deposit_payments")
	batchCursor, err := collection.Find(ctx, bson.M{
		"sellerId": bson.M{"$in": sellerIDs},
		"status":   models.BulkPaymentStatusReceiptSubmitted,
	}, options.Find().SetSort(bson.M{"submittedAt": 1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load bulk payments",
		})
	}

	var batches []models.BulkDepositPayment
	if err := batchCursor.All(ctx, &batches); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode bulk payments",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending bulk payments retrieved successfully",
		Data: map[string]interface{}{
			"count":        len(batches),
			"bulkPayments": batches,
		},
	})
}

// ApproveBulkPayment approves a submitted batch: every deposit in it is
// marked paid and the seller's profit credited, in one transaction.
func (bc *BulkPaymentController) ApproveBulkPayment(c echo.Context) error {
	return bc.processBulkPayment(c, true)
}

// RejectBulkPayment rejects a submitted batch, leaving its deposits payable
// in a future batch.
func (bc *BulkPaymentController) RejectBulkPayment(c echo.Context) error {
	return bc.processBulkPayment(c, false)
}

func (bc *BulkPaymentController) processBulkPayment(c echo.Context, approve bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	batchID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid bulk payment id",
		})
	}

	var req models.ProcessBulkPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}

	var batch *models.BulkDepositPayment
	if approve {
		batch, err = bc.service.Approve(ctx, batchID, adminID, req.AdminNotes)
	} else {
		batch, err = bc.service.Reject(ctx, batchID, adminID, req.AdminNotes)
	}
	if err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
		})
	}

	title := "Bulk payment approved"
	message := "Your bulk payment was approved and your profit has been credited."
	notifType := models.NotificationTypeBulkApproved
	if !approve {
		title = "Bulk payment rejected"
		message = "Your bulk payment was rejected: " + req.AdminNotes
		notifType = models.NotificationTypeBulkRejected
	}
	if err := utils.NotifySellerOfApproval(bc.DB, batch.SellerID, title, message, notifType); err != nil {
		bc.logger.Printf("Failed to notify seller: %v", err)
	}
	if err := bc.Hub.NotifyBulkPaymentResult(batch.SellerID, batch); err != nil {
		bc.logger.Printf("Websocket notify failed: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: title,
		Data:    batch,
	})
}
