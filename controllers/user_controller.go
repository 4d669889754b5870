package controllers

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/models"
	"github.com/JWehbe/tikshop_backend/repositories"
	"github.com/JWehbe/tikshop_backend/utils"
	"github.com/JWehbe/tikshop_backend/websocket"
)

// UserController handles profile maintenance and the realtime socket
type UserController struct {
	DB     *mongo.Client
	Hub    *websocket.Hub
	users  *repositories.UserRepository
	logger *log.Logger
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client, hub *websocket.Hub) *UserController {
	return &UserController{
		DB:     db,
		Hub:    hub,
		users:  repositories.NewUserRepository(db),
		logger: log.New(os.Stdout, "[USER] ", log.LstdFlags),
	}
}

// UploadProfilePicture stores a profile image and links it to the caller
func (uc *UserController) UploadProfilePicture(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Profile image is required",
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

	profileURL, err := utils.UploadFileToPath(fileData, fileHeader.Filename, "profiles")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store profile picture",
		})
	}

	if err := uc.users.UpdateProfilePicture(userID, profileURL); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile picture updated successfully",
		Data:    map[string]interface{}{"profilePic": profileURL},
	})
}

// UpdateUsdtAddress sets the caller's payout address
func (uc *UserController) UpdateUsdtAddress(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req struct {
		UsdtID string `json:"usdtId" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}

	usdtID, err := utils.SanitizeUsdtID(req.UsdtID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid USDT address",
		})
	}

	if err := uc.users.UpdateUsdtID(userID, usdtID); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update USDT address",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "USDT address updated successfully",
	})
}

// HandleWebSocket upgrades the connection and registers it with the hub.
// Clients without a valid token connect unauthenticated and must send
// AUTH:<token> before they receive notifications.
func (uc *UserController) HandleWebSocket(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return websocket.HandleWebSocket(c, uc.Hub, primitive.NilObjectID)
	}
	return websocket.HandleWebSocket(c, uc.Hub, userID)
}
