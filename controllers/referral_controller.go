package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
	"github.com/JWehbe/tikshop_backend/utils"
)

// ReferralController handles referral codes and signup links
type ReferralController struct {
	DB *mongo.Client
}

// NewReferralController creates a new referral controller
func NewReferralController(db *mongo.Client) *ReferralController {
	return &ReferralController{DB: db}
}

func signupBaseURL() string {
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		return url
	}
	return "https://tikshop.store"
}

// GetReferralCode returns the caller's referral code, generating one on first
// use. Sellers get SLR- codes, admins ADM- codes.
func (rc *ReferralController) GetReferralCode(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	if user.Role != models.RoleSeller && !user.IsAdminRole() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only sellers and admins have referral codes",
		})
	}

	if user.ReferralCode == "" {
		var code string
		if user.IsAdminRole() {
			code, err = utils.GenerateAdminReferralCode()
		} else {
			code, err = utils.GenerateSellerReferralCode()
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to generate referral code",
			})
		}

		collection := config.GetCollection(rc.DB, "users")
		_, err = collection.UpdateOne(ctx,
			bson.M{"_id": user.ID, "referralCode": bson.M{"$in": bson.A{nil, ""}}},
			bson.M{"$set": bson.M{"referralCode": code, "updatedAt": time.Now()}},
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to save referral code",
			})
		}
		// Re-read in case a concurrent request won the race
		_ = collection.FindOne(ctx, bson.M{"_id": user.ID}).Decode(user)
		if user.ReferralCode == "" {
			user.ReferralCode = code
		}
	}

	signupLink := fmt.Sprintf("%s/signup?ref=%s", signupBaseURL(), user.ReferralCode)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral code retrieved successfully",
		Data: map[string]interface{}{
			"referralCode":  user.ReferralCode,
			"signupLink":    signupLink,
			"referralCount": len(user.Referrals),
		},
	})
}

// GetReferralQRCode renders the caller's signup link as a QR code PNG,
// returned base64-encoded
func (rc *ReferralController) GetReferralQRCode(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	if user.ReferralCode == "" {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No referral code yet, request one first",
		})
	}

	signupLink := fmt.Sprintf("%s/signup?ref=%s", signupBaseURL(), user.ReferralCode)

	qrCode, err := qr.Encode(signupLink, qr.M, qr.Auto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}
	qrCode, err = barcode.Scale(qrCode, 256, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scale QR code",
		})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode QR code",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "QR code generated successfully",
		Data: map[string]interface{}{
			"qrCode":     base64.StdEncoding.EncodeToString(buf.Bytes()),
			"signupLink": signupLink,
		},
	})
}

// GetReferrals lists the accounts the caller referred
func (rc *ReferralController) GetReferrals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	collection := config.GetCollection(rc.DB, "users")
	cursor, err := collection.Find(ctx, bson.M{"referredBy": user.ID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load referrals",
		})
	}

	var referrals []models.User
	if err := cursor.All(ctx, &referrals); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode referrals",
		})
	}
	for i := range referrals {
		referrals[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referrals retrieved successfully",
		Data: map[string]interface{}{
			"count":     len(referrals),
			"referrals": referrals,
		},
	})
}
