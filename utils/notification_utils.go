package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"
)

// SaveNotification saves a notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email via the configured SMTP server. Failures
// are logged, not fatal: email is best-effort alongside in-app notifications.
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}
	return nil
}

// NotifyAdminOfReceipt notifies the seller's admin by email and in-app
// notification when a payment receipt is submitted.
func NotifyAdminOfReceipt(db *mongo.Client, adminID primitive.ObjectID, sellerName string, amount float64, isBulk bool) error {
	var admin models.User
	err := config.GetCollection(db, "users").FindOne(context.Background(), bson.M{"_id": adminID}).Decode(&admin)
	if err != nil {
		return fmt.Errorf("failed to find admin: %w", err)
	}

	kind := "deposit"
	if isBulk {
		kind = "bulk deposit"
	}
	subject := "New Payment Receipt Submitted"
	body := fmt.Sprintf("Dear %s,\n\nSeller %s has submitted a %s payment receipt for %.2f USDT.\nPlease review it in the admin dashboard.\n\nTikShop", admin.FullName, sellerName, kind, amount)
	_ = SendEmail(admin.Email, subject, body)

	notifMsg := fmt.Sprintf("Seller %s submitted a %s receipt for %.2f USDT.", sellerName, kind, amount)
	return SaveNotification(db, adminID, subject, notifMsg, models.NotificationTypeReceiptSubmitted, map[string]interface{}{
		"sellerName":    sellerName,
		"amount":        amount,
		"isBulkPayment": isBulk,
	})
}

// NotifySellerOfApproval notifies a seller when a payment batch or withdrawal
// is processed, via push (if an FCM token is registered), email and in-app.
func NotifySellerOfApproval(db *mongo.Client, sellerID primitive.ObjectID, title, message, notifType string) error {
	var seller models.User
	err := config.GetCollection(db, "users").FindOne(context.Background(), bson.M{"_id": sellerID}).Decode(&seller)
	if err != nil {
		return fmt.Errorf("failed to find seller: %w", err)
	}

	if seller.FCMToken != "" {
		if err := sendPushNotification(seller.FCMToken, title, message); err != nil {
			log.Printf("Failed to send push notification to seller %s: %v", sellerID.Hex(), err)
		}
	}

	_ = SendEmail(seller.Email, title, fmt.Sprintf("Dear %s,\n\n%s\n\nTikShop", seller.FullName, message))

	return SaveNotification(db, sellerID, title, message, notifType, nil)
}

// sendPushNotification delivers a push message through Firebase Cloud Messaging
func sendPushNotification(fcmToken, title, body string) error {
	if config.FirebaseApp == nil {
		return fmt.Errorf("firebase app not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to get messaging client: %w", err)
	}

	message := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}

	_, err = client.Send(ctx, message)
	return err
}
