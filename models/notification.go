package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeReceiptSubmitted  = "receipt_submitted"
	NotificationTypeDepositPaid       = "deposit_paid"
	NotificationTypeBulkApproved      = "bulk_payment_approved"
	NotificationTypeBulkRejected      = "bulk_payment_rejected"
	NotificationTypeWithdrawalRequest = "withdrawal_request"
	NotificationTypeSellerMigrated    = "seller_migrated"
)

// Notification model
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Type      string             `json:"type" bson:"type"`
	Data      interface{}        `json:"data,omitempty" bson:"data"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
