// models/receipt.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Receipt statuses
const (
	ReceiptStatusPending  = "pending"
	ReceiptStatusApproved = "approved"
	ReceiptStatusRejected = "rejected"
)

// Receipt is one payment proof stored in receipts_v2. A receipt covers either
// a single deposit or a bulk batch; wallet payments are recorded here too so
// the diagnostic tooling can audit them.
type Receipt struct {
	ID                primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	SellerID          primitive.ObjectID   `json:"sellerId" bson:"sellerId"`
	Amount            float64              `json:"amount" bson:"amount"`
	IsBulkPayment     bool                 `json:"isBulkPayment" bson:"isBulkPayment"`
	IsWalletPayment   bool                 `json:"isWalletPayment" bson:"isWalletPayment"`
	BulkPaymentID     *primitive.ObjectID  `json:"bulkPaymentId,omitempty" bson:"bulkPaymentId,omitempty"`
	PendingDepositIDs []primitive.ObjectID `json:"pendingDepositIds" bson:"pendingDepositIds"`
	Status            string               `json:"status" bson:"status"`
	ReceiptURL        string               `json:"receiptUrl,omitempty" bson:"receiptUrl,omitempty"`
	ThumbnailURL      string               `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	Description       string               `json:"description,omitempty" bson:"description,omitempty"`
	SubmittedAt       time.Time            `json:"submittedAt" bson:"submittedAt"`
}
