// models/bulk_payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BulkDepositPayment statuses
const (
	BulkPaymentStatusPending          = "pending"
	BulkPaymentStatusReceiptSubmitted = "receipt_submitted"
	BulkPaymentStatusApproved         = "approved"
	BulkPaymentStatusRejected         = "rejected"
)

// MaxBulkPaymentDeposits caps how many sold deposits one batch may cover.
const MaxBulkPaymentDeposits = 10

// BulkDepositPayment aggregates up to ten sold deposits of one seller into a
// single payable batch. Approval cascades deposit_paid onto every referenced
// deposit inside one transaction.
type BulkDepositPayment struct {
	ID                 primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	SellerID           primitive.ObjectID   `json:"sellerId" bson:"sellerId"`
	DepositIDs         []primitive.ObjectID `json:"depositIds" bson:"depositIds"`
	TotalDepositAmount float64              `json:"totalDepositAmount" bson:"totalDepositAmount"`
	TotalProfitAmount  float64              `json:"totalProfitAmount" bson:"totalProfitAmount"`
	TotalOrdersCount   int                  `json:"totalOrdersCount" bson:"totalOrdersCount"`
	Status             string               `json:"status" bson:"status"`
	IsWalletPayment    bool                 `json:"isWalletPayment" bson:"isWalletPayment"`
	ReceiptURL         string               `json:"receiptUrl,omitempty" bson:"receiptUrl,omitempty"`
	ReceiptDescription string               `json:"receiptDescription,omitempty" bson:"receiptDescription,omitempty"`
	SubmittedAt        *time.Time           `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
	ProcessedAt        *time.Time           `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	AdminID            *primitive.ObjectID  `json:"adminId,omitempty" bson:"adminId,omitempty"`
	AdminNotes         string               `json:"adminNotes,omitempty" bson:"adminNotes,omitempty"`
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
}

// CreateBulkPaymentRequest is the payload for creating a payment batch.
type CreateBulkPaymentRequest struct {
	DepositIDs      []string `json:"depositIds" validate:"required,min=1,max=10"`
	IsWalletPayment bool     `json:"isWalletPayment"`
}

// ProcessBulkPaymentRequest is the admin approve/reject payload.
type ProcessBulkPaymentRequest struct {
	AdminNotes string `json:"adminNotes,omitempty"`
}
