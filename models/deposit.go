// models/deposit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingDeposit statuses. Transitions are linear: pending ->
// receipt_submitted -> deposit_paid. The sold flag is set independently once
// the underlying order sells.
const (
	DepositStatusPending          = "pending"
	DepositStatusReceiptSubmitted = "receipt_submitted"
	DepositStatusPaid             = "deposit_paid"
)

// PendingDeposit is a seller's pre-payment obligation tied to one listed stock
// unit. The listing price is always derived from the cost with a fixed 30%
// markup; records that drifted from that rule are repaired by the
// reconciliation service.
type PendingDeposit struct {
	ID                   primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	SellerID             primitive.ObjectID  `json:"sellerId" bson:"sellerId"`
	AdminID              *primitive.ObjectID `json:"adminId,omitempty" bson:"adminId,omitempty"`
	ProductID            string              `json:"productId" bson:"productId"`
	ProductName          string              `json:"productName" bson:"productName"`
	Status               string              `json:"status" bson:"status"`
	Sold                 bool                `json:"sold" bson:"sold"`
	SaleDate             *time.Time          `json:"saleDate,omitempty" bson:"saleDate,omitempty"`
	OriginalCostPerUnit  float64             `json:"originalCostPerUnit" bson:"originalCostPerUnit"`
	QuantityListed       int                 `json:"quantityListed" bson:"quantityListed"`
	ListingPrice         float64             `json:"listingPrice" bson:"listingPrice"`
	TotalDepositRequired float64             `json:"totalDepositRequired" bson:"totalDepositRequired"`
	PendingProfitAmount  float64             `json:"pendingProfitAmount" bson:"pendingProfitAmount"`
	ReceiptURL           string              `json:"receiptUrl,omitempty" bson:"receiptUrl,omitempty"`
	CreatedAt            time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CreateDepositRequest is the payload for listing a stock unit for sale.
type CreateDepositRequest struct {
	ProductID           string  `json:"productId" validate:"required"`
	ProductName         string  `json:"productName" validate:"required"`
	OriginalCostPerUnit float64 `json:"originalCostPerUnit" validate:"required,gt=0"`
	QuantityListed      int     `json:"quantityListed" validate:"required,gt=0"`
}

// SubmitReceiptRequest is the multipart form payload for receipt submission.
type SubmitReceiptRequest struct {
	Description string `form:"description"`
}
