package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal statuses
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

type WithdrawalRequest struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SellerID      primitive.ObjectID  `bson:"sellerId" json:"sellerId"`
	Amount        float64             `bson:"amount" json:"amount"`
	UsdtID        string              `bson:"usdtId" json:"usdtId"`
	Status        string              `bson:"status" json:"status"`
	RequestDate   time.Time           `bson:"requestDate" json:"requestDate"`
	ProcessedDate *time.Time          `bson:"processedDate,omitempty" json:"processedDate,omitempty"`
	AdminID       *primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	AdminNotes    string              `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	GatewayRef    string              `bson:"gatewayRef,omitempty" json:"gatewayRef,omitempty"`
	ExternalID    int64               `bson:"externalId,omitempty" json:"externalId,omitempty"`
}

// CreateWithdrawalRequest is the seller payload for requesting a payout.
type CreateWithdrawalRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	UsdtID string  `json:"usdtId" validate:"required"`
}

// ProcessWithdrawalRequest is the admin approve/reject payload.
type ProcessWithdrawalRequest struct {
	AdminNotes string `json:"adminNotes,omitempty"`
}
