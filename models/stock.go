// models/stock.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockItem is one catalog entry. Historically a single record held quantity N
// and all units shared one productId, which caused deposit/receipt state to
// leak between units; the instance-split migration turns such records into N
// quantity-1 records with fresh productIds and flags the original as migrated.
type StockItem struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID       string             `json:"productId" bson:"productId"`
	ProductName     string             `json:"productName" bson:"productName"`
	CostPerUnit     float64            `json:"costPerUnit" bson:"costPerUnit"`
	Quantity        int                `json:"quantity" bson:"quantity"`
	Status          string             `json:"status" bson:"status"`
	Migrated        bool               `json:"migrated,omitempty" bson:"migrated,omitempty"`
	MigratedAt      *time.Time         `json:"migratedAt,omitempty" bson:"migratedAt,omitempty"`
	ParentProductID string             `json:"parentProductId,omitempty" bson:"parentProductId,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// InventoryRecord mirrors a stock item in the inventory collection.
type InventoryRecord struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID string             `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Status    string             `json:"status" bson:"status"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ListingRecord mirrors a stock item in the listings collection.
type ListingRecord struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID    string              `json:"productId" bson:"productId"`
	SellerID     *primitive.ObjectID `json:"sellerId,omitempty" bson:"sellerId,omitempty"`
	ListingPrice float64             `json:"listingPrice" bson:"listingPrice"`
	Active       bool                `json:"active" bson:"active"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
}
