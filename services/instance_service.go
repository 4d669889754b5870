// services/instance_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
)

// InstanceService splits multi-unit stock records into independent per-unit
// records. Units that shared one productId also shared deposit and receipt
// state; after the split every physical unit has its own productId. The
// original record is kept with migrated=true for the audit trail, and that
// flag is the only guard against double-splitting on a re-run.
type InstanceService struct {
	db *mongo.Client
}

// NewInstanceService creates a new instance-split service
func NewInstanceService(db *mongo.Client) *InstanceService {
	return &InstanceService{db: db}
}

// SplitSummary reports one split run.
type SplitSummary struct {
	RecordsSplit    int `json:"recordsSplit"`
	UnitsCreated    int `json:"unitsCreated"`
	InventoryCopied int `json:"inventoryCopied"`
	ListingsCopied  int `json:"listingsCopied"`
}

// BuildUnitItems synthesizes one quantity-1 stock item per physical unit of
// the source record. newID supplies fresh product ids. Per-unit status fields
// are reset; the sum of unit quantities always equals the source quantity.
func BuildUnitItems(item *models.StockItem, now time.Time, newID func() string) []models.StockItem {
	units := make([]models.StockItem, 0, item.Quantity)
	for i := 0; i < item.Quantity; i++ {
		units = append(units, models.StockItem{
			ID:              primitive.NewObjectID(),
			ProductID:       newID(),
			ProductName:     item.ProductName,
			CostPerUnit:     item.CostPerUnit,
			Quantity:        1,
			Status:          "available",
			ParentProductID: item.ProductID,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return units
}

// SplitProductInstances finds every unmigrated stock record with quantity > 1,
// creates per-unit records and cascades the duplication into the inventory
// and listings collections matched by the old shared productId.
func (s *InstanceService) SplitProductInstances(ctx context.Context) (*SplitSummary, error) {
	stock := config.GetCollection(s.db, "stock_items")
	inventory := config.GetCollection(s.db, "inventory")
	listings := config.GetCollection(s.db, "listings")

	cursor, err := stock.Find(ctx, bson.M{
		"quantity": bson.M{"$gt": 1},
		"migrated": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query stock items: %w", err)
	}
	defer cursor.Close(ctx)

	summary := &SplitSummary{}

	for cursor.Next(ctx) {
		var item models.StockItem
		if err := cursor.Decode(&item); err != nil {
			log.Printf("skipping undecodable stock item: %v", err)
			continue
		}

		now := time.Now()
		units := BuildUnitItems(&item, now, func() string { return uuid.NewString() })

		docs := make([]interface{}, len(units))
		for i := range units {
			docs[i] = units[i]
		}
		if _, err := stock.InsertMany(ctx, docs); err != nil {
			return summary, fmt.Errorf("failed to insert units for %s: %w", item.ProductID, err)
		}
		summary.UnitsCreated += len(units)

		// The original is flagged, never deleted, so the split stays auditable
		if _, err := stock.UpdateOne(ctx,
			bson.M{"_id": item.ID},
			bson.M{"$set": bson.M{"migrated": true, "migratedAt": now, "updatedAt": now}},
		); err != nil {
			return summary, fmt.Errorf("failed to flag original %s: %w", item.ProductID, err)
		}
		summary.RecordsSplit++

		copied, err := s.cascadeInventory(ctx, inventory, item.ProductID, units, now)
		if err != nil {
			return summary, err
		}
		summary.InventoryCopied += copied

		copied, err = s.cascadeListings(ctx, listings, item.ProductID, units, now)
		if err != nil {
			return summary, err
		}
		summary.ListingsCopied += copied
	}
	if err := cursor.Err(); err != nil {
		return summary, fmt.Errorf("cursor error: %w", err)
	}

	return summary, nil
}

// cascadeInventory copies the inventory rows of the old shared productId onto
// every new unit productId with quantity 1.
func (s *InstanceService) cascadeInventory(ctx context.Context, coll *mongo.Collection, oldProductID string, units []models.StockItem, now time.Time) (int, error) {
	var template models.InventoryRecord
	err := coll.FindOne(ctx, bson.M{"productId": oldProductID}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read inventory for %s: %w", oldProductID, err)
	}

	docs := make([]interface{}, 0, len(units))
	for _, unit := range units {
		docs = append(docs, models.InventoryRecord{
			ID:        primitive.NewObjectID(),
			ProductID: unit.ProductID,
			Quantity:  1,
			Status:    template.Status,
			UpdatedAt: now,
		})
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to copy inventory for %s: %w", oldProductID, err)
	}
	return len(docs), nil
}

// cascadeListings copies the listing rows of the old shared productId onto
// every new unit productId.
func (s *InstanceService) cascadeListings(ctx context.Context, coll *mongo.Collection, oldProductID string, units []models.StockItem, now time.Time) (int, error) {
	var template models.ListingRecord
	err := coll.FindOne(ctx, bson.M{"productId": oldProductID}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read listing for %s: %w", oldProductID, err)
	}

	docs := make([]interface{}, 0, len(units))
	for _, unit := range units {
		docs = append(docs, models.ListingRecord{
			ID:           primitive.NewObjectID(),
			ProductID:    unit.ProductID,
			SellerID:     template.SellerID,
			ListingPrice: template.ListingPrice,
			Active:       template.Active,
			UpdatedAt:    now,
		})
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to copy listings for %s: %w", oldProductID, err)
	}
	return len(docs), nil
}
