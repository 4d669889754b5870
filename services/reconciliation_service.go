// services/reconciliation_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
)

const (
	// Markup is the fixed multiplier applied to cost to derive listing price.
	Markup = 1.3
	// PriceTolerance is the maximum accepted drift before a record is repaired.
	PriceTolerance = 0.01
	// reconcileBatchSize matches the document database write batch limit.
	reconcileBatchSize = 400
)

// ExpectedFinancials holds the derived money fields for one deposit record.
type ExpectedFinancials struct {
	ListingPrice         float64
	TotalDepositRequired float64
	PendingProfitAmount  float64
}

// Round2 rounds to two decimal places, the precision stored for all amounts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeExpectedFinancials derives listing price, deposit amount and profit
// from the unit cost and listed quantity under the fixed 30% markup rule.
func ComputeExpectedFinancials(costPerUnit float64, quantity int) ExpectedFinancials {
	listing := Round2(costPerUnit * Markup)
	return ExpectedFinancials{
		ListingPrice:         listing,
		TotalDepositRequired: Round2(costPerUnit * float64(quantity)),
		PendingProfitAmount:  Round2((listing - costPerUnit) * float64(quantity)),
	}
}

// ApprovalCredit is the balance credit a seller earns when a deposit payment
// is approved. Profit is only earned once the item sells; approving an
// unsold deposit credits nothing.
func ApprovalCredit(dep *models.PendingDeposit) float64 {
	if !dep.Sold {
		return 0
	}
	return dep.PendingProfitAmount
}

// DepositRepair describes the fields of one deposit that drifted from the
// markup rule. Empty Fields means the record is consistent.
type DepositRepair struct {
	Fields bson.M
}

// CheckDeposit compares a deposit's stored money fields against the derived
// values. Profit is only repaired on sold records; unsold deposits have no
// profit pending yet.
func CheckDeposit(dep *models.PendingDeposit) DepositRepair {
	expected := ComputeExpectedFinancials(dep.OriginalCostPerUnit, dep.QuantityListed)

	fields := bson.M{}
	if math.Abs(dep.ListingPrice-expected.ListingPrice) >= PriceTolerance {
		fields["listingPrice"] = expected.ListingPrice
	}
	if math.Abs(dep.TotalDepositRequired-expected.TotalDepositRequired) >= PriceTolerance {
		fields["totalDepositRequired"] = expected.TotalDepositRequired
	}
	if dep.Sold && math.Abs(dep.PendingProfitAmount-expected.PendingProfitAmount) >= PriceTolerance {
		fields["pendingProfitAmount"] = expected.PendingProfitAmount
	}

	return DepositRepair{Fields: fields}
}

// ReconcileSummary reports one reconciliation run.
type ReconcileSummary struct {
	Scanned  int `json:"scanned"`
	Repaired int `json:"repaired"`
	Batches  int `json:"batches"`
}

// ReconciliationService recomputes deposit money fields from source cost and
// rewrites drifted records in write batches. There is no rollback across
// batches: a crash mid-run leaves earlier batches committed, and the run is
// safe to repeat because every pass recomputes from cost.
type ReconciliationService struct {
	db *mongo.Client
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(db *mongo.Client) *ReconciliationService {
	return &ReconciliationService{db: db}
}

// ReconcileDeposits scans every deposit record, repairs the ones violating
// the markup rule and returns a summary of the run.
func (s *ReconciliationService) ReconcileDeposits(ctx context.Context) (*ReconcileSummary, error) {
	coll := config.GetCollection(s.db, "pending_deposits")

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{
		"_id": 1, "originalCostPerUnit": 1, "quantityListed": 1,
		"listingPrice": 1, "totalDepositRequired": 1,
		"pendingProfitAmount": 1, "sold": 1,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits: %w", err)
	}
	defer cursor.Close(ctx)

	summary := &ReconcileSummary{}
	var batch []mongo.WriteModel
	now := time.Now()

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		opts := options.BulkWrite().SetOrdered(false)
		res, err := coll.BulkWrite(ctx, batch, opts)
		if err != nil {
			return fmt.Errorf("batch %d failed: %w", summary.Batches+1, err)
		}
		summary.Repaired += int(res.ModifiedCount)
		summary.Batches++
		batch = batch[:0]
		return nil
	}

	for cursor.Next(ctx) {
		var dep models.PendingDeposit
		if err := cursor.Decode(&dep); err != nil {
			log.Printf("skipping undecodable deposit: %v", err)
			continue
		}
		summary.Scanned++

		repair := CheckDeposit(&dep)
		if len(repair.Fields) == 0 {
			continue
		}
		repair.Fields["updatedAt"] = now

		batch = append(batch, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": dep.ID}).
			SetUpdate(bson.M{"$set": repair.Fields}))

		if len(batch) >= reconcileBatchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return summary, fmt.Errorf("cursor error: %w", err)
	}

	if err := flush(); err != nil {
		return summary, err
	}

	return summary, nil
}

// ReconcileListings repairs listings whose price drifted from the markup rule
// relative to their stock item's cost. Runs after ReconcileDeposits in the
// maintenance CLI.
func (s *ReconciliationService) ReconcileListings(ctx context.Context) (*ReconcileSummary, error) {
	stock := config.GetCollection(s.db, "stock_items")
	listings := config.GetCollection(s.db, "listings")

	cursor, err := stock.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{
		"productId": 1, "costPerUnit": 1,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to query stock items: %w", err)
	}
	defer cursor.Close(ctx)

	summary := &ReconcileSummary{}
	var batch []mongo.WriteModel
	now := time.Now()

	for cursor.Next(ctx) {
		var item models.StockItem
		if err := cursor.Decode(&item); err != nil {
			continue
		}
		summary.Scanned++

		expected := Round2(item.CostPerUnit * Markup)
		batch = append(batch, mongo.NewUpdateManyModel().
			SetFilter(bson.M{
				"productId": item.ProductID,
				"$or": bson.A{
					bson.M{"listingPrice": bson.M{"$lt": expected - PriceTolerance}},
					bson.M{"listingPrice": bson.M{"$gt": expected + PriceTolerance}},
				},
			}).
			SetUpdate(bson.M{"$set": bson.M{"listingPrice": expected, "updatedAt": now}}))

		if len(batch) >= reconcileBatchSize {
			opts := options.BulkWrite().SetOrdered(false)
			res, err := listings.BulkWrite(ctx, batch, opts)
			if err != nil {
				return summary, fmt.Errorf("batch %d failed: %w", summary.Batches+1, err)
			}
			summary.Repaired += int(res.ModifiedCount)
			summary.Batches++
			batch = batch[:0]
		}
	}
	if err := cursor.Err(); err != nil {
		return summary, fmt.Errorf("cursor error: %w", err)
	}

	if len(batch) > 0 {
		opts := options.BulkWrite().SetOrdered(false)
		res, err := listings.BulkWrite(ctx, batch, opts)
		if err != nil {
			return summary, fmt.Errorf("final batch failed: %w", err)
		}
		summary.Repaired += int(res.ModifiedCount)
		summary.Batches++
	}

	return summary, nil
}
