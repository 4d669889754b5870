// services/bulk_payment_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
)

// BulkPaymentService aggregates sold deposits into payable batches and
// processes them. Approval — whether by an admin or automatically for
// wallet-funded batches — runs as one transaction over the batch, every
// referenced deposit and the seller balance, so a batch can never end up
// approved with only part of its deposits marked paid.
type BulkPaymentService struct {
	db *mongo.Client
}

// NewBulkPaymentService creates a new bulk payment service
func NewBulkPaymentService(db *mongo.Client) *BulkPaymentService {
	return &BulkPaymentService{db: db}
}

// ValidateBulkDeposits checks a requested batch against the loaded deposit
// records: at most ten ids, every id resolved, every deposit owned by the
// requesting seller, sold, and still awaiting payment.
func ValidateBulkDeposits(sellerID primitive.ObjectID, requested []primitive.ObjectID, deposits []models.PendingDeposit) error {
	if len(requested) == 0 {
		return fmt.Errorf("no deposits selected")
	}
	if len(requested) > models.MaxBulkPaymentDeposits {
		return fmt.Errorf("a bulk payment can cover at most %d deposits", models.MaxBulkPaymentDeposits)
	}
	if len(deposits) != len(requested) {
		return fmt.Errorf("%d of the selected deposits were not found", len(requested)-len(deposits))
	}

	for _, dep := range deposits {
		if dep.SellerID != sellerID {
			return fmt.Errorf("deposit %s does not belong to the requesting seller", dep.ID.Hex())
		}
		if !dep.Sold {
			return fmt.Errorf("deposit %s has not sold yet", dep.ID.Hex())
		}
		if dep.Status != models.DepositStatusPending {
			return fmt.Errorf("deposit %s is not awaiting payment (status %s)", dep.ID.Hex(), dep.Status)
		}
	}

	return nil
}

// SumBatch totals the deposit and profit amounts across the batch deposits.
func SumBatch(deposits []models.PendingDeposit) (totalDeposit, totalProfit float64) {
	for _, dep := range deposits {
		totalDeposit += dep.TotalDepositRequired
		totalProfit += dep.PendingProfitAmount
	}
	return Round2(totalDeposit), Round2(totalProfit)
}

// CreateBatch validates the selected deposits and creates one payable batch.
// Wallet-funded batches are settled from the seller balance and approved in
// the same call; bank-transfer batches wait for a receipt and admin review.
// Validation failures come back as an error with no writes performed.
func (s *BulkPaymentService) CreateBatch(ctx context.Context, sellerID primitive.ObjectID, depositIDs []primitive.ObjectID, isWalletPayment bool) (*models.BulkDepositPayment, error) {
	depositColl := config.GetCollection(s.db, "pending_deposits")

	cursor, err := depositColl.Find(ctx, bson.M{"_id": bson.M{"$in": depositIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to load deposits: %w", err)
	}
	var deposits []models.PendingDeposit
	if err := cursor.All(ctx, &deposits); err != nil {
		return nil, fmt.Errorf("failed to decode deposits: %w", err)
	}

	if err := ValidateBulkDeposits(sellerID, depositIDs, deposits); err != nil {
		return nil, err
	}

	totalDeposit, totalProfit := SumBatch(deposits)

	batch := &models.BulkDepositPayment{
		ID:                 primitive.NewObjectID(),
		SellerID:           sellerID,
		DepositIDs:         depositIDs,
		TotalDepositAmount: totalDeposit,
		TotalProfitAmount:  totalProfit,
		TotalOrdersCount:   len(deposits),
		Status:             models.BulkPaymentStatusPending,
		IsWalletPayment:    isWalletPayment,
		CreatedAt:          time.Now(),
	}

	if !isWalletPayment {
		batchColl := config.GetCollection(s.db, "bulk_deposit_payments")
		if _, err := batchColl.InsertOne(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to create bulk payment: %w", err)
		}
		return batch, nil
	}

	// Wallet payment: insert, debit and approve atomically
	if err := s.settleWalletBatch(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// settleWalletBatch inserts the batch, debits the seller balance by the
// deposit total, credits the profit and cascades deposit_paid — one
// transaction, so a wallet batch is either fully approved or not created.
func (s *BulkPaymentService) settleWalletBatch(ctx context.Context, batch *models.BulkDepositPayment) error {
	users := config.GetCollection(s.db, "users")
	batchColl := config.GetCollection(s.db, "bulk_deposit_payments")
	depositColl := config.GetCollection(s.db, "pending_deposits")
	receiptColl := config.GetCollection(s.db, "receipts_v2")

	session, err := s.db.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var seller models.User
		if err := users.FindOne(sc, bson.M{"_id": batch.SellerID}).Decode(&seller); err != nil {
			return nil, fmt.Errorf("seller not found: %w", err)
		}
		if seller.Balance < batch.TotalDepositAmount {
			return nil, fmt.Errorf("insufficient wallet balance: have %.2f, need %.2f", seller.Balance, batch.TotalDepositAmount)
		}

		now := time.Now()
		batch.Status = models.BulkPaymentStatusApproved
		batch.ProcessedAt = &now
		batch.SubmittedAt = &now

		if _, err := batchColl.InsertOne(sc, batch); err != nil {
			return nil, fmt.Errorf("failed to create bulk payment: %w", err)
		}

		// Net movement: profit credited, deposit debited
		delta := Round2(batch.TotalProfitAmount - batch.TotalDepositAmount)
		if _, err := users.UpdateOne(sc,
			bson.M{"_id": batch.SellerID},
			bson.M{"$inc": bson.M{"balance": delta}, "$set": bson.M{"updatedAt": now}},
		); err != nil {
			return nil, fmt.Errorf("failed to adjust seller balance: %w", err)
		}

		res, err := depositColl.UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": batch.DepositIDs}},
			bson.M{"$set": bson.M{"status": models.DepositStatusPaid, "updatedAt": now}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to mark deposits paid: %w", err)
		}
		if int(res.ModifiedCount) != len(batch.DepositIDs) {
			return nil, fmt.Errorf("expected to mark %d deposits paid, marked %d", len(batch.DepositIDs), res.ModifiedCount)
		}

		receipt := models.Receipt{
			ID:                primitive.NewObjectID(),
			SellerID:          batch.SellerID,
			Amount:            batch.TotalDepositAmount,
			IsBulkPayment:     true,
			IsWalletPayment:   true,
			BulkPaymentID:     &batch.ID,
			PendingDepositIDs: batch.DepositIDs,
			Status:            models.ReceiptStatusApproved,
			SubmittedAt:       now,
		}
		if _, err := receiptColl.InsertOne(sc, receipt); err != nil {
			return nil, fmt.Errorf("failed to record wallet receipt: %w", err)
		}

		return nil, nil
	})
	return err
}

// SubmitReceipt attaches an uploaded receipt to a pending batch and moves it
// to receipt_submitted.
func (s *BulkPaymentService) SubmitReceipt(ctx context.Context, batchID, sellerID primitive.ObjectID, receiptURL, description string) (*models.BulkDepositPayment, error) {
	batchColl := config.GetCollection(s.db, "bulk_deposit_payments")
	receiptColl := config.GetCollection(s.db, "receipts_v2")

	var batch models.BulkDepositPayment
	err := batchColl.FindOne(ctx, bson.M{"_id": batchID, "sellerId": sellerID}).Decode(&batch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("bulk payment not found")
		}
		return nil, err
	}
	if batch.Status != models.BulkPaymentStatusPending {
		return nil, fmt.Errorf("bulk payment is not awaiting a receipt (status %s)", batch.Status)
	}

	now := time.Now()
	_, err = batchColl.UpdateOne(ctx, bson.M{"_id": batchID}, bson.M{"$set": bson.M{
		"status":             models.BulkPaymentStatusReceiptSubmitted,
		"receiptUrl":         receiptURL,
		"receiptDescription": description,
		"submittedAt":        now,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to attach receipt: %w", err)
	}

	receipt := models.Receipt{
		ID:                primitive.NewObjectID(),
		SellerID:          sellerID,
		Amount:            batch.TotalDepositAmount,
		IsBulkPayment:     true,
		BulkPaymentID:     &batchID,
		PendingDepositIDs: batch.DepositIDs,
		Status:            models.ReceiptStatusPending,
		ReceiptURL:        receiptURL,
		Description:       description,
		SubmittedAt:       now,
	}
	if _, err := receiptColl.InsertOne(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to record receipt: %w", err)
	}

	batch.Status = models.BulkPaymentStatusReceiptSubmitted
	batch.ReceiptURL = receiptURL
	batch.SubmittedAt = &now
	return &batch, nil
}

// Approve marks a submitted batch approved, cascades deposit_paid to every
// referenced deposit and credits the seller's profit, atomically.
func (s *BulkPaymentService) Approve(ctx context.Context, batchID, adminID primitive.ObjectID, notes string) (*models.BulkDepositPayment, error) {
	users := config.GetCollection(s.db, "users")
	batchColl := config.GetCollection(s.db, "bulk_deposit_payments")
	depositColl := config.GetCollection(s.db, "pending_deposits")
	receiptColl := config.GetCollection(s.db, "receipts_v2")

	session, err := s.db.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	var batch models.BulkDepositPayment

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := batchColl.FindOne(sc, bson.M{"_id": batchID}).Decode(&batch); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, fmt.Errorf("bulk payment not found")
			}
			return nil, err
		}
		if batch.Status != models.BulkPaymentStatusReceiptSubmitted {
			return nil, fmt.Errorf("bulk payment is not awaiting review (status %s)", batch.Status)
		}

		now := time.Now()
		if _, err := batchColl.UpdateOne(sc, bson.M{"_id": batchID}, bson.M{"$set": bson.M{
			"status":      models.BulkPaymentStatusApproved,
			"processedAt": now,
			"adminId":     adminID,
			"adminNotes":  notes,
		}}); err != nil {
			return nil, fmt.Errorf("failed to approve batch: %w", err)
		}

		res, err := depositColl.UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": batch.DepositIDs}},
			bson.M{"$set": bson.M{"status": models.DepositStatusPaid, "updatedAt": now}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to mark deposits paid: %w", err)
		}
		if int(res.ModifiedCount) != len(batch.DepositIDs) {
			return nil, fmt.Errorf("expected to mark %d deposits paid, marked %d", len(batch.DepositIDs), res.ModifiedCount)
		}

		if _, err := users.UpdateOne(sc,
			bson.M{"_id": batch.SellerID},
			bson.M{"$inc": bson.M{"balance": batch.TotalProfitAmount}, "$set": bson.M{"updatedAt": now}},
		); err != nil {
			return nil, fmt.Errorf("failed to credit seller profit: %w", err)
		}

		if _, err := receiptColl.UpdateMany(sc,
			bson.M{"bulkPaymentId": batchID},
			bson.M{"$set": bson.M{"status": models.ReceiptStatusApproved}},
		); err != nil {
			return nil, fmt.Errorf("failed to update receipts: %w", err)
		}

		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	batch.Status = models.BulkPaymentStatusApproved
	return &batch, nil
}

// Reject marks a submitted batch rejected. The referenced deposits are left
// untouched so the seller can resubmit them in a new batch.
func (s *BulkPaymentService) Reject(ctx context.Context, batchID, adminID primitive.ObjectID, notes string) (*models.BulkDepositPayment, error) {
	if notes == "" {
		return nil, fmt.Errorf("rejection requires admin notes")
	}

	batchColl := config.GetCollection(s.db, "bulk_deposit_payments")
	receiptColl := config.GetCollection(s.db, "receipts_v2")

	var batch models.BulkDepositPayment
	err := batchColl.FindOne(ctx, bson.M{"_id": batchID}).Decode(&batch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("bulk payment not found")
		}
		return nil, err
	}
	if batch.Status != models.BulkPaymentStatusReceiptSubmitted {
		return nil, fmt.Errorf("bulk payment is not awaiting review (status %s)", batch.Status)
	}

	now := time.Now()
	if _, err := batchColl.UpdateOne(ctx, bson.M{"_id": batchID}, bson.M{"$set": bson.M{
		"status":      models.BulkPaymentStatusRejected,
		"processedAt": now,
		"adminId":     adminID,
		"adminNotes":  notes,
	}}); err != nil {
		return nil, fmt.Errorf("failed to reject batch: %w", err)
	}

	if _, err := receiptColl.UpdateMany(ctx,
		bson.M{"bulkPaymentId": batchID},
		bson.M{"$set": bson.M{"status": models.ReceiptStatusRejected}},
	); err != nil {
		return nil, fmt.Errorf("failed to update receipts: %w", err)
	}

	batch.Status = models.BulkPaymentStatusRejected
	return &batch, nil
}
