// services/diagnostics_service.go
package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
)

// DiagnosticsService audits historical bulk payment batches for the partial
// approval pattern: a batch marked approved while some of its deposits never
// reached deposit_paid. Current approvals are transactional, so findings
// point at legacy data needing manual repair.
type DiagnosticsService struct {
	db *mongo.Client
}

// NewDiagnosticsService creates a new diagnostics service
func NewDiagnosticsService(db *mongo.Client) *DiagnosticsService {
	return &DiagnosticsService{db: db}
}

// BatchIssue describes one inconsistent batch.
type BatchIssue struct {
	BatchID      primitive.ObjectID
	SellerID     primitive.ObjectID
	Status       string
	Problems     []string
	UnpaidCount  int
	MissingCount int
}

// DiagnosisSummary totals one audit run.
type DiagnosisSummary struct {
	BatchesScanned int
	Issues         []BatchIssue
}

// CheckBatchConsistency compares an approved batch against the deposits it
// references and lists every discrepancy. A nil result means the batch is
// consistent.
func CheckBatchConsistency(batch *models.BulkDepositPayment, deposits []models.PendingDeposit) *BatchIssue {
	issue := BatchIssue{
		BatchID:  batch.ID,
		SellerID: batch.SellerID,
		Status:   batch.Status,
	}

	found := make(map[primitive.ObjectID]bool, len(deposits))
	for _, dep := range deposits {
		found[dep.ID] = true
	}
	for _, id := range batch.DepositIDs {
		if !found[id] {
			issue.MissingCount++
		}
	}
	if issue.MissingCount > 0 {
		issue.Problems = append(issue.Problems,
			fmt.Sprintf("%d referenced deposits no longer exist", issue.MissingCount))
	}

	if batch.Status == models.BulkPaymentStatusApproved {
		for _, dep := range deposits {
			if dep.Status != models.DepositStatusPaid {
				issue.UnpaidCount++
			}
		}
		if issue.UnpaidCount > 0 {
			issue.Problems = append(issue.Problems,
				fmt.Sprintf("batch approved but %d deposits are still %q or awaiting receipt",
					issue.UnpaidCount, models.DepositStatusPending))
		}
	}

	// Wallet batches settle at creation, so any other status is stuck
	if batch.IsWalletPayment && batch.Status != models.BulkPaymentStatusApproved {
		issue.Problems = append(issue.Problems,
			fmt.Sprintf("wallet batch stuck in status %q", batch.Status))
	}

	if len(batch.DepositIDs) > models.MaxBulkPaymentDeposits {
		issue.Problems = append(issue.Problems,
			fmt.Sprintf("batch references %d deposits, above the %d limit",
				len(batch.DepositIDs), models.MaxBulkPaymentDeposits))
	}

	if len(issue.Problems) == 0 {
		return nil
	}
	return &issue
}

// DiagnoseBulkPayments scans every batch and reports the inconsistent ones.
// Read-only: nothing is repaired here.
func (s *DiagnosticsService) DiagnoseBulkPayments(ctx context.Context) (*DiagnosisSummary, error) {
	batchColl := config.GetCollection(s.db, "bulk_deposit_payments")
	depositColl := config.GetCollection(s.db, "pending_deposits")

	cursor, err := batchColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load bulk payments: %w", err)
	}
	defer cursor.Close(ctx)

	summary := &DiagnosisSummary{}
	for cursor.Next(ctx) {
		var batch models.BulkDepositPayment
		if err := cursor.Decode(&batch); err != nil {
			return nil, fmt.Errorf("failed to decode batch: %w", err)
		}
		summary.BatchesScanned++

		depCursor, err := depositColl.Find(ctx, bson.M{"_id": bson.M{"$in": batch.DepositIDs}})
		if err != nil {
			return nil, fmt.Errorf("failed to load deposits for batch %s: %w", batch.ID.Hex(), err)
		}
		var deposits []models.PendingDeposit
		if err := depCursor.All(ctx, &deposits); err != nil {
			return nil, fmt.Errorf("failed to decode deposits for batch %s: %w", batch.ID.Hex(), err)
		}

		if issue := CheckBatchConsistency(&batch, deposits); issue != nil {
			summary.Issues = append(summary.Issues, *issue)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}
