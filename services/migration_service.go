// services/migration_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
)

// MigrationService reassigns a seller to a new managing admin. Everything it
// touches — the seller document, the seller's pending deposits and the audit
// log — is written inside one MongoDB transaction, so a failure anywhere
// leaves no partial state. Deposits that already left the pending status stay
// with the old admin: commission history before the migration point is not
// rewritten.
type MigrationService struct {
	db *mongo.Client
}

// NewMigrationService creates a new migration service
func NewMigrationService(db *mongo.Client) *MigrationService {
	return &MigrationService{db: db}
}

// MigrationResult is the outcome surfaced to the caller.
type MigrationResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	PendingMoved      int    `json:"pendingMoved"`
	NonPendingSkipped int    `json:"nonPendingSkipped"`
}

// ValidateMigration checks the seller and target admin before any write.
// Returns a human-readable reason when the pair is not migratable.
func ValidateMigration(seller, newAdmin *models.User, newAdminID primitive.ObjectID) error {
	if seller.Role != models.RoleSeller {
		return fmt.Errorf("user %s is not a seller", seller.ID.Hex())
	}
	if !newAdmin.IsAdminRole() {
		return fmt.Errorf("target user %s is not an admin", newAdminID.Hex())
	}
	if seller.ReferredBy != nil && *seller.ReferredBy == newAdminID {
		return fmt.Errorf("seller is already assigned to admin %s", newAdminID.Hex())
	}
	return nil
}

// BuildSellerMigrationUpdate builds the seller document update for a
// migration. originalReferredBy is written only when it was never set, so the
// first-ever referrer is preserved across any number of migrations.
func BuildSellerMigrationUpdate(seller *models.User, newAdminID primitive.ObjectID, reason string, now time.Time) bson.M {
	set := bson.M{
		"adminId":    newAdminID,
		"referredBy": newAdminID,
		"updatedAt":  now,
	}
	if seller.OriginalReferredBy == nil && seller.ReferredBy != nil {
		set["originalReferredBy"] = *seller.ReferredBy
	}

	record := models.MigrationRecord{
		FromAdminID: seller.ReferredBy,
		ToAdminID:   newAdminID,
		Reason:      reason,
		MigratedAt:  now,
	}

	return bson.M{
		"$set":  set,
		"$push": bson.M{"migrationHistory": record},
	}
}

// MigrateSeller atomically reassigns the seller's managing admin and
// commission recipient, moves the seller's still-pending deposits to the new
// admin and appends one migrationHistory entry plus one migration_logs audit
// document. performedBy is the admin executing the operation.
func (s *MigrationService) MigrateSeller(ctx context.Context, sellerID, newAdminID, performedBy primitive.ObjectID, reason string) (*MigrationResult, error) {
	users := config.GetCollection(s.db, "users")
	deposits := config.GetCollection(s.db, "pending_deposits")
	logs := config.GetCollection(s.db, "migration_logs")

	session, err := s.db.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	var result MigrationResult

	// WithTransaction retries on transient errors and write conflicts, which
	// is the only protection against two admins migrating the same seller
	// concurrently.
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var seller models.User
		if err := users.FindOne(sc, bson.M{"_id": sellerID}).Decode(&seller); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, fmt.Errorf("seller %s not found", sellerID.Hex())
			}
			return nil, err
		}

		var newAdmin models.User
		if err := users.FindOne(sc, bson.M{"_id": newAdminID}).Decode(&newAdmin); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, fmt.Errorf("admin %s not found", newAdminID.Hex())
			}
			return nil, err
		}

		if err := ValidateMigration(&seller, &newAdmin, newAdminID); err != nil {
			return nil, err
		}

		now := time.Now()
		update := BuildSellerMigrationUpdate(&seller, newAdminID, reason, now)
		if _, err := users.UpdateOne(sc, bson.M{"_id": sellerID}, update); err != nil {
			return nil, fmt.Errorf("failed to update seller: %w", err)
		}

		// Only deposits still pending follow the seller to the new admin
		moveRes, err := deposits.UpdateMany(sc,
			bson.M{"sellerId": sellerID, "status": models.DepositStatusPending},
			bson.M{"$set": bson.M{"adminId": newAdminID, "updatedAt": now}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to reassign pending deposits: %w", err)
		}

		skipped, err := deposits.CountDocuments(sc, bson.M{
			"sellerId": sellerID,
			"status":   bson.M{"$ne": models.DepositStatusPending},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to count non-pending deposits: %w", err)
		}

		auditLog := models.MigrationLog{
			ID:                primitive.NewObjectID(),
			SellerID:          sellerID,
			FromAdminID:       seller.ReferredBy,
			ToAdminID:         newAdminID,
			Reason:            reason,
			PendingMoved:      int(moveRes.ModifiedCount),
			NonPendingSkipped: int(skipped),
			PerformedBy:       performedBy,
			MigratedAt:        now,
		}
		if _, err := logs.InsertOne(sc, auditLog); err != nil {
			return nil, fmt.Errorf("failed to write migration log: %w", err)
		}

		result = MigrationResult{
			Success:           true,
			Message:           fmt.Sprintf("Seller migrated to admin %s. %d pending deposits moved, %d settled deposits left with the previous admin.", newAdminID.Hex(), moveRes.ModifiedCount, skipped),
			PendingMoved:      int(moveRes.ModifiedCount),
			NonPendingSkipped: int(skipped),
		}
		return nil, nil
	})

	if err != nil {
		log.Printf("seller migration failed: seller=%s newAdmin=%s err=%v", sellerID.Hex(), newAdminID.Hex(), err)
		return &MigrationResult{Success: false, Message: err.Error()}, err
	}

	return &result, nil
}
