// models/migration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MigrationLog is the append-only audit record written alongside every seller
// migration, one document per migration in migration_logs.
type MigrationLog struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	SellerID          primitive.ObjectID  `json:"sellerId" bson:"sellerId"`
	FromAdminID       *primitive.ObjectID `json:"fromAdminId,omitempty" bson:"fromAdminId,omitempty"`
	ToAdminID         primitive.ObjectID  `json:"toAdminId" bson:"toAdminId"`
	Reason            string              `json:"reason" bson:"reason"`
	PendingMoved      int                 `json:"pendingMoved" bson:"pendingMoved"`
	NonPendingSkipped int                 `json:"nonPendingSkipped" bson:"nonPendingSkipped"`
	PerformedBy       primitive.ObjectID  `json:"performedBy" bson:"performedBy"`
	MigratedAt        time.Time           `json:"migratedAt" bson:"migratedAt"`
}

// MigrateSellerRequest is the admin payload for reassigning a seller.
type MigrateSellerRequest struct {
	SellerID   string `json:"sellerId" validate:"required"`
	NewAdminID string `json:"newAdminId" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}
