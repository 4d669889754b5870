package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/JWehbe/tikshop_backend/models"
)

func TestValidateMigration(t *testing.T) {
	oldAdminID := primitive.NewObjectID()
	newAdminID := primitive.NewObjectID()

	seller := &models.User{
		ID:         primitive.NewObjectID(),
		Role:       models.RoleSeller,
		ReferredBy: &oldAdminID,
	}
	newAdmin := &models.User{ID: newAdminID, Role: models.RoleAdmin}

	assert.NoError(t, ValidateMigration(seller, newAdmin, newAdminID))
}

func TestValidateMigrationRejectsNonSeller(t *testing.T) {
	newAdminID := primitive.NewObjectID()
	notSeller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	newAdmin := &models.User{ID: newAdminID, Role: models.RoleAdmin}

	err := ValidateMigration(notSeller, newAdmin, newAdminID)
	assert.ErrorContains(t, err, "not a seller")
}

func TestValidateMigrationRejectsNonAdminTarget(t *testing.T) {
	targetID := primitive.NewObjectID()
	seller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleSeller}
	target := &models.User{ID: targetID, Role: models.RoleSeller}

	err := ValidateMigration(seller, target, targetID)
	assert.ErrorContains(t, err, "not an admin")
}

func TestValidateMigrationRejectsSameAdmin(t *testing.T) {
	adminID := primitive.NewObjectID()
	seller := &models.User{
		ID:         primitive.NewObjectID(),
		Role:       models.RoleSeller,
		ReferredBy: &adminID,
	}
	admin := &models.User{ID: adminID, Role: models.RoleAdmin}

	err := ValidateMigration(seller, admin, adminID)
	assert.ErrorContains(t, err, "already assigned")
}

func TestValidateMigrationAcceptsSuperadminTarget(t *testing.T) {
	superID := primitive.NewObjectID()
	seller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleSeller}
	super := &models.User{ID: superID, Role: models.RoleSuperadmin}

	assert.NoError(t, ValidateMigration(seller, super, superID))
}

func TestBuildSellerMigrationUpdateFirstMigration(t *testing.T) {
	oldAdminID := primitive.NewObjectID()
	newAdminID := primitive.NewObjectID()
	now := time.Now()

	seller := &models.User{
		ID:         primitive.NewObjectID(),
		Role:       models.RoleSeller,
		ReferredBy: &oldAdminID,
	}

	update := BuildSellerMigrationUpdate(seller, newAdminID, "load balancing", now)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, newAdminID, set["adminId"])
	assert.Equal(t, newAdminID, set["referredBy"])
	// First migration preserves the original referrer
	assert.Equal(t, oldAdminID, set["originalReferredBy"])

	push, ok := update["$push"].(bson.M)
	require.True(t, ok)
	record, ok := push["migrationHistory"].(models.MigrationRecord)
	require.True(t, ok)
	assert.Equal(t, &oldAdminID, record.FromAdminID)
	assert.Equal(t, newAdminID, record.ToAdminID)
	assert.Equal(t, "load balancing", record.Reason)
}

func TestBuildSellerMigrationUpdateKeepsOriginalReferrer(t *testing.T) {
	firstAdminID := primitive.NewObjectID()
	currentAdminID := primitive.NewObjectID()
	newAdminID := primitive.NewObjectID()

	seller := &models.User{
		ID:                 primitive.NewObjectID(),
		Role:               models.RoleSeller,
		ReferredBy:         &currentAdminID,
		OriginalReferredBy: &firstAdminID,
	}

	update := BuildSellerMigrationUpdate(seller, newAdminID, "second move", time.Now())

	set := update["$set"].(bson.M)
	// originalReferredBy was already set, never overwritten
	assert.NotContains(t, set, "originalReferredBy")
}

func TestBuildSellerMigrationUpdateNoReferrer(t *testing.T) {
	newAdminID := primitive.NewObjectID()
	seller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleSeller}

	update := BuildSellerMigrationUpdate(seller, newAdminID, "orphan seller", time.Now())

	set := update["$set"].(bson.M)
	assert.NotContains(t, set, "originalReferredBy")

	record := update["$push"].(bson.M)["migrationHistory"].(models.MigrationRecord)
	assert.Nil(t, record.FromAdminID)
}
