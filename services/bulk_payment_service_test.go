package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/JWehbe/tikshop_backend/models"
)

func makeDeposits(sellerID primitive.ObjectID, n int) ([]primitive.ObjectID, []models.PendingDeposit) {
	ids := make([]primitive.ObjectID, 0, n)
	deposits := make([]models.PendingDeposit, 0, n)
	for i := 0; i < n; i++ {
		id := primitive.NewObjectID()
		ids = append(ids, id)
		deposits = append(deposits, models.PendingDeposit{
			ID:                   id,
			SellerID:             sellerID,
			Status:               models.DepositStatusPending,
			Sold:                 true,
			TotalDepositRequired: 50,
			PendingProfitAmount:  15,
		})
	}
	return ids, deposits
}

func TestValidateBulkDepositsHappyPath(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 3)

	assert.NoError(t, ValidateBulkDeposits(sellerID, ids, deposits))
}

func TestValidateBulkDepositsAtLimit(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, models.MaxBulkPaymentDeposits)

	assert.NoError(t, ValidateBulkDeposits(sellerID, ids, deposits))
}

func TestValidateBulkDepositsOverLimit(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, models.MaxBulkPaymentDeposits+1)

	err := ValidateBulkDeposits(sellerID, ids, deposits)
	assert.ErrorContains(t, err, "at most 10")
}

func TestValidateBulkDepositsEmpty(t *testing.T) {
	err := ValidateBulkDeposits(primitive.NewObjectID(), nil, nil)
	assert.ErrorContains(t, err, "no deposits")
}

func TestValidateBulkDepositsMissingRecords(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 3)

	err := ValidateBulkDeposits(sellerID, ids, deposits[:2])
	assert.ErrorContains(t, err, "not found")
}

func TestValidateBulkDepositsWrongOwner(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 2)
	deposits[1].SellerID = primitive.NewObjectID()

	err := ValidateBulkDeposits(sellerID, ids, deposits)
	assert.ErrorContains(t, err, "does not belong")
}

func TestValidateBulkDepositsUnsold(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 2)
	deposits[0].Sold = false

	err := ValidateBulkDeposits(sellerID, ids, deposits)
	assert.ErrorContains(t, err, "not sold")
}

func TestValidateBulkDepositsAlreadyPaid(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 2)
	deposits[1].Status = models.DepositStatusPaid

	err := ValidateBulkDeposits(sellerID, ids, deposits)
	assert.ErrorContains(t, err, "not awaiting payment")
}

func TestSumBatch(t *testing.T) {
	_, deposits := makeDeposits(primitive.NewObjectID(), 4)

	totalDeposit, totalProfit := SumBatch(deposits)
	assert.Equal(t, 200.0, totalDeposit)
	assert.Equal(t, 60.0, totalProfit)
}

func TestCheckBatchConsistencyCleanBatch(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 3)
	for i := range deposits {
		deposits[i].Status = models.DepositStatusPaid
	}

	batch := &models.BulkDepositPayment{
		ID:         primitive.NewObjectID(),
		SellerID:   sellerID,
		DepositIDs: ids,
		Status:     models.BulkPaymentStatusApproved,
	}

	assert.Nil(t, CheckBatchConsistency(batch, deposits))
}

func TestCheckBatchConsistencyStuckWalletBatch(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 2)

	batch := &models.BulkDepositPayment{
		ID:              primitive.NewObjectID(),
		SellerID:        sellerID,
		DepositIDs:      ids,
		IsWalletPayment: true,
		Status:          models.BulkPaymentStatusPending,
	}

	issue := CheckBatchConsistency(batch, deposits)
	assert.NotNil(t, issue)
	assert.Contains(t, issue.Problems[0], "wallet batch stuck")
}

func TestCheckBatchConsistencyPartialApproval(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 4)
	// Half the deposits never reached deposit_paid
	deposits[0].Status = models.DepositStatusPaid
	deposits[1].Status = models.DepositStatusPaid

	batch := &models.BulkDepositPayment{
		ID:         primitive.NewObjectID(),
		SellerID:   sellerID,
		DepositIDs: ids,
		Status:     models.BulkPaymentStatusApproved,
	}

	issue := CheckBatchConsistency(batch, deposits)
	assert.NotNil(t, issue)
	assert.Equal(t, 2, issue.UnpaidCount)
}

func TestCheckBatchConsistencyMissingDeposits(t *testing.T) {
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 3)

	batch := &models.BulkDepositPayment{
		ID:         primitive.NewObjectID(),
		SellerID:   sellerID,
		DepositIDs: ids,
		Status:     models.BulkPaymentStatusPending,
	}

	issue := CheckBatchConsistency(batch, deposits[:1])
	assert.NotNil(t, issue)
	assert.Equal(t, 2, issue.MissingCount)
}

func TestCheckBatchConsistencyPendingBatchUnpaidOk(t *testing.T) {
	// Unpaid deposits are expected while the batch is still pending review
	sellerID := primitive.NewObjectID()
	ids, deposits := makeDeposits(sellerID, 3)

	batch := &models.BulkDepositPayment{
		ID:         primitive.NewObjectID(),
		SellerID:   sellerID,
		DepositIDs: ids,
		Status:     models.BulkPaymentStatusReceiptSubmitted,
	}

	assert.Nil(t, CheckBatchConsistency(batch, deposits))
}
