package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JWehbe/tikshop_backend/models"
)

func TestComputeExpectedFinancials(t *testing.T) {
	fin := ComputeExpectedFinancials(10, 5)

	assert.Equal(t, 13.0, fin.ListingPrice)
	assert.Equal(t, 50.0, fin.TotalDepositRequired)
	assert.Equal(t, 15.0, fin.PendingProfitAmount)
}

func TestComputeExpectedFinancialsRounding(t *testing.T) {
	// 9.99 * 1.3 = 12.987 -> 12.99
	fin := ComputeExpectedFinancials(9.99, 3)

	assert.Equal(t, 12.99, fin.ListingPrice)
	assert.Equal(t, 29.97, fin.TotalDepositRequired)
	assert.Equal(t, 9.0, fin.PendingProfitAmount)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235000001))
	assert.Equal(t, -1.23, Round2(-1.234))
	assert.Equal(t, 0.0, Round2(0))
}

func TestCheckDepositConsistentRecord(t *testing.T) {
	dep := &models.PendingDeposit{
		OriginalCostPerUnit:  10,
		QuantityListed:       5,
		ListingPrice:         13,
		TotalDepositRequired: 50,
		PendingProfitAmount:  15,
		Sold:                 true,
	}

	repair := CheckDeposit(dep)
	assert.Empty(t, repair.Fields)
}

func TestCheckDepositStaleListingPrice(t *testing.T) {
	dep := &models.PendingDeposit{
		OriginalCostPerUnit:  10,
		QuantityListed:       5,
		ListingPrice:         12, // stale, should be 13
		TotalDepositRequired: 50,
		PendingProfitAmount:  10, // stale, should be 15
		Sold:                 true,
	}

	repair := CheckDeposit(dep)
	assert.Equal(t, 13.0, repair.Fields["listingPrice"])
	assert.Equal(t, 15.0, repair.Fields["pendingProfitAmount"])
	assert.NotContains(t, repair.Fields, "totalDepositRequired")
}

func TestCheckDepositUnsoldProfitLeftAlone(t *testing.T) {
	dep := &models.PendingDeposit{
		OriginalCostPerUnit:  10,
		QuantityListed:       5,
		ListingPrice:         13,
		TotalDepositRequired: 50,
		PendingProfitAmount:  0, // not sold yet, no profit pending
		Sold:                 false,
	}

	repair := CheckDeposit(dep)
	assert.NotContains(t, repair.Fields, "pendingProfitAmount")
	assert.Empty(t, repair.Fields)
}

func TestApprovalCreditSoldDeposit(t *testing.T) {
	dep := &models.PendingDeposit{Sold: true, PendingProfitAmount: 15}
	assert.Equal(t, 15.0, ApprovalCredit(dep))
}

func TestApprovalCreditUnsoldDeposit(t *testing.T) {
	// Approving an unsold deposit must not credit profit early
	dep := &models.PendingDeposit{Sold: false, PendingProfitAmount: 15}
	assert.Equal(t, 0.0, ApprovalCredit(dep))
}

func TestCheckDepositWithinTolerance(t *testing.T) {
	dep := &models.PendingDeposit{
		OriginalCostPerUnit:  10,
		QuantityListed:       5,
		ListingPrice:         13.005, // under the 0.01 tolerance
		TotalDepositRequired: 50.005,
		PendingProfitAmount:  15.005,
		Sold:                 true,
	}

	repair := CheckDeposit(dep)
	assert.Empty(t, repair.Fields)
}
