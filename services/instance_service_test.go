package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JWehbe/tikshop_backend/models"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("unit-%d", n)
	}
}

func TestBuildUnitItemsPartition(t *testing.T) {
	item := &models.StockItem{
		ProductID:   "shared-123",
		ProductName: "Wireless Earbuds",
		CostPerUnit: 14.5,
		Quantity:    5,
	}

	units := BuildUnitItems(item, time.Now(), sequentialIDs())
	require.Len(t, units, 5)

	total := 0
	seen := make(map[string]bool)
	for _, u := range units {
		assert.Equal(t, 1, u.Quantity)
		assert.Equal(t, 14.5, u.CostPerUnit)
		assert.Equal(t, "Wireless Earbuds", u.ProductName)
		assert.Equal(t, "shared-123", u.ParentProductID)
		assert.Equal(t, "available", u.Status)
		assert.False(t, seen[u.ProductID], "duplicate product id %s", u.ProductID)
		seen[u.ProductID] = true
		total += u.Quantity
	}
	// Unit quantities always sum to the source quantity
	assert.Equal(t, item.Quantity, total)
}

func TestBuildUnitItemsSingleUnit(t *testing.T) {
	item := &models.StockItem{
		ProductID: "shared-1",
		Quantity:  1,
	}

	units := BuildUnitItems(item, time.Now(), sequentialIDs())
	require.Len(t, units, 1)
	assert.Equal(t, "shared-1", units[0].ParentProductID)
	assert.NotEqual(t, item.ProductID, units[0].ProductID)
}
