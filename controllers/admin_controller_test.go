package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDashboardCacheKeyPerAdmin(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	assert.Equal(t, "dashboard:stats:"+a.Hex(), dashboardCacheKey(a))
	assert.NotEqual(t, dashboardCacheKey(a), dashboardCacheKey(b))
}
