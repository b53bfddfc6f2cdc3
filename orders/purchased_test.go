package orders

import (
	"testing"

	"verso/models"

	"github.com/stretchr/testify/assert"
)

func orderWith(status string, payment bool, productIDs ...string) models.Order {
	items := make([]models.OrderItem, 0, len(productIDs))
	for _, id := range productIDs {
		items = append(items, models.OrderItem{ProductID: id, Quantity: 1})
	}
	return models.Order{Status: status, Payment: payment, Items: items}
}

func TestHasPurchasedRequiresPaidDeliveredOrder(t *testing.T) {
	history := []models.Order{
		orderWith("Delivered", true, "p1"),
	}
	assert.True(t, hasPurchased(history, "p1"))
	assert.False(t, hasPurchased(history, "p2"))
}

func TestHasPurchasedAcceptsVietnameseStatus(t *testing.T) {
	history := []models.Order{
		orderWith("Đã giao hàng", true, "p1"),
	}
	assert.True(t, hasPurchased(history, "p1"))
}

func TestHasPurchasedRejectsUnpaid(t *testing.T) {
	history := []models.Order{
		orderWith("Delivered", false, "p1"),
	}
	assert.False(t, hasPurchased(history, "p1"))
}

func TestHasPurchasedRejectsUndelivered(t *testing.T) {
	history := []models.Order{
		orderWith("Order placed", true, "p1"),
		orderWith("Out for delivery", true, "p1"),
		orderWith("Cancelled", true, "p1"),
	}
	assert.False(t, hasPurchased(history, "p1"))
}

func TestHasPurchasedScansAllOrders(t *testing.T) {
	history := []models.Order{
		orderWith("Cancelled", false, "p1"),
		orderWith("Delivered", true, "p2", "p3"),
	}
	assert.True(t, hasPurchased(history, "p3"))
	assert.False(t, hasPurchased(history, "p1"))
}

func TestHasPurchasedEmptyHistory(t *testing.T) {
	assert.False(t, hasPurchased(nil, "p1"))
}
