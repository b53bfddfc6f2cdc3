package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatusCanonical(t *testing.T) {
	st, ok := ParseStatus("Order placed")
	assert.True(t, ok)
	assert.Equal(t, StatusPlaced, st)
}

func TestParseStatusVietnameseLiterals(t *testing.T) {
	tests := map[string]OrderStatus{
		"Đang đóng gói":          StatusPacking,
		"Đã giao cho vận chuyển": StatusHandedToCarrier,
		"Đang giao hàng":         StatusOutForDelivery,
		"Đã giao hàng":           StatusDelivered,
		"Đã hủy":                 StatusCancelled,
	}
	for literal, want := range tests {
		st, ok := ParseStatus(literal)
		assert.True(t, ok, literal)
		assert.Equal(t, want, st, literal)
	}
}

func TestParseStatusUnknown(t *testing.T) {
	_, ok := ParseStatus("Shipped to Mars")
	assert.False(t, ok)
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.False(t, StatusCancelled.Terminal())
	assert.False(t, StatusPlaced.Terminal())
}

func TestDisplayVI(t *testing.T) {
	assert.Equal(t, "Đã giao hàng", StatusDelivered.DisplayVI())
	assert.Equal(t, "unknown", OrderStatus("unknown").DisplayVI())
}
