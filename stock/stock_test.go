package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampDecrease(t *testing.T) {
	assert.Equal(t, 7, Clamp(10, 3, Decrease))
	assert.Equal(t, 0, Clamp(10, 10, Decrease))

	// Decrement below zero floors at zero instead of going negative.
	assert.Equal(t, 0, Clamp(2, 3, Decrease))
	assert.Equal(t, 0, Clamp(0, 5, Decrease))
}

func TestClampIncrease(t *testing.T) {
	assert.Equal(t, 13, Clamp(10, 3, Increase))
	assert.Equal(t, 5, Clamp(0, 5, Increase))
}
