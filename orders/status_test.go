package orders

import (
	"testing"

	"verso/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionIntoCancelledRestoresStock(t *testing.T) {
	effect, forcePaid, err := TransitionEffects(models.StatusPacking, models.StatusCancelled, PaymentCOD)
	require.NoError(t, err)
	assert.Equal(t, EffectRestore, effect)
	assert.False(t, forcePaid)
}

func TestTransitionOutOfCancelledDecrementsStock(t *testing.T) {
	effect, forcePaid, err := TransitionEffects(models.StatusCancelled, models.StatusPlaced, PaymentCOD)
	require.NoError(t, err)
	assert.Equal(t, EffectDecrement, effect)
	assert.False(t, forcePaid)
}

func TestDirectDeliveryAutoPaysCOD(t *testing.T) {
	// Placed straight to Delivered, skipping packing and shipping entirely.
	effect, forcePaid, err := TransitionEffects(models.StatusPlaced, models.StatusDelivered, PaymentCOD)
	require.NoError(t, err)
	assert.Equal(t, EffectNone, effect)
	assert.True(t, forcePaid)
}

func TestDeliveryDoesNotAutoPayBankTransfer(t *testing.T) {
	_, forcePaid, err := TransitionEffects(models.StatusOutForDelivery, models.StatusDelivered, PaymentBankTransfer)
	require.NoError(t, err)
	assert.False(t, forcePaid)
}

func TestDeliveredIsTerminal(t *testing.T) {
	_, _, err := TransitionEffects(models.StatusDelivered, models.StatusCancelled, PaymentCOD)
	assert.ErrorIs(t, err, ErrTerminalOrder)

	_, _, err = TransitionEffects(models.StatusDelivered, models.StatusPlaced, PaymentCOD)
	assert.ErrorIs(t, err, ErrTerminalOrder)
}

func TestSameStatusIsNoop(t *testing.T) {
	_, _, err := TransitionEffects(models.StatusPacking, models.StatusPacking, PaymentCOD)
	assert.ErrorIs(t, err, ErrAlreadySame)
}

func TestOrdinaryProgressionHasNoStockEffect(t *testing.T) {
	steps := []models.OrderStatus{
		models.StatusPacking,
		models.StatusHandedToCarrier,
		models.StatusOutForDelivery,
	}
	prev := models.StatusPlaced
	for _, next := range steps {
		effect, forcePaid, err := TransitionEffects(prev, next, PaymentCOD)
		require.NoError(t, err)
		assert.Equal(t, EffectNone, effect)
		assert.False(t, forcePaid)
		prev = next
	}
}
