package promos

import (
	"testing"
	"time"

	"verso/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activePromo() *models.Promotion {
	now := time.Now()
	return &models.Promotion{
		Code:          "SALE10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(time.Hour),
		IsActive:      true,
	}
}

func TestValidatePercentageCapped(t *testing.T) {
	p := activePromo()
	p.MaxDiscountAmount = 40000

	// 10% of 500,000 is 50,000 but the cap wins.
	discount, err := Validate(p, 500000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(40000), discount)
}

func TestValidatePercentageUncapped(t *testing.T) {
	p := activePromo()

	discount, err := Validate(p, 500000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(50000), discount)
}

func TestValidateFixedDiscount(t *testing.T) {
	p := activePromo()
	p.DiscountType = models.DiscountFixed
	p.DiscountValue = 30000

	discount, err := Validate(p, 500000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(30000), discount)

	// Fixed discounts pay out in full even past the order value.
	discount, err = Validate(p, 20000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(30000), discount)
}

func TestValidateRejections(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		mutate     func(*models.Promotion)
		orderValue int64
		wantErr    error
	}{
		{
			name:       "inactive",
			mutate:     func(p *models.Promotion) { p.IsActive = false },
			orderValue: 100000,
			wantErr:    ErrInactive,
		},
		{
			name:       "not started",
			mutate:     func(p *models.Promotion) { p.StartDate = now.Add(time.Hour); p.EndDate = now.Add(2 * time.Hour) },
			orderValue: 100000,
			wantErr:    ErrNotStarted,
		},
		{
			name:       "expired",
			mutate:     func(p *models.Promotion) { p.StartDate = now.Add(-2 * time.Hour); p.EndDate = now.Add(-time.Hour) },
			orderValue: 100000,
			wantErr:    ErrExpired,
		},
		{
			name:       "usage limit reached",
			mutate:     func(p *models.Promotion) { p.UsageLimit = 5; p.UsageCount = 5 },
			orderValue: 100000,
			wantErr:    ErrUsageExceeded,
		},
		{
			name:       "below minimum order value",
			mutate:     func(p *models.Promotion) { p.MinOrderValue = 200000 },
			orderValue: 100000,
			wantErr:    ErrMinOrderValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := activePromo()
			tt.mutate(p)

			discount, err := Validate(p, tt.orderValue, now)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, discount)
		})
	}
}

func TestValidateUsageUnderLimit(t *testing.T) {
	p := activePromo()
	p.UsageLimit = 5
	p.UsageCount = 4

	_, err := Validate(p, 100000, time.Now())
	assert.NoError(t, err)
}

func TestAppliesTo(t *testing.T) {
	p := activePromo()
	assert.True(t, AppliesTo(p, "p123"), "empty allow-list applies to everything")

	p.ApplicableProducts = []string{"p1", "p2"}
	assert.True(t, AppliesTo(p, "p1"))
	assert.False(t, AppliesTo(p, "p123"))
}
