package promos

import (
	"errors"
	"time"

	"verso/models"
)

var (
	ErrNotFound      = errors.New("promotion not found")
	ErrInactive      = errors.New("promotion is not active")
	ErrNotStarted    = errors.New("promotion has not started yet")
	ErrExpired       = errors.New("promotion has expired")
	ErrUsageExceeded = errors.New("promotion usage limit reached")
	ErrMinOrderValue = errors.New("order value below promotion minimum")
)

// Validate checks a promotion against an order subtotal at a given instant and
// returns the discount amount. Percentage discounts are capped by
// MaxDiscountAmount when set; fixed discounts are the full DiscountValue even
// when that exceeds the order value.
func Validate(p *models.Promotion, orderValue int64, now time.Time) (int64, error) {
	if !p.IsActive {
		return 0, ErrInactive
	}
	if now.Before(p.StartDate) {
		return 0, ErrNotStarted
	}
	if now.After(p.EndDate) {
		return 0, ErrExpired
	}
	if p.UsageLimit > 0 && p.UsageCount >= p.UsageLimit {
		return 0, ErrUsageExceeded
	}
	if orderValue < p.MinOrderValue {
		return 0, ErrMinOrderValue
	}

	var discount int64
	switch p.DiscountType {
	case models.DiscountPercentage:
		discount = orderValue * p.DiscountValue / 100
		if p.MaxDiscountAmount > 0 && discount > p.MaxDiscountAmount {
			discount = p.MaxDiscountAmount
		}
	case models.DiscountFixed:
		discount = p.DiscountValue
	default:
		return 0, ErrInactive
	}
	return discount, nil
}

// AppliesTo reports whether the promotion covers a product. An empty
// allow-list covers everything.
func AppliesTo(p *models.Promotion, productID string) bool {
	if len(p.ApplicableProducts) == 0 {
		return true
	}
	for _, id := range p.ApplicableProducts {
		if id == productID {
			return true
		}
	}
	return false
}
