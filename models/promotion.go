package models

import "time"

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Promotion is a redeemable discount rule. UsageLimit 0 means unlimited.
// Redemptions holds the order ids that consumed a use, so redeeming the same
// order twice never double-counts.
type Promotion struct {
	PromoID            string    `json:"promoId" bson:"promoid"`
	Code               string    `json:"code" bson:"code"`
	Description        string    `json:"description,omitempty" bson:"description,omitempty"`
	DiscountType       string    `json:"discountType" bson:"discountType"`
	DiscountValue      int64     `json:"discountValue" bson:"discountValue"`
	MinOrderValue      int64     `json:"minOrderValue,omitempty" bson:"minOrderValue,omitempty"`
	MaxDiscountAmount  int64     `json:"maxDiscountAmount,omitempty" bson:"maxDiscountAmount,omitempty"`
	StartDate          time.Time `json:"startDate" bson:"startDate"`
	EndDate            time.Time `json:"endDate" bson:"endDate"`
	IsActive           bool      `json:"isActive" bson:"isActive"`
	ApplicableProducts []string  `json:"applicableProducts,omitempty" bson:"applicableProducts,omitempty"`
	UsageLimit         int       `json:"usageLimit,omitempty" bson:"usageLimit,omitempty"`
	UsageCount         int       `json:"usageCount" bson:"usageCount"`
	Redemptions        []string  `json:"-" bson:"redemptions,omitempty"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
}
