package models

import "time"

// OrderItem is a product line snapshotted at order time. Later catalog edits
// do not change historical orders.
type OrderItem struct {
	ProductID string `json:"productid" bson:"productid"`
	Name      string `json:"name" bson:"name"`
	Price     int64  `json:"price" bson:"price"`
	Category  string `json:"category,omitempty" bson:"category,omitempty"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Address is the shipping address embedded in an order.
type Address struct {
	FullName string `json:"fullName" bson:"fullName"`
	Phone    string `json:"phone" bson:"phone"`
	Street   string `json:"street" bson:"street"`
	Ward     string `json:"ward,omitempty" bson:"ward,omitempty"`
	District string `json:"district,omitempty" bson:"district,omitempty"`
	Province string `json:"province" bson:"province"`
}

// Order is a finalized order document.
type Order struct {
	OrderID       string      `json:"orderId" bson:"orderid"`
	UserID        string      `json:"userId" bson:"userid"`
	Items         []OrderItem `json:"items" bson:"items"`
	Subtotal      int64       `json:"subtotal" bson:"subtotal"`
	Discount      int64       `json:"discount,omitempty" bson:"discount,omitempty"`
	ShippingFee   int64       `json:"shippingFee" bson:"shippingFee"`
	Amount        int64       `json:"amount" bson:"amount"`
	PromoCode     string      `json:"promoCode,omitempty" bson:"promoCode,omitempty"`
	Address       Address     `json:"address" bson:"address"`
	Status        string      `json:"status" bson:"status"`
	PaymentMethod string      `json:"paymentMethod" bson:"paymentMethod"` // "COD" or "Bank Transfer"
	Payment       bool        `json:"payment" bson:"payment"`
	Date          time.Time   `json:"date" bson:"date"`
}
