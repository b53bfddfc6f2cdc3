package models

import "time"

// ProductReview is embedded in the product document, append-only.
type ProductReview struct {
	Name    string    `json:"name" bson:"name"`
	Rating  int       `json:"rating" bson:"rating"` // 1..5
	Comment string    `json:"comment" bson:"comment"`
	Date    time.Time `json:"date" bson:"date"`
}

// Product is a catalog entry. Price is in the smallest currency unit (VND).
type Product struct {
	ProductID   string          `json:"productid" bson:"productid"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	Category    string          `json:"category,omitempty" bson:"category,omitempty"`
	Price       int64           `json:"price" bson:"price"`
	Stock       int             `json:"stock" bson:"stock"`
	Popular     bool            `json:"popular,omitempty" bson:"popular,omitempty"`
	NewArrival  bool            `json:"newArrival,omitempty" bson:"newArrival,omitempty"`
	Author      string          `json:"author,omitempty" bson:"author,omitempty"`
	Publisher   string          `json:"publisher,omitempty" bson:"publisher,omitempty"`
	Year        int             `json:"year,omitempty" bson:"year,omitempty"`
	Pages       int             `json:"pages,omitempty" bson:"pages,omitempty"`
	Images      []string        `json:"images,omitempty" bson:"images,omitempty"`
	Reviews     []ProductReview `json:"reviews,omitempty" bson:"reviews,omitempty"`
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
