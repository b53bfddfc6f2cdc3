package stock

import (
	"context"
	"log"

	"verso/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// Item is a product/quantity pair for a batch adjustment.
type Item struct {
	ProductID string `json:"productid"`
	Quantity  int    `json:"quantity"`
}

// Clamp returns the stock after a signed adjustment, floored at zero on
// decrease and exact on increase.
func Clamp(stock, quantity int, direction Direction) int {
	if direction == Increase {
		return stock + quantity
	}
	if quantity >= stock {
		return 0
	}
	return stock - quantity
}

// Adjust applies a signed quantity delta to each item's stock. Per-item
// failures are logged and skipped; the rest of the batch still runs.
func Adjust(ctx context.Context, items []Item, direction Direction) {
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if err := adjustOne(ctx, item, direction); err != nil {
			log.Printf("stock adjust failed for %s (%s %d): %v", item.ProductID, direction, item.Quantity, err)
		}
	}
}

func adjustOne(ctx context.Context, item Item, direction Direction) error {
	if direction == Increase {
		res, err := db.ProductCollection.UpdateOne(ctx,
			bson.M{"productid": item.ProductID},
			bson.M{"$inc": bson.M{"stock": item.Quantity}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	}

	// Decrease with a clamp at zero: decrement when there is enough stock,
	// otherwise floor the field.
	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
		bson.M{"$inc": bson.M{"stock": -item.Quantity}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": item.ProductID},
		bson.M{"$set": bson.M{"stock": 0}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// TryDecrement atomically takes quantity units of stock. It succeeds only
// when the product currently has at least that many, so two concurrent
// placements can never both take the last unit.
func TryDecrement(ctx context.Context, productID string, quantity int) (bool, error) {
	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Restore returns previously decremented stock, exact add per item.
func Restore(ctx context.Context, items []Item) {
	Adjust(ctx, items, Increase)
}
