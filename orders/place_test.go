package orders

import (
	"context"
	"errors"
	"testing"

	"verso/models"
	"verso/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippingFee(t *testing.T) {
	hanoi := models.Address{Province: "Hà Nội"}
	hue := models.Address{Province: "Huế"}

	assert.Equal(t, int64(shippingFeeHanoi), shippingFee(hanoi, 0))
	assert.Equal(t, int64(shippingFeeDefault), shippingFee(hue, 0))

	// An explicit client fee is honored.
	assert.Equal(t, int64(15000), shippingFee(hue, 15000))
	assert.Equal(t, int64(15000), shippingFee(hanoi, 15000))
}

func catalog() map[string]models.Product {
	return map[string]models.Product{
		"p1": {ProductID: "p1", Name: "Cien años de soledad", Price: 120000, Stock: 10, Category: "fiction"},
		"p2": {ProductID: "p2", Name: "Đắc Nhân Tâm", Price: 86000, Stock: 2, Category: "self-help"},
	}
}

func TestBuildOrderItemsSnapshotsCatalogPrices(t *testing.T) {
	reqs := []itemRequest{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}

	items, subtotal, insufficient := buildOrderItems(reqs, catalog())
	assert.Empty(t, insufficient)
	assert.Equal(t, int64(2*120000+86000), subtotal)

	assert.Len(t, items, 2)
	assert.Equal(t, "Cien años de soledad", items[0].Name)
	assert.Equal(t, int64(120000), items[0].Price)
	assert.Equal(t, "fiction", items[0].Category)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestBuildOrderItemsInsufficientStock(t *testing.T) {
	// stock=2, requested=3: the line is rejected and reported.
	reqs := []itemRequest{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 3},
	}

	_, _, insufficient := buildOrderItems(reqs, catalog())
	assert.Equal(t, []string{"p2"}, insufficient)
}

func TestBuildOrderItemsExactStock(t *testing.T) {
	reqs := []itemRequest{{ProductID: "p2", Quantity: 2}}

	items, subtotal, insufficient := buildOrderItems(reqs, catalog())
	assert.Empty(t, insufficient)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(172000), subtotal)
}

func TestPromoCovers(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	}

	open := &models.Promotion{}
	assert.True(t, promoCovers(open, items), "empty allow-list covers every order")

	scoped := &models.Promotion{ApplicableProducts: []string{"p2"}}
	assert.True(t, promoCovers(scoped, items))

	elsewhere := &models.Promotion{ApplicableProducts: []string{"p9"}}
	assert.False(t, promoCovers(elsewhere, items))
}

func stubStock(t *testing.T, try func(context.Context, string, int) (bool, error)) *[]stock.Item {
	t.Helper()
	origTry, origRestore := tryDecrement, restoreStock
	t.Cleanup(func() { tryDecrement, restoreStock = origTry, origRestore })

	var restored []stock.Item
	tryDecrement = try
	restoreStock = func(_ context.Context, items []stock.Item) { restored = append(restored, items...) }
	return &restored
}

func TestTakeStockAllLinesSucceed(t *testing.T) {
	restored := stubStock(t, func(_ context.Context, _ string, _ int) (bool, error) {
		return true, nil
	})

	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}
	failedID, err := takeStock(context.Background(), items)
	require.NoError(t, err)
	assert.Empty(t, failedID)
	assert.Empty(t, *restored)
}

func TestTakeStockRollsBackOnInsufficientLine(t *testing.T) {
	restored := stubStock(t, func(_ context.Context, id string, _ int) (bool, error) {
		return id != "p2", nil
	})

	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p3", Quantity: 4},
	}
	failedID, err := takeStock(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, "p2", failedID)

	// Only the lines taken before the failure are put back; p3 was never
	// reached and p2 never decremented.
	assert.Equal(t, []stock.Item{{ProductID: "p1", Quantity: 2}}, *restored)
}

func TestTakeStockRollsBackOnError(t *testing.T) {
	boom := errors.New("write failed")
	restored := stubStock(t, func(_ context.Context, id string, _ int) (bool, error) {
		if id == "p2" {
			return false, boom
		}
		return true, nil
	})

	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}
	failedID, err := takeStock(context.Background(), items)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "p2", failedID)
	assert.Equal(t, []stock.Item{{ProductID: "p1", Quantity: 2}}, *restored)
}

func TestStockItems(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}
	out := stockItems(items)
	assert.Len(t, out, 2)
	assert.Equal(t, "p1", out[0].ProductID)
	assert.Equal(t, 2, out[0].Quantity)
}
