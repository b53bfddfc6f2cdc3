package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"verso/db"
	"verso/models"
	"verso/mq"
	"verso/promos"
	"verso/stock"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	PaymentCOD          = "COD"
	PaymentBankTransfer = "Bank Transfer"

	shippingFeeHanoi   = 20000
	shippingFeeDefault = 40000
)

type itemRequest struct {
	ProductID string `json:"productid"`
	Quantity  int    `json:"quantity"`
}

type placeRequest struct {
	Items       []itemRequest  `json:"items"`
	Address     models.Address `json:"address"`
	PromoCode   string         `json:"promoCode,omitempty"`
	ShippingFee int64          `json:"shippingFee,omitempty"`
}

// shippingFee honors an explicit client fee, otherwise charges by province.
func shippingFee(address models.Address, explicit int64) int64 {
	if explicit > 0 {
		return explicit
	}
	if address.Province == "Hà Nội" {
		return shippingFeeHanoi
	}
	return shippingFeeDefault
}

// buildOrderItems snapshots catalog data into order lines, pricing each line
// from the server-side product record, and returns the subtotal plus the ids
// whose current stock cannot cover the requested quantity.
func buildOrderItems(reqs []itemRequest, products map[string]models.Product) ([]models.OrderItem, int64, []string) {
	var items []models.OrderItem
	var subtotal int64
	var insufficient []string

	for _, req := range reqs {
		p := products[req.ProductID]
		if p.Stock < req.Quantity {
			insufficient = append(insufficient, req.ProductID)
			continue
		}
		items = append(items, models.OrderItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Category:  p.Category,
			Quantity:  req.Quantity,
		})
		subtotal += p.Price * int64(req.Quantity)
	}
	return items, subtotal, insufficient
}

func loadProducts(ctx context.Context, reqs []itemRequest) (map[string]models.Product, []string, error) {
	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ProductID)
	}

	cursor, err := db.ProductCollection.Find(ctx, bson.M{"productid": bson.M{"$in": ids}})
	if err != nil {
		return nil, nil, err
	}
	defer cursor.Close(ctx)

	var found []models.Product
	if err := cursor.All(ctx, &found); err != nil {
		return nil, nil, err
	}

	products := make(map[string]models.Product, len(found))
	for _, p := range found {
		products[p.ProductID] = p
	}

	var missing []string
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			missing = append(missing, id)
		}
	}
	return products, missing, nil
}

// Swappable in tests; placement compensation must hold without a database.
var (
	tryDecrement = stock.TryDecrement
	restoreStock = stock.Restore
)

// takeStock decrements every line atomically. If a line fails the conditional
// decrement, everything already taken is put back and the failing id returned.
func takeStock(ctx context.Context, items []models.OrderItem) (string, error) {
	var taken []stock.Item
	for _, item := range items {
		ok, err := tryDecrement(ctx, item.ProductID, item.Quantity)
		if err != nil || !ok {
			restoreStock(ctx, taken)
			if err != nil {
				return item.ProductID, err
			}
			return item.ProductID, nil
		}
		taken = append(taken, stock.Item{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return "", nil
}

func stockItems(items []models.OrderItem) []stock.Item {
	out := make([]stock.Item, 0, len(items))
	for _, item := range items {
		out = append(out, stock.Item{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

// promoCovers reports whether at least one order line is in the promotion's
// product allow-list.
func promoCovers(p *models.Promotion, items []models.OrderItem) bool {
	for _, item := range items {
		if promos.AppliesTo(p, item.ProductID) {
			return true
		}
	}
	return false
}

func clearCart(ctx context.Context, userID string) {
	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"cart": map[string]int{}}},
	)
	if err != nil {
		log.Println("cart cleanup error:", err)
	}
}

func placeOrder(w http.ResponseWriter, r *http.Request, paymentMethod string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order payload")
		return
	}
	if len(req.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order has no items")
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid item quantity")
			return
		}
	}
	if req.Address.Province == "" || req.Address.FullName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Shipping address is incomplete")
		return
	}

	products, missing, err := loadProducts(ctx, req.Items)
	if err != nil {
		log.Println("placeOrder product load error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	if len(missing) > 0 {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success": false,
			"message": "Some products no longer exist",
			"missing": missing,
		})
		return
	}

	items, subtotal, insufficient := buildOrderItems(req.Items, products)
	if len(insufficient) > 0 {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success":      false,
			"message":      "Insufficient stock",
			"insufficient": insufficient,
		})
		return
	}

	var discount int64
	if req.PromoCode != "" {
		promo, err := promos.FindByCode(ctx, req.PromoCode)
		if err != nil {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": false, "message": "Promotion not found"})
			return
		}
		if !promoCovers(promo, items) {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": false, "message": "Promotion does not apply to these products"})
			return
		}
		discount, err = promos.Validate(promo, subtotal, time.Now())
		if err != nil {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": false, "message": err.Error()})
			return
		}
	}

	fee := shippingFee(req.Address, req.ShippingFee)

	// Atomic per-line decrement; a concurrent order racing us on the last
	// units loses here, not at delivery time.
	if failedID, err := takeStock(ctx, items); failedID != "" || err != nil {
		if err != nil {
			log.Println("placeOrder stock error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reserve stock")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success":      false,
			"message":      "Insufficient stock",
			"insufficient": []string{failedID},
		})
		return
	}

	order := models.Order{
		OrderID:       "ORD-" + utils.GetUUID(),
		UserID:        userID,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      discount,
		ShippingFee:   fee,
		Amount:        subtotal - discount + fee,
		PromoCode:     req.PromoCode,
		Address:       req.Address,
		Status:        string(models.StatusPlaced),
		PaymentMethod: paymentMethod,
		Payment:       false,
		Date:          time.Now(),
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Println("placeOrder insert error:", err)
		stock.Restore(ctx, stockItems(items))
		utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
		return
	}

	if req.PromoCode != "" {
		if err := promos.Redeem(ctx, req.PromoCode, order.OrderID); err != nil {
			log.Println("placeOrder promo redeem error:", err)
		}
	}

	// COD checkout is done; a bank transfer keeps the cart until the
	// transfer is confirmed, so an abandoned payment loses nothing.
	if paymentMethod == PaymentCOD {
		clearCart(ctx, userID)
	}

	mq.Emit(ctx, "order-placed", mq.Event{EntityType: "order", EntityID: order.OrderID, Action: "placed"})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Order placed",
		"orderId": order.OrderID,
		"amount":  order.Amount,
	})
}

// POST /api/order/place
func PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	placeOrder(w, r, PaymentCOD)
}

// POST /api/order/bank-transfer
func PlaceBankTransferOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	placeOrder(w, r, PaymentBankTransfer)
}

// POST /api/order/complete-bank-transfer — marks the transfer received and
// finishes the two-phase checkout. Trusts the caller; there is no gateway
// callback in this flow.
func CompleteBankTransfer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": req.OrderID, "userid": userID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.PaymentMethod != PaymentBankTransfer {
		utils.RespondWithError(w, http.StatusBadRequest, "Order is not a bank transfer")
		return
	}

	_, err = db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": req.OrderID},
		bson.M{"$set": bson.M{"payment": true}},
	)
	if err != nil {
		log.Println("CompleteBankTransfer update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to complete transfer")
		return
	}

	clearCart(ctx, userID)

	mq.Emit(ctx, "order-paid", mq.Event{EntityType: "order", EntityID: order.OrderID, Action: "paid"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Bank transfer recorded"})
}
