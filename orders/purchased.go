package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"verso/db"
	"verso/models"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// hasPurchased reports whether any of the orders is a paid, delivered order
// containing the product. Status literals are parsed through the bilingual
// table so documents written by the older system still count.
func hasPurchased(orders []models.Order, productID string) bool {
	for _, order := range orders {
		if !order.Payment {
			continue
		}
		status, ok := models.ParseStatus(order.Status)
		if !ok || status != models.StatusDelivered {
			continue
		}
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true
			}
		}
	}
	return false
}

// HasPurchased scans a user's orders for a paid, delivered line matching the
// product. Reused by the review gate.
func HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userid": userID})
	if err != nil {
		return false, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return false, err
	}
	return hasPurchased(orders, productID), nil
}

// POST /api/order/check-purchased — body: {productid}. Identity comes from the
// token, never the body.
func CheckPurchased(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProductID string `json:"productid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "productid is required")
		return
	}

	purchased, err := HasPurchased(ctx, userID, req.ProductID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check purchase history")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "hasPurchased": purchased})
}
