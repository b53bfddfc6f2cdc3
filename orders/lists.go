package orders

import (
	"context"
	"net/http"
	"time"

	"verso/db"
	"verso/models"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func findOrders(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Order, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// POST /api/order/list — admin, all orders.
func ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 50, 200)

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if st, ok := models.ParseStatus(status); ok {
			filter["status"] = string(st)
		}
	}

	orders, err := findOrders(ctx, filter, skip, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "orders": orders})
}

// POST /api/order/userorders — the caller's own orders.
func UserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	skip, limit := utils.ParsePagination(r, 50, 200)
	orders, err := findOrders(ctx, bson.M{"userid": userID}, skip, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "orders": orders})
}

// GET /api/order/:orderid — owner or admin.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": ps.ByName("orderid")}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if order.UserID != userID && !isAdmin(utils.GetRolesFromRequest(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "Not your order")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "order": order})
}

func isAdmin(roles []string) bool {
	for _, role := range roles {
		if role == "admin" {
			return true
		}
	}
	return false
}
