package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"verso/db"
	"verso/mq"
	"verso/rdx"
	"verso/stock"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	inventoryCacheKey = "inventory:report"
	inventoryCacheTTL = 30 * time.Second
	lowStockThreshold = 5
)

// POST /api/product/update-stock — admin. Body: {items: [{productid, quantity}], direction}.
func UpdateStock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Items     []stock.Item `json:"items"`
		Direction string       `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "items and direction are required")
		return
	}

	direction := stock.Direction(req.Direction)
	if direction != stock.Increase && direction != stock.Decrease {
		utils.RespondWithError(w, http.StatusBadRequest, "direction must be increase or decrease")
		return
	}

	stock.Adjust(ctx, req.Items, direction)
	rdx.RdxDel(inventoryCacheKey)

	for _, item := range req.Items {
		mq.Emit(ctx, "stock-adjusted", mq.Event{EntityType: "product", EntityID: item.ProductID, Action: "stock", Extra: string(direction)})
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

type inventoryRow struct {
	ProductID string `json:"productid" bson:"productid"`
	Name      string `json:"name" bson:"name"`
	Stock     int    `json:"stock" bson:"stock"`
	LowStock  bool   `json:"lowStock"`
}

// GET /api/products/inventory — admin stock report, cached briefly in Redis.
func GetInventory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if cached, err := rdx.RdxGet(inventoryCacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	opts := options.Find().
		SetProjection(bson.M{"productid": 1, "name": 1, "stock": 1}).
		SetSort(bson.D{{Key: "stock", Value: 1}})

	cursor, err := db.ProductCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Println("GetInventory find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch inventory")
		return
	}
	defer cursor.Close(ctx)

	var rows []inventoryRow
	if err := cursor.All(ctx, &rows); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading inventory")
		return
	}
	for i := range rows {
		rows[i].LowStock = rows[i].Stock <= lowStockThreshold
	}
	if rows == nil {
		rows = []inventoryRow{}
	}

	payload, err := json.Marshal(utils.M{"success": true, "inventory": rows})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to encode inventory")
		return
	}

	if err := rdx.SetWithExpiry(inventoryCacheKey, string(payload), inventoryCacheTTL); err != nil {
		log.Println("GetInventory cache error:", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
