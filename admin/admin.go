package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"verso/db"
	"verso/models"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type statusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

// GET /api/admin/summary — dashboard aggregates for the admin UI.
func GetSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orderCount, err := db.OrderCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count orders")
		return
	}
	userCount, _ := db.UserCollection.CountDocuments(ctx, bson.M{})
	productCount, _ := db.ProductCollection.CountDocuments(ctx, bson.M{})
	lowStockCount, _ := db.ProductCollection.CountDocuments(ctx, bson.M{"stock": bson.M{"$lte": 5}})

	// Revenue counts paid orders only.
	revenuePipeline := []bson.M{
		{"$match": bson.M{"payment": true}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
	}
	var revenue int64
	cursor, err := db.OrderCollection.Aggregate(ctx, revenuePipeline)
	if err == nil {
		var rows []struct {
			Total int64 `bson:"total"`
		}
		if err := cursor.All(ctx, &rows); err == nil && len(rows) > 0 {
			revenue = rows[0].Total
		}
	} else {
		log.Println("GetSummary revenue aggregate error:", err)
	}

	statusPipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	var byStatus []statusCount
	cursor, err = db.OrderCollection.Aggregate(ctx, statusPipeline)
	if err == nil {
		if err := cursor.All(ctx, &byStatus); err != nil {
			log.Println("GetSummary status aggregate error:", err)
		}
	}
	if byStatus == nil {
		byStatus = []statusCount{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":        true,
		"orders":         orderCount,
		"users":          userCount,
		"products":       productCount,
		"lowStock":       lowStockCount,
		"revenue":        revenue,
		"ordersByStatus": byStatus,
	})
}

// GET /api/admin/users — paginated user list, password hashes excluded.
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 50, 200)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0, "refresh_token": 0})

	cursor, err := db.UserCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "users": users})
}
