package wishlist

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"verso/db"
	"verso/models"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GET /api/wishlist
func GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "wishlist": user.Wishlist})
}

func mutateWishlist(w http.ResponseWriter, r *http.Request, op string) {
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

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{op: bson.M{"wishlist": req.ProductID}},
	)
	if err != nil {
		log.Println("wishlist update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// POST /api/wishlist/add
func AddToWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mutateWishlist(w, r, "$addToSet")
}

// POST /api/wishlist/remove
func RemoveFromWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mutateWishlist(w, r, "$pull")
}
