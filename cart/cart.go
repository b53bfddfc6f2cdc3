package cart

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

// The cart is a productid -> quantity map embedded in the user document, so
// every mutation is a single field update on that document.

// GET /api/cart
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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
	if user.Cart == nil {
		user.Cart = map[string]int{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "cart": user.Cart})
}

// POST /api/cart/add — body: {productid, quantity}. Increments the quantity.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProductID string `json:"productid"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" || req.Quantity <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "productid and a positive quantity are required")
		return
	}

	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": req.ProductID}).Err(); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$inc": bson.M{"cart." + req.ProductID: req.Quantity}},
	)
	if err != nil {
		log.Println("AddToCart update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Added to cart"})
}

// POST /api/cart/update — body: {productid, quantity}. Sets the quantity;
// zero removes the line.
func UpdateCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProductID string `json:"productid"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" || req.Quantity < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "productid and a non-negative quantity are required")
		return
	}

	var update bson.M
	if req.Quantity == 0 {
		update = bson.M{"$unset": bson.M{"cart." + req.ProductID: ""}}
	} else {
		update = bson.M{"$set": bson.M{"cart." + req.ProductID: req.Quantity}}
	}

	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, update); err != nil {
		log.Println("UpdateCart update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Cart updated"})
}
