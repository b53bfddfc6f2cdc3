package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"verso/db"
	"verso/models"
	"verso/orders"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var errInvalidReview = errors.New("rating must be 1-5 and comment non-empty")

func validateReview(review models.ProductReview) error {
	if review.Rating < 1 || review.Rating > 5 || review.Comment == "" {
		return errInvalidReview
	}
	return nil
}

// GET /api/product/:productid/reviews
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": ps.ByName("productid")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	reviews := product.Reviews
	if reviews == nil {
		reviews = []models.ProductReview{}
	}

	skip, limit := utils.ParsePagination(r, 10, 100)
	if int(skip) >= len(reviews) {
		reviews = []models.ProductReview{}
	} else {
		end := int(skip) + int(limit)
		if end > len(reviews) {
			end = len(reviews)
		}
		reviews = reviews[skip:end]
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "reviews": reviews})
}

// GET /api/product/:productid/can-review
func CanReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	allowed, err := orders.HasPurchased(ctx, userID, ps.ByName("productid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check purchase history")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "canReview": allowed})
}

// POST /api/product/review — body: {productid, review}. The purchase gate is
// re-verified here regardless of what the storefront already checked.
func AddReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProductID string               `json:"productid"`
		Review    models.ProductReview `json:"review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "productid and review are required")
		return
	}
	if err := validateReview(req.Review); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	allowed, err := orders.HasPurchased(ctx, userID, req.ProductID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check purchase history")
		return
	}
	if !allowed {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success": false,
			"message": "Only buyers of a delivered order can review this product",
		})
		return
	}

	if req.Review.Name == "" {
		var user models.User
		if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err == nil {
			req.Review.Name = user.Name
		}
	}
	req.Review.Date = time.Now()

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": req.ProductID},
		bson.M{"$push": bson.M{"reviews": req.Review}},
	)
	if err != nil {
		log.Println("AddReview push error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add review")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": req.ProductID}).Decode(&product); err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "reviews": product.Reviews})
}
