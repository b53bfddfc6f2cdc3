package promos

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"verso/db"
	"verso/models"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindByCode loads a promotion by its normalized code.
func FindByCode(ctx context.Context, code string) (*models.Promotion, error) {
	var promo models.Promotion
	err := db.PromotionCollection.FindOne(ctx, bson.M{"code": normalizeCode(code)}).Decode(&promo)
	if err != nil {
		return nil, ErrNotFound
	}
	return &promo, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Redeem counts one use of a promotion for a specific order. The update is
// conditional on the usage limit and on the order not having redeemed before,
// so replays are no-ops.
func Redeem(ctx context.Context, code, orderID string) error {
	filter := bson.M{
		"code":        normalizeCode(code),
		"redemptions": bson.M{"$ne": orderID},
		"$or": []bson.M{
			{"usageLimit": bson.M{"$exists": false}},
			{"usageLimit": 0},
			{"$expr": bson.M{"$lt": []string{"$usageCount", "$usageLimit"}}},
		},
	}
	update := bson.M{
		"$inc":      bson.M{"usageCount": 1},
		"$addToSet": bson.M{"redemptions": orderID},
	}
	_, err := db.PromotionCollection.UpdateOne(ctx, filter, update)
	return err
}

// POST /api/promotion/validate — body: {code, orderValue}
func ValidatePromotion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Code       string `json:"code"`
		OrderValue int64  `json:"orderValue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	promo, err := FindByCode(ctx, req.Code)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": false, "message": "Promotion not found"})
		return
	}

	discount, err := Validate(promo, req.OrderValue, time.Now())
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": false, "message": err.Error()})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":        true,
		"promotion":      promo,
		"discountAmount": discount,
	})
}

// POST /api/promotion/apply — body: {code, orderId}
// Kept for the storefront's apply step; redemption is idempotent per order.
func ApplyPromotion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Code    string `json:"code"`
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.OrderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Code and orderId are required")
		return
	}

	if err := Redeem(ctx, req.Code, req.OrderID); err != nil {
		log.Println("ApplyPromotion redeem error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to apply promotion")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Promotion applied"})
}

// --- Admin CRUD ---

func CreatePromotion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var promo models.Promotion
	if err := json.NewDecoder(r.Body).Decode(&promo); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid promotion payload")
		return
	}
	promo.Code = normalizeCode(promo.Code)
	if promo.Code == "" || promo.DiscountValue <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Code and a positive discount value are required")
		return
	}
	if promo.DiscountType != models.DiscountPercentage && promo.DiscountType != models.DiscountFixed {
		utils.RespondWithError(w, http.StatusBadRequest, "discountType must be percentage or fixed")
		return
	}
	if promo.DiscountType == models.DiscountPercentage && promo.DiscountValue > 100 {
		utils.RespondWithError(w, http.StatusBadRequest, "Percentage discount cannot exceed 100")
		return
	}
	if !promo.EndDate.After(promo.StartDate) {
		utils.RespondWithError(w, http.StatusBadRequest, "endDate must be after startDate")
		return
	}

	if err := db.PromotionCollection.FindOne(ctx, bson.M{"code": promo.Code}).Err(); err == nil {
		utils.RespondWithError(w, http.StatusConflict, "Promotion code already exists")
		return
	}

	promo.PromoID = "pr" + utils.GenerateRandomString(10)
	promo.UsageCount = 0
	promo.Redemptions = nil
	promo.CreatedAt = time.Now()

	if _, err := db.PromotionCollection.InsertOne(ctx, promo); err != nil {
		log.Println("CreatePromotion insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create promotion")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "promotion": promo})
}

func ListPromotions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.PromotionCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch promotions")
		return
	}
	defer cursor.Close(ctx)

	var promos []models.Promotion
	if err := cursor.All(ctx, &promos); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading promotions")
		return
	}
	if promos == nil {
		promos = []models.Promotion{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "promotions": promos})
}

func UpdatePromotion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	promoID := ps.ByName("promoid")

	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid update payload")
		return
	}

	// Usage accounting is owned by Redeem, never by admin edits.
	delete(updates, "usageCount")
	delete(updates, "redemptions")
	delete(updates, "promoid")
	if code, ok := updates["code"].(string); ok {
		updates["code"] = normalizeCode(code)
	}

	res, err := db.PromotionCollection.UpdateOne(ctx,
		bson.M{"promoid": promoID},
		bson.M{"$set": updates},
	)
	if err != nil {
		log.Println("UpdatePromotion error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update promotion")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Promotion not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func DeletePromotion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.PromotionCollection.DeleteOne(ctx, bson.M{"promoid": ps.ByName("promoid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete promotion")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Promotion not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
