package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"verso/db"
	"verso/filemgr"
	"verso/models"
	"verso/mq"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/products
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if opts.Search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": opts.Search, "$options": "i"}},
			{"author": bson.M{"$regex": opts.Search, "$options": "i"}},
		}
	}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}

	sort := bson.D{{Key: "createdAt", Value: -1}}
	switch opts.Sort {
	case "price_asc":
		sort = bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		sort = bson.D{{Key: "price", Value: -1}}
	case "popular":
		sort = bson.D{{Key: "popular", Value: -1}, {Key: "createdAt", Value: -1}}
	}

	findOpts := options.Find().
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit)).
		SetSort(sort)

	cursor, err := db.ProductCollection.Find(ctx, filter, findOpts)
	if err != nil {
		log.Println("ListProducts find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading products")
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "products": list})
}

// GET /api/product/:productid
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": ps.ByName("productid")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "product": product})
}

// POST /api/product — admin. Multipart form with product fields and optional
// cover images.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	var product models.Product
	if err := json.Unmarshal([]byte(r.FormValue("product")), &product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product payload")
		return
	}
	if product.Name == "" || product.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}
	if product.Stock < 0 {
		product.Stock = 0
	}

	product.ProductID = "p" + utils.GenerateRandomString(10)
	product.Reviews = nil
	product.CreatedAt = time.Now()

	if r.MultipartForm != nil {
		images, err := filemgr.SaveFormImages(r.MultipartForm, "images", product.ProductID)
		if err != nil {
			log.Println("CreateProduct image save error:", err)
			utils.RespondWithError(w, http.StatusBadRequest, "Failed to save product images")
			return
		}
		product.Images = images
	}

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	mq.Emit(ctx, "product-created", mq.Event{EntityType: "product", EntityID: product.ProductID, Action: "created"})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "product": product})
}

// PUT /api/product/:productid — admin. Stock is owned by the stock adjuster;
// edits here never touch it.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid update payload")
		return
	}
	delete(updates, "productid")
	delete(updates, "stock")
	delete(updates, "reviews")
	updates["updatedAt"] = time.Now()

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": ps.ByName("productid")},
		bson.M{"$set": updates},
	)
	if err != nil {
		log.Println("UpdateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// DELETE /api/product/:productid — admin, hard delete.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{"productid": productID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	mq.Emit(ctx, "product-deleted", mq.Event{EntityType: "product", EntityID: productID, Action: "deleted"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
