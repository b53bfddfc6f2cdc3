package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"verso/db"
	"verso/models"
	"verso/mq"
	"verso/stock"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// StockEffect is the side effect a status change has on inventory.
type StockEffect int

const (
	EffectNone StockEffect = iota
	EffectRestore
	EffectDecrement
)

var (
	ErrTerminalOrder    = errors.New("order is already delivered")
	ErrUnknownStatus    = errors.New("unknown order status")
	ErrAlreadySame      = errors.New("order is already in that status")
	ErrNotOwner         = errors.New("order does not belong to this user")
	ErrAlreadyDelivered = errors.New("delivered orders cannot be cancelled")
)

// TransitionEffects computes what a status change does beyond rewriting the
// field: cancellation restores stock, leaving cancellation takes it again, and
// a COD delivery marks the order paid. Delivered is terminal.
func TransitionEffects(oldStatus, newStatus models.OrderStatus, paymentMethod string) (StockEffect, bool, error) {
	if oldStatus == newStatus {
		return EffectNone, false, ErrAlreadySame
	}
	if oldStatus.Terminal() {
		return EffectNone, false, ErrTerminalOrder
	}

	effect := EffectNone
	if newStatus == models.StatusCancelled {
		effect = EffectRestore
	} else if oldStatus == models.StatusCancelled {
		effect = EffectDecrement
	}

	forcePaid := newStatus == models.StatusDelivered && paymentMethod == PaymentCOD
	return effect, forcePaid, nil
}

// POST /api/order/status — admin. Body: {orderId, status}.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "orderId and status are required")
		return
	}

	newStatus, ok := models.ParseStatus(req.Status)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, ErrUnknownStatus.Error())
		return
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": req.OrderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	oldStatus, ok := models.ParseStatus(order.Status)
	if !ok {
		// Pre-migration document with a free-text status; treat as placed.
		oldStatus = models.StatusPlaced
	}

	effect, forcePaid, err := TransitionEffects(oldStatus, newStatus, order.PaymentMethod)
	if err != nil {
		if errors.Is(err, ErrAlreadySame) {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Status unchanged"})
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": false, "message": err.Error()})
		return
	}

	switch effect {
	case EffectRestore:
		stock.Restore(ctx, stockItems(order.Items))
	case EffectDecrement:
		// Availability is re-checked when an order leaves Cancelled.
		if failedID, err := takeStock(ctx, order.Items); failedID != "" || err != nil {
			if err != nil {
				log.Println("UpdateOrderStatus stock error:", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reserve stock")
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, utils.M{
				"success":      false,
				"message":      "Insufficient stock to reinstate order",
				"insufficient": []string{failedID},
			})
			return
		}
	}

	update := bson.M{"status": string(newStatus)}
	if forcePaid {
		update["payment"] = true
	}

	if _, err := db.OrderCollection.UpdateOne(ctx, bson.M{"orderid": req.OrderID}, bson.M{"$set": update}); err != nil {
		log.Println("UpdateOrderStatus update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	mq.Emit(ctx, "order-status", mq.Event{EntityType: "order", EntityID: req.OrderID, Action: "status", Extra: string(newStatus)})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// POST /api/order/cancel — user-initiated. Owner-guarded; delivered orders
// cannot be cancelled; stock is restored exactly once.
func CancelOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": req.OrderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, ErrNotOwner.Error())
		return
	}

	status, _ := models.ParseStatus(order.Status)
	if status.Terminal() {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": false, "message": ErrAlreadyDelivered.Error()})
		return
	}
	if status == models.StatusCancelled {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Order already cancelled"})
		return
	}

	stock.Restore(ctx, stockItems(order.Items))

	_, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": req.OrderID},
		bson.M{"$set": bson.M{"status": string(models.StatusCancelled)}},
	)
	if err != nil {
		log.Println("CancelOrder update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	mq.Emit(ctx, "order-cancelled", mq.Event{EntityType: "order", EntityID: req.OrderID, Action: "cancelled"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Order cancelled"})
}
