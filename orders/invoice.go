package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"verso/db"
	"verso/models"
	"verso/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func invoiceSecret() []byte {
	if s := os.Getenv("INVOICE_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("invoice-secret")
}

// signedOrderRef returns "orderID|signature" so a scanned invoice QR can be
// verified against the server secret.
func signedOrderRef(orderID string) string {
	h := hmac.New(sha256.New, invoiceSecret())
	h.Write([]byte(orderID))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", orderID, sig)
}

// GET /api/order/:orderid/invoice — PDF invoice for the caller's own order.
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orderID := ps.ByName("orderid")

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != userID && !isAdmin(utils.GetRolesFromRequest(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "Not your order")
		return
	}

	qrPNG, err := qrcode.Encode(signedOrderRef(order.OrderID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.Date.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Customer: %s", order.Address.FullName))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Payment: %s", order.PaymentMethod))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(100, 8, "Item")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(40, 8, "Price")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		pdf.Cell(100, 7, item.Name)
		pdf.Cell(25, 7, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(40, 7, fmt.Sprintf("%d", item.Price*int64(item.Quantity)))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.Cell(0, 7, fmt.Sprintf("Subtotal: %d", order.Subtotal))
	pdf.Ln(6)
	if order.Discount > 0 {
		pdf.Cell(0, 7, fmt.Sprintf("Discount: -%d", order.Discount))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Shipping: %d", order.ShippingFee))
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %d", order.Amount))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
