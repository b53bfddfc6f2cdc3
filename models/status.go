package models

// OrderStatus is the closed set of order states. The canonical representation
// is English; Vietnamese display strings live in StatusDisplayVI. ParseStatus
// also accepts the Vietnamese literals so documents written by the older
// system still decode to the right state.
type OrderStatus string

const (
	StatusPlaced          OrderStatus = "Order placed"
	StatusPacking         OrderStatus = "Packing"
	StatusHandedToCarrier OrderStatus = "Handed to courier"
	StatusOutForDelivery  OrderStatus = "Out for delivery"
	StatusDelivered       OrderStatus = "Delivered"
	StatusCancelled       OrderStatus = "Cancelled"
)

// StatusDisplayVI maps canonical states to their Vietnamese storefront labels.
var StatusDisplayVI = map[OrderStatus]string{
	StatusPlaced:          "Đã đặt hàng",
	StatusPacking:         "Đang đóng gói",
	StatusHandedToCarrier: "Đã giao cho vận chuyển",
	StatusOutForDelivery:  "Đang giao hàng",
	StatusDelivered:       "Đã giao hàng",
	StatusCancelled:       "Đã hủy",
}

var legacyStatus = map[string]OrderStatus{
	"Order placed":           StatusPlaced,
	"Đã đặt hàng":            StatusPlaced,
	"Packing":                StatusPacking,
	"Đang đóng gói":          StatusPacking,
	"Handed to courier":      StatusHandedToCarrier,
	"Đã giao cho vận chuyển": StatusHandedToCarrier,
	"Out for delivery":       StatusOutForDelivery,
	"Đang giao hàng":         StatusOutForDelivery,
	"Delivered":              StatusDelivered,
	"Đã giao hàng":           StatusDelivered,
	"Cancelled":              StatusCancelled,
	"Đã hủy":                 StatusCancelled,
}

// ParseStatus resolves a stored or client-supplied status literal to its
// canonical state. ok is false for anything outside the closed set.
func ParseStatus(s string) (OrderStatus, bool) {
	st, ok := legacyStatus[s]
	return st, ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered
}

// DisplayVI returns the Vietnamese label, falling back to the canonical form.
func (s OrderStatus) DisplayVI() string {
	if vi, ok := StatusDisplayVI[s]; ok {
		return vi
	}
	return string(s)
}
