package routes

import (
	"net/http"

	"verso/admin"
	"verso/auth"
	"verso/cart"
	"verso/middleware"
	"verso/orders"
	"verso/pay"
	"verso/products"
	"verso/promos"
	"verso/ratelim"
	"verso/reviews"
	"verso/wishlist"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
	router.POST("/api/auth/forgot-password", rl.Limit(auth.ForgotPassword))
	router.POST("/api/auth/reset-password", rl.Limit(auth.ResetPassword))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.ListProducts)
	router.GET("/api/products/inventory", middleware.AdminOnly(products.GetInventory))
	router.GET("/api/product/:productid", products.GetProduct)
	router.GET("/api/product/:productid/reviews", reviews.GetReviews)
	router.GET("/api/product/:productid/can-review", middleware.Authenticate(reviews.CanReview))

	router.POST("/api/product", middleware.AdminOnly(products.CreateProduct))
	router.PUT("/api/product/:productid", middleware.AdminOnly(products.UpdateProduct))
	router.DELETE("/api/product/:productid", middleware.AdminOnly(products.DeleteProduct))
	router.POST("/api/product/update-stock", middleware.AdminOnly(products.UpdateStock))

	router.POST("/api/product/review", middleware.Authenticate(reviews.AddReview))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/order/place", rl.Limit(middleware.Authenticate(pay.Idempotent(orders.PlaceOrder))))
	router.POST("/api/order/bank-transfer", rl.Limit(middleware.Authenticate(pay.Idempotent(orders.PlaceBankTransferOrder))))
	router.POST("/api/order/complete-bank-transfer", middleware.Authenticate(pay.Idempotent(orders.CompleteBankTransfer)))
	router.POST("/api/order/cancel", middleware.Authenticate(orders.CancelOrder))
	router.POST("/api/order/status", middleware.AdminOnly(orders.UpdateOrderStatus))
	router.POST("/api/order/list", middleware.AdminOnly(orders.ListOrders))
	router.POST("/api/order/userorders", middleware.Authenticate(orders.UserOrders))
	router.POST("/api/order/check-purchased", middleware.Authenticate(orders.CheckPurchased))
	router.GET("/api/order/:orderid", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/order/:orderid/invoice", middleware.Authenticate(orders.PrintInvoice))
}

func AddPromotionRoutes(router *httprouter.Router) {
	router.POST("/api/promotion/validate", promos.ValidatePromotion)
	router.POST("/api/promotion/apply", middleware.Authenticate(promos.ApplyPromotion))

	router.POST("/api/promotion", middleware.AdminOnly(promos.CreatePromotion))
	router.GET("/api/promotion/list", middleware.AdminOnly(promos.ListPromotions))
	router.PUT("/api/promotion/:promoid", middleware.AdminOnly(promos.UpdatePromotion))
	router.DELETE("/api/promotion/:promoid", middleware.AdminOnly(promos.DeletePromotion))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart/add", middleware.Authenticate(cart.AddToCart))
	router.POST("/api/cart/update", middleware.Authenticate(cart.UpdateCart))

	router.GET("/api/wishlist", middleware.Authenticate(wishlist.GetWishlist))
	router.POST("/api/wishlist/add", middleware.Authenticate(wishlist.AddToWishlist))
	router.POST("/api/wishlist/remove", middleware.Authenticate(wishlist.RemoveFromWishlist))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/summary", middleware.AdminOnly(admin.GetSummary))
	router.GET("/api/admin/users", middleware.AdminOnly(admin.ListUsers))
}
