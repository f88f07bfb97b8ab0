package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/handlers"
	"github.com/monbijou/storefront/internal/service/token"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	CartHandler     *handlers.CartHandler
	OrderHandler    *handlers.OrderHandler
	HireHandler     *handlers.HireHandler
	ReviewHandler   *handlers.ReviewHandler
	WishlistHandler *handlers.WishlistHandler
	InquiryHandler  *handlers.InquiryHandler
	SearchHandler   *handlers.SearchHandler
	TokenService    *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.GET("/search", d.SearchHandler.SearchProducts)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/slug/:slug", d.ProductHandler.GetProductBySlug)
	products.GET("/:productID/reviews", d.ReviewHandler.GetProductReviews)

	categories := v1.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:slug", d.CategoryHandler.GetCategoryBySlug)

	v1.POST("/inquiries", d.InquiryHandler.CreateInquiry, d.TokenService.OptionalAuth)

	// the cart and checkout are open to guests; a cookie identifies the cart
	cart := v1.Group("/cart", d.TokenService.OptionalAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.DELETE("/:productID", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	v1.POST("/orders", d.OrderHandler.Checkout, d.TokenService.OptionalAuth)
	v1.POST("/hire-requests", d.HireHandler.CreateHireRequest, d.TokenService.OptionalAuth)

	// account-scoped reads and writes need a logged-in user
	me := v1.Group("/me", d.TokenService.AutoRefreshMiddleware)
	me.GET("/orders", d.OrderHandler.MyOrders)
	me.GET("/hire-requests", d.HireHandler.MyHireRequests)
	me.GET("/wishlist", d.WishlistHandler.GetWishlist)
	me.POST("/wishlist", d.WishlistHandler.AddToWishlist)
	me.DELETE("/wishlist/:productID", d.WishlistHandler.RemoveFromWishlist)

	v1.POST("/reviews", d.ReviewHandler.CreateReview, d.TokenService.AutoRefreshMiddleware)

	admin := v1.Group("/admin", d.TokenService.RequireAdmin)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)

	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.GET("/orders/stats", d.OrderHandler.Stats)
	admin.GET("/orders/:id", d.OrderHandler.GetOrder)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)
	admin.PATCH("/orders/:id/payment", d.OrderHandler.UpdatePaymentStatus)

	admin.GET("/hire-requests", d.HireHandler.ListHireRequests)
	admin.GET("/hire-requests/stats", d.HireHandler.Stats)
	admin.GET("/hire-requests/:id", d.HireHandler.GetHireRequest)
	admin.PATCH("/hire-requests/:id/status", d.HireHandler.UpdateHireStatus)
	admin.POST("/hire-requests/:id/deposit", d.HireHandler.MarkDepositPaid)

	admin.GET("/inquiries", d.InquiryHandler.ListInquiries)
	admin.PATCH("/inquiries/:id", d.InquiryHandler.UpdateInquiry)

	admin.DELETE("/reviews/:id", d.ReviewHandler.DeleteReview)
}
