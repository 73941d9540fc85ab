package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sickfits/backend/internal/interfaces/http/handler"
)

// Handlers bundles the API handlers mounted under /api/v1
type Handlers struct {
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Items  *handler.ItemHandler
	Cart   *handler.CartHandler
	Orders *handler.OrderHandler
}

// APIRoutes builds the storefront route groups. authLimit guards the
// credential endpoints and may be nil.
func APIRoutes(h Handlers, authLimit gin.HandlerFunc) []*DomainGroup {
	limited := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if authLimit == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{authLimit, fn}
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/signup", limited(h.Auth.Signup)...)
	authRoutes.POST("/signin", limited(h.Auth.Signin)...)
	authRoutes.POST("/signout", h.Auth.Signout)
	authRoutes.GET("/me", h.Auth.Me)
	authRoutes.POST("/request-reset", limited(h.Auth.RequestReset)...)
	authRoutes.POST("/reset-password", limited(h.Auth.ResetPassword)...)

	userRoutes := NewDomainGroup("users", "/users")
	userRoutes.GET("", h.Users.ListUsers)
	userRoutes.PUT("/:id/permissions", h.Users.UpdatePermissions)

	itemRoutes := NewDomainGroup("items", "/items")
	itemRoutes.GET("", h.Items.ListItems)
	itemRoutes.POST("", h.Items.CreateItem)
	itemRoutes.POST("/uploads", h.Items.RequestImageUpload)
	itemRoutes.GET("/:id", h.Items.GetItem)
	itemRoutes.PATCH("/:id", h.Items.UpdateItem)
	itemRoutes.DELETE("/:id", h.Items.DeleteItem)

	cartRoutes := NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", h.Cart.GetCart)
	cartRoutes.POST("/items", h.Cart.AddToCart)
	cartRoutes.DELETE("/items/:id", h.Cart.RemoveFromCart)

	checkoutRoutes := NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.POST("", h.Orders.Checkout)

	orderRoutes := NewDomainGroup("orders", "/orders")
	orderRoutes.GET("", h.Orders.ListOrders)
	orderRoutes.GET("/:id", h.Orders.GetOrder)
	orderRoutes.POST("/:id/clear-cart", h.Orders.RetryCartClear)

	return []*DomainGroup{authRoutes, userRoutes, itemRoutes, cartRoutes, checkoutRoutes, orderRoutes}
}
