package routes

import (
	"net/http"

	"shopfront/client"
	"shopfront/handlers"
	"shopfront/state"
	"shopfront/storage"

	"github.com/gin-gonic/gin"
)

// Stores bundles the app state handed to the route tree.
type Stores struct {
	Cart     *state.CartStore
	Wishlist *state.WishlistStore
	Session  *state.SessionStore
	Recent   *state.RecentStore
	Persist  storage.Store
}

// SetupRoutes registers the storefront's local API.
func SetupRoutes(r *gin.Engine, api *client.Client, stores Stores) {
	cart := &handlers.CartHandler{Cart: stores.Cart, API: api}
	wishlist := &handlers.WishlistHandler{Wishlist: stores.Wishlist}
	session := &handlers.SessionHandler{Session: stores.Session, API: api}
	catalog := &handlers.CatalogHandler{API: api, Recent: stores.Recent}
	checkout := &handlers.CheckoutHandler{Cart: stores.Cart, API: api}
	seller := &handlers.SellerHandler{API: api}
	prefs := &handlers.PrefsHandler{Store: stores.Persist}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/cart", cart.Get)
		v1.POST("/cart/items", cart.AddItem)
		v1.PUT("/cart/items/:id", cart.UpdateItem)
		v1.DELETE("/cart/items/:id", cart.RemoveItem)
		v1.POST("/cart/coupon", cart.ApplyCoupon)
		v1.DELETE("/cart/coupon", cart.RemoveCoupon)
		v1.DELETE("/cart", cart.Clear)

		v1.GET("/wishlist", wishlist.Get)
		v1.POST("/wishlist", wishlist.Add)
		v1.DELETE("/wishlist/:productId", wishlist.Remove)
		v1.DELETE("/wishlist", wishlist.Clear)

		v1.GET("/session", session.Get)
		v1.POST("/session/login", session.Login)
		v1.POST("/session/register", session.Register)
		v1.POST("/session/logout", session.Logout)
		v1.PUT("/session/profile", session.UpdateProfile)
		v1.POST("/session/change-password", session.ChangePassword)
		v1.POST("/session/forgot-password", session.ForgotPassword)
		v1.POST("/session/reset-password", session.ResetPassword)
		v1.POST("/session/verify-email", session.VerifyEmail)

		v1.GET("/categories", catalog.Categories)
		v1.GET("/categories/suggested", catalog.SuggestedCategories)
		v1.GET("/products/:id", catalog.GetProduct)
		v1.GET("/recently-viewed", catalog.RecentlyViewed)
		v1.DELETE("/recently-viewed", catalog.ClearRecentlyViewed)

		v1.POST("/checkout", checkout.Checkout)

		v1.GET("/seller/orders", seller.Orders)
		v1.GET("/seller/orders/:id", seller.Order)
		v1.PUT("/seller/orders/:id/status", seller.UpdateOrderStatus)

		v1.GET("/prefs/theme", prefs.GetTheme)
		v1.PUT("/prefs/theme", prefs.SetTheme)
	}
}
