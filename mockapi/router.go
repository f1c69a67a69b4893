package mockapi

import (
	"net/http"

	"shopfront/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds a gin engine serving the full mock API against the
// given store.
func NewRouter(store *Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	auth := &AuthHandler{Store: store}
	catalog := &CatalogHandler{Store: store}
	cart := &CartHandler{Store: store}
	orders := &OrderHandler{Store: store}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/register", auth.Register)
		api.POST("/auth/login", auth.Login)
		api.POST("/auth/refresh", auth.Refresh)
		api.POST("/auth/forgot-password", auth.ForgotPassword)
		api.POST("/auth/reset-password", auth.ResetPassword)
		api.POST("/auth/verify-email", auth.VerifyEmail)

		api.GET("/categories", catalog.ListCategories)
		api.GET("/categories/suggested", catalog.SuggestedCategories)
		api.GET("/products/:id", catalog.GetProduct)

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/auth/logout", auth.Logout)
			authed.GET("/auth/profile", auth.GetProfile)
			authed.PUT("/auth/profile", auth.UpdateProfile)
			authed.POST("/auth/change-password", auth.ChangePassword)

			authed.GET("/cart", cart.List)
			authed.POST("/cart", cart.Add)
			authed.PUT("/cart/:id", cart.Update)
			authed.DELETE("/cart/:id", cart.Remove)

			authed.POST("/orders", orders.Create)

			seller := authed.Group("/seller")
			seller.Use(middleware.SellerMiddleware())
			{
				seller.GET("/orders", orders.SellerList)
				seller.GET("/orders/:id", orders.SellerGet)
				seller.PUT("/orders/:id/status", orders.SellerUpdateStatus)
			}
		}
	}

	return r
}
