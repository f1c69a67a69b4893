package middleware

import (
	"net/http"
	"strings"

	"shopfront/utils"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		if claims.ShopID != nil {
			c.Set("shop_id", *claims.ShopID)
		}
		c.Next()
	}
}

// SellerMiddleware requires the user to be a seller with a shop in
// their token.
func SellerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != "seller" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Seller access required"})
			c.Abort()
			return
		}

		if _, exists := c.Get("shop_id"); !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "No shop associated with this account"})
			c.Abort()
			return
		}

		c.Next()
	}
}
