// Package handlers exposes the storefront's local HTTP surface: the
// on-device cart, wishlist, session, and recently-viewed state, plus
// proxied catalog, checkout, and seller operations against the
// upstream API.
package handlers

import (
	"errors"
	"net/http"

	"shopfront/client"

	"github.com/gin-gonic/gin"
)

// upstreamError maps a client error onto this server's response: API
// errors keep their status and message, transport failures become a
// 502.
func upstreamError(c *gin.Context, err error) {
	if errors.Is(err, client.ErrNoRefreshToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream API unavailable"})
}
