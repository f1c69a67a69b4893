package handlers

import (
	"net/http"

	"shopfront/state"
	"shopfront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WishlistHandler struct {
	Wishlist *state.WishlistStore
}

func (h *WishlistHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.Wishlist.Snapshot())
}

func (h *WishlistHandler) Add(c *gin.Context) {
	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	c.JSON(http.StatusOK, h.Wishlist.Add(req.ProductID))
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	c.JSON(http.StatusOK, h.Wishlist.Remove(productID))
}

func (h *WishlistHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.Wishlist.Clear())
}
