package handlers

import (
	"errors"
	"net/http"

	"shopfront/client"
	"shopfront/state"
	"shopfront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	Cart *state.CartStore
	API  *client.Client
}

func (h *CartHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.Cart.Snapshot())
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	SizeID    string    `json:"size_id"`
	ColorID   string    `json:"color_id"`
	Quantity  int       `json:"quantity"`
}

// AddItem looks the product up so the cart line carries the catalog
// price, not a client-supplied one.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	product, err := h.API.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		upstreamError(c, err)
		return
	}

	cart := h.Cart.AddItem(product, req.SizeID, req.ColorID, req.Quantity)
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart line ID"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	c.JSON(http.StatusOK, h.Cart.UpdateQuantity(lineID, req.Quantity))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart line ID"})
		return
	}

	c.JSON(http.StatusOK, h.Cart.RemoveItem(lineID))
}

func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	cart, err := h.Cart.ApplyCoupon(req.Code)
	if err != nil {
		if errors.Is(err, state.ErrInvalidCoupon) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply coupon"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	c.JSON(http.StatusOK, h.Cart.RemoveCoupon())
}

func (h *CartHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.Cart.Clear())
}
