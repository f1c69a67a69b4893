package handlers

import (
	"net/http"

	"shopfront/client"
	"shopfront/state"
	"shopfront/utils"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	Cart *state.CartStore
	API  *client.Client
}

type checkoutRequest struct {
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	PaymentMethod   string `json:"payment_method" binding:"required"`
	PaymentRef      string `json:"payment_ref"`
}

// Checkout submits the current cart as an order. The cart is cleared
// only after the order is accepted upstream.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	cart := h.Cart.Snapshot()
	if len(cart.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	order, err := h.API.CreateOrder(c.Request.Context(), client.CheckoutRequest{
		Lines:           cart.Lines,
		CouponCode:      cart.CouponCode,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentRef:      req.PaymentRef,
	})
	if err != nil {
		upstreamError(c, err)
		return
	}

	h.Cart.Clear()
	c.JSON(http.StatusCreated, gin.H{"order": order})
}
