package handlers

import (
	"net/http"
	"strconv"
	"time"

	"shopfront/client"
	"shopfront/models"
	"shopfront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SellerHandler proxies the seller dashboard through the authenticated
// pipeline; authorization lives upstream.
type SellerHandler struct {
	API *client.Client
}

func (h *SellerHandler) Orders(c *gin.Context) {
	q := client.SellerOrdersQuery{
		Status: models.OrderStatus(c.Query("status")),
		Code:   c.Query("code"),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp"})
			return
		}
		q.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp"})
			return
		}
		q.To = &t
	}
	q.Page, _ = strconv.Atoi(c.Query("page"))
	q.Limit, _ = strconv.Atoi(c.Query("limit"))

	page, err := h.API.SellerOrders(c.Request.Context(), q)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *SellerHandler) Order(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.API.SellerOrder(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *SellerHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	order, err := h.API.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
