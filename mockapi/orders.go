package mockapi

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"shopfront/models"
	"shopfront/state"
	"shopfront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	Store *Store
}

type checkoutRequest struct {
	Lines           []models.CartLine `json:"lines"`
	CouponCode      string            `json:"coupon_code"`
	DeliveryAddress string            `json:"delivery_address" binding:"required"`
	PaymentMethod   string            `json:"payment_method" binding:"required"`
	PaymentRef      string            `json:"payment_ref"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Create places an order from the submitted cart lines. Totals are
// recomputed server-side with the same rules the cart uses, so a
// tampered client cannot submit its own prices for discounts.
func (h *OrderHandler) Create(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if len(req.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		product, ok := h.Store.products[line.ProductID]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product in cart"})
			return
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		subtotal += product.Price * float64(qty)
		items = append(items, models.OrderItem{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			ImageURL:    product.ImageURL,
			SizeID:      line.SizeID,
			ColorID:     line.ColorID,
			Quantity:    qty,
			Price:       product.Price,
		})
	}
	subtotal = round2(subtotal)

	var discountPct float64
	if req.CouponCode != "" {
		pct, ok := state.ValidCoupons[req.CouponCode]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code"})
			return
		}
		discountPct = pct
	}

	discount := round2(subtotal * discountPct / 100)
	discounted := round2(subtotal - discount)
	tax := round2(discounted * state.TaxRate)
	var shipping float64
	if discounted <= state.FreeShippingThreshold {
		shipping = state.ShippingFlatFee
	}

	now := time.Now()
	order := models.Order{
		ID:              uuid.New(),
		OrderNumber:     h.Store.nextOrderNumber(),
		UserID:          userID(c),
		ShopID:          h.Store.shopID,
		Status:          models.OrderStatusPending,
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		Tax:             tax,
		Shipping:        shipping,
		Total:           round2(discounted + tax + shipping),
		CouponCode:      req.CouponCode,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentRef:      req.PaymentRef,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	h.Store.orders[order.ID] = order

	// Checkout consumes the server-side cart.
	delete(h.Store.carts, order.UserID)

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func sellerShopID(c *gin.Context) uuid.UUID {
	id, _ := c.Get("shop_id")
	return id.(uuid.UUID)
}

// SellerList returns one page of the shop's orders, newest first.
// Filters: status, code (order number substring), from/to (RFC3339,
// inclusive bounds on creation time).
func (h *OrderHandler) SellerList(c *gin.Context) {
	shopID := sellerShopID(c)

	status := models.OrderStatus(c.Query("status"))
	code := strings.ToUpper(c.Query("code"))

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp"})
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp"})
			return
		}
		to = &t
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	var matched []models.Order
	for _, order := range h.Store.orders {
		if order.ShopID != shopID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		if code != "" && !strings.Contains(strings.ToUpper(order.OrderNumber), code) {
			continue
		}
		if from != nil && order.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && order.CreatedAt.After(*to) {
			continue
		}
		matched = append(matched, order)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	orders := matched[start:end]
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, models.OrderPage{
		Orders: orders,
		Total:  int64(total),
		Page:   page,
		Limit:  limit,
		Pages:  pages,
	})
}

func (h *OrderHandler) SellerGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	order, ok := h.Store.orders[id]
	if !ok || order.ShopID != sellerShopID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) SellerUpdateStatus(c *gin.Context) {
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

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	order, ok := h.Store.orders[id]
	if !ok || order.ShopID != sellerShopID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cannot transition order from " + string(order.Status) + " to " + string(req.Status),
		})
		return
	}

	order.Status = req.Status
	order.UpdatedAt = time.Now()
	h.Store.orders[id] = order

	c.JSON(http.StatusOK, order)
}
