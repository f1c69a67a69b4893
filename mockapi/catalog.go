package mockapi

import (
	"net/http"

	"shopfront/models"
	"shopfront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	Store *Store
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	c.JSON(http.StatusOK, h.Store.categories)
}

func (h *CatalogHandler) SuggestedCategories(c *gin.Context) {
	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	suggested := make([]models.Category, 0, len(h.Store.suggested))
	for _, cat := range h.Store.categories {
		if h.Store.suggested[cat.ID] {
			suggested = append(suggested, cat)
		}
	}
	c.JSON(http.StatusOK, suggested)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	product, ok := h.Store.products[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	for _, cat := range h.Store.categories {
		if cat.ID == product.CategoryID {
			category := cat
			product.Category = &category
			break
		}
	}

	c.JSON(http.StatusOK, product)
}

type CartHandler struct {
	Store *Store
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	SizeID    string    `json:"size_id"`
	ColorID   string    `json:"color_id"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

func userID(c *gin.Context) uuid.UUID {
	id, _ := c.Get("user_id")
	return id.(uuid.UUID)
}

func (h *CartHandler) List(c *gin.Context) {
	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	items := h.Store.carts[userID(c)]
	if items == nil {
		items = []cartItem{}
	}
	c.JSON(http.StatusOK, items)
}

// Add merges into an existing line when the product and variant match,
// mirroring how the on-device cart behaves.
func (h *CartHandler) Add(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	product, ok := h.Store.products[req.ProductID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	uid := userID(c)
	items := h.Store.carts[uid]
	for i := range items {
		if items[i].ProductID == req.ProductID && items[i].SizeID == req.SizeID && items[i].ColorID == req.ColorID {
			items[i].Quantity += req.Quantity
			h.Store.carts[uid] = items
			c.JSON(http.StatusOK, items[i])
			return
		}
	}

	item := cartItem{
		ID:        uuid.New(),
		ProductID: req.ProductID,
		Product:   product,
		SizeID:    req.SizeID,
		ColorID:   req.ColorID,
		Quantity:  req.Quantity,
	}
	h.Store.carts[uid] = append(items, item)
	c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	uid := userID(c)
	items := h.Store.carts[uid]
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = req.Quantity
			h.Store.carts[uid] = items
			c.JSON(http.StatusOK, items[i])
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
}

func (h *CartHandler) Remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	uid := userID(c)
	items := h.Store.carts[uid]
	for i := range items {
		if items[i].ID == id {
			h.Store.carts[uid] = append(items[:i], items[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
}
