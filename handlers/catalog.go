package handlers

import (
	"net/http"

	"shopfront/client"
	"shopfront/state"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	API    *client.Client
	Recent *state.RecentStore
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.API.Categories(c.Request.Context())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) SuggestedCategories(c *gin.Context) {
	categories, err := h.API.SuggestedCategories(c.Request.Context())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetProduct fetches the product and records the view in the
// recently-viewed list. A failed lookup records nothing.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.API.Product(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err)
		return
	}

	h.Recent.Add(product.ID)
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) RecentlyViewed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"product_ids": h.Recent.Snapshot()})
}

func (h *CatalogHandler) ClearRecentlyViewed(c *gin.Context) {
	h.Recent.Clear()
	c.JSON(http.StatusOK, gin.H{"product_ids": []uuid.UUID{}})
}
