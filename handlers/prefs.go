package handlers

import (
	"log"
	"net/http"

	"shopfront/storage"
	"shopfront/utils"

	"github.com/gin-gonic/gin"
)

// PrefsHandler persists small UI preferences, currently just the theme.
type PrefsHandler struct {
	Store storage.Store
}

type themePrefs struct {
	Theme string `json:"theme"`
}

func (h *PrefsHandler) GetTheme(c *gin.Context) {
	var prefs themePrefs
	ok, err := storage.LoadJSON(c.Request.Context(), h.Store, storage.KeyTheme, &prefs)
	if err != nil {
		log.Printf("WARNING: could not load theme preference: %v", err)
	}
	if !ok || prefs.Theme == "" {
		prefs.Theme = "light"
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PrefsHandler) SetTheme(c *gin.Context) {
	var req struct {
		Theme string `json:"theme" binding:"required,oneof=light dark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := storage.SaveJSON(c.Request.Context(), h.Store, storage.KeyTheme, themePrefs{Theme: req.Theme}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save theme preference"})
		return
	}
	c.JSON(http.StatusOK, themePrefs{Theme: req.Theme})
}
