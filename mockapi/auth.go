package mockapi

import (
	"net/http"
	"strings"
	"time"

	"shopfront/models"
	"shopfront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Store *Store
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) issueTokens(u *userRecord) (string, string, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, u.ShopID)
	if err != nil {
		return "", "", err
	}
	refresh, err := utils.GenerateRefreshToken(u.ID, u.Email, u.Role, u.ShopID)
	if err != nil {
		return "", "", err
	}
	h.Store.refreshTokens[refresh] = &refreshRecord{UserID: u.ID}
	return token, refresh, nil
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	email := strings.ToLower(req.Email)
	if _, exists := h.Store.byEmail[email]; exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	u := &userRecord{
		User: models.User{
			ID:            uuid.New(),
			Email:         email,
			Name:          req.Name,
			Role:          "customer",
			Notifications: models.NotificationSettings{OrderUpdates: true},
			CreatedAt:     time.Now(),
		},
		PasswordHash: hash,
	}
	h.Store.users[u.ID] = u
	h.Store.byEmail[email] = u.ID

	verifyToken := uuid.New().String()
	h.Store.verifyTokens[verifyToken] = u.ID

	token, refresh, err := h.issueTokens(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":         token,
		"refresh_token": refresh,
		"user":          u.User,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	id, ok := h.Store.byEmail[strings.ToLower(req.Email)]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	u := h.Store.users[id]

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, refresh, err := h.issueTokens(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": refresh,
		"user":          u.User,
	})
}

// Refresh rotates the token pair. A refresh token is single-use: the
// presented token is revoked on success, and a revoked or unknown token
// is rejected so a stolen token cannot be replayed.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken)
	if err != nil || claims.Issuer != "shopfront-refresh" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	rec, ok := h.Store.refreshTokens[req.RefreshToken]
	if !ok || rec.Revoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token revoked"})
		return
	}

	u, ok := h.Store.users[rec.UserID]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
		return
	}

	rec.Revoked = true
	token, refresh, err := h.issueTokens(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// Body is optional; an expired client may have nothing to revoke.
	_ = c.ShouldBindJSON(&req)

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	if rec, ok := h.Store.refreshTokens[req.RefreshToken]; ok {
		rec.Revoked = true
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	// Same response whether or not the account exists.
	if id, ok := h.Store.byEmail[strings.ToLower(req.Email)]; ok {
		h.Store.resetTokens[uuid.New().String()] = id
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset email has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	id, ok := h.Store.resetTokens[req.Token]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}
	delete(h.Store.resetTokens, req.Token)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	h.Store.users[id].PasswordHash = hash

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	id, ok := h.Store.verifyTokens[req.Token]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification token"})
		return
	}
	delete(h.Store.verifyTokens, req.Token)
	h.Store.users[id].EmailVerified = true

	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

func (h *AuthHandler) currentUser(c *gin.Context) (*userRecord, bool) {
	id, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}
	u, ok := h.Store.users[id.(uuid.UUID)]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
		return nil, false
	}
	return u, true
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, u.User)
}

type profileRequest struct {
	Name          *string                      `json:"name"`
	Phone         *string                      `json:"phone"`
	Addresses     *[]models.Address            `json:"addresses"`
	Notifications *models.NotificationSettings `json:"notifications"`
}

// UpdateProfile merges only the fields present in the request.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Addresses != nil {
		addrs := *req.Addresses
		for i := range addrs {
			if addrs[i].ID == uuid.Nil {
				addrs[i].ID = uuid.New()
			}
		}
		u.Addresses = addrs
	}
	if req.Notifications != nil {
		u.Notifications = *req.Notifications
	}

	c.JSON(http.StatusOK, u.User)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.mu.Lock()
	defer h.Store.mu.Unlock()

	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}
	u.PasswordHash = hash

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
