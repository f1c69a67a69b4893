package handlers

import (
	"net/http"

	"shopfront/client"
	"shopfront/state"
	"shopfront/utils"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Session *state.SessionStore
	API     *client.Client
}

func (h *SessionHandler) Get(c *gin.Context) {
	resp := gin.H{"phase": h.Session.Phase()}
	if sess, ok := h.Session.Current(); ok {
		resp["user"] = sess.User
	}
	if err := h.Session.LastError(); err != nil {
		resp["last_error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Session.Begin()
	sess, err := h.API.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Session.Fail(err)
		upstreamError(c, err)
		return
	}

	h.Session.Complete(sess)
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

func (h *SessionHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Session.Begin()
	sess, err := h.API.Register(c.Request.Context(), client.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.Session.Fail(err)
		upstreamError(c, err)
		return
	}

	h.Session.Complete(sess)
	c.JSON(http.StatusCreated, gin.H{"user": sess.User})
}

// Logout always ends the local session, even when the upstream
// revocation call fails.
func (h *SessionHandler) Logout(c *gin.Context) {
	err := h.API.Logout(c.Request.Context())
	h.Session.Logout()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out locally; upstream revocation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// UpdateProfile pushes the edit upstream first, then commits the
// merged result locally. A failed remote edit leaves the local profile
// untouched.
func (h *SessionHandler) UpdateProfile(c *gin.Context) {
	var req client.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if h.Session.Phase() != state.PhaseAuthenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}

	h.Session.BeginUpdate()
	user, err := h.API.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		h.Session.EndUpdate()
		upstreamError(c, err)
		return
	}

	h.Session.UpdateProfile(state.ProfileUpdate{
		Name:          req.Name,
		Phone:         req.Phone,
		Addresses:     &user.Addresses,
		Notifications: req.Notifications,
	})
	c.JSON(http.StatusOK, user)
}

func (h *SessionHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.API.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset email has been sent"})
}

func (h *SessionHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.API.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *SessionHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.API.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

func (h *SessionHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if err := h.API.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword); err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
