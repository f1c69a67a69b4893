package client

import (
	"context"
	"net/http"

	"shopfront/models"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

func (r sessionResponse) session() models.Session {
	user := r.User
	return models.Session{
		User:         &user,
		AccessToken:  r.Token,
		RefreshToken: r.RefreshToken,
	}
}

// Login authenticates and persists the resulting session. A 401 here is
// bad credentials, not an expired token, so it bypasses the refresh
// pipeline.
func (c *Client) Login(ctx context.Context, email, password string) (models.Session, error) {
	var resp sessionResponse
	err := c.public(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return models.Session{}, err
	}

	sess := resp.session()
	if err := c.saveSession(ctx, sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// Register creates an account and persists the resulting session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (models.Session, error) {
	var resp sessionResponse
	if err := c.public(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return models.Session{}, err
	}

	sess := resp.session()
	if err := c.saveSession(ctx, sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// Logout revokes the refresh token server-side and clears the persisted
// session. The local session is cleared even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	var body interface{}
	if sess, ok := c.Session(ctx); ok {
		body = map[string]string{"refresh_token": sess.RefreshToken}
	}
	err := c.post(ctx, "/api/auth/logout", body, nil)
	c.clearSession(ctx)
	return err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.public(ctx, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.public(ctx, http.MethodPost, "/api/auth/reset-password",
		map[string]string{"token": token, "password": password}, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.public(ctx, http.MethodPost, "/api/auth/verify-email",
		map[string]string{"token": token}, nil)
}

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.get(ctx, "/api/auth/profile", nil, &user)
	return user, err
}

type ProfileRequest struct {
	Name          *string                      `json:"name,omitempty"`
	Phone         *string                      `json:"phone,omitempty"`
	Addresses     *[]models.Address            `json:"addresses,omitempty"`
	Notifications *models.NotificationSettings `json:"notifications,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, req ProfileRequest) (models.User, error) {
	var user models.User
	err := c.put(ctx, "/api/auth/profile", req, &user)
	return user, err
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.post(ctx, "/api/auth/change-password",
		map[string]string{"old_password": oldPassword, "new_password": newPassword}, nil)
}
