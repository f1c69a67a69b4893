package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID            `json:"id"`
	Email         string               `json:"email"`
	Name          string               `json:"name"`
	Phone         string               `json:"phone"`
	Role          string               `json:"role"` // customer, seller
	ShopID        *uuid.UUID           `json:"shop_id,omitempty"`
	EmailVerified bool                 `json:"email_verified"`
	Addresses     []Address            `json:"addresses"`
	Notifications NotificationSettings `json:"notifications"`
	CreatedAt     time.Time            `json:"created_at"`
}

type Address struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Line1     string    `json:"line1"`
	Line2     string    `json:"line2,omitempty"`
	City      string    `json:"city"`
	PostCode  string    `json:"post_code"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"is_default"`
}

type NotificationSettings struct {
	OrderUpdates bool `json:"order_updates"`
	Promotions   bool `json:"promotions"`
	Newsletter   bool `json:"newsletter"`
}

// Session is the persisted authenticated-user record: the profile plus
// the token pair the API client needs to authenticate requests.
type Session struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
