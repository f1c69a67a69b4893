// Package mockapi is an in-memory implementation of the shopfront API,
// used for local development and for exercising the client end to end
// without a real backend.
package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"shopfront/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userRecord struct {
	models.User
	PasswordHash []byte
}

// refreshRecord tracks an issued refresh token so it can be rotated
// exactly once and revoked on logout.
type refreshRecord struct {
	UserID  uuid.UUID
	Revoked bool
}

type cartItem struct {
	ID        uuid.UUID      `json:"id"`
	ProductID uuid.UUID      `json:"product_id"`
	Product   models.Product `json:"product"`
	SizeID    string         `json:"size_id"`
	ColorID   string         `json:"color_id"`
	Quantity  int            `json:"quantity"`
}

type Store struct {
	mu sync.Mutex

	users   map[uuid.UUID]*userRecord
	byEmail map[string]uuid.UUID

	refreshTokens map[string]*refreshRecord
	resetTokens   map[string]uuid.UUID
	verifyTokens  map[string]uuid.UUID

	categories []models.Category
	suggested  map[uuid.UUID]bool
	products   map[uuid.UUID]models.Product

	carts  map[uuid.UUID][]cartItem
	orders map[uuid.UUID]models.Order

	shopID   uuid.UUID
	orderSeq int
}

func NewStore() *Store {
	s := &Store{
		users:         make(map[uuid.UUID]*userRecord),
		byEmail:       make(map[string]uuid.UUID),
		refreshTokens: make(map[string]*refreshRecord),
		resetTokens:   make(map[string]uuid.UUID),
		verifyTokens:  make(map[string]uuid.UUID),
		suggested:     make(map[uuid.UUID]bool),
		products:      make(map[uuid.UUID]models.Product),
		carts:         make(map[uuid.UUID][]cartItem),
		orders:        make(map[uuid.UUID]models.Order),
		shopID:        uuid.New(),
		orderSeq:      100000,
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	clothing := models.Category{ID: uuid.New(), Name: "Clothing", Icon: "shirt", Description: "Everyday wear"}
	shoes := models.Category{ID: uuid.New(), Name: "Shoes", Icon: "shoe", Description: "Sneakers and boots"}
	bags := models.Category{ID: uuid.New(), Name: "Bags", Icon: "bag", Description: "Totes and backpacks"}
	home := models.Category{ID: uuid.New(), Name: "Home", Icon: "house", Description: "Home goods"}
	s.categories = []models.Category{clothing, shoes, bags, home}
	s.suggested[clothing.ID] = true
	s.suggested[shoes.ID] = true

	sizes := []models.Variant{{ID: "s", Name: "S"}, {ID: "m", Name: "M"}, {ID: "l", Name: "L"}}
	colors := []models.Variant{{ID: "black", Name: "Black"}, {ID: "white", Name: "White"}}

	for _, p := range []models.Product{
		{ID: uuid.New(), Name: "Classic Tee", Description: "Cotton crew neck", Price: 25.00, CategoryID: clothing.ID, Sizes: sizes, Colors: colors, Stock: 120},
		{ID: uuid.New(), Name: "Canvas Sneaker", Description: "Low-top canvas", Price: 59.99, CategoryID: shoes.ID, Sizes: sizes, Colors: colors, Stock: 40},
		{ID: uuid.New(), Name: "City Backpack", Description: "20L daily carry", Price: 89.50, CategoryID: bags.ID, Colors: colors, Stock: 15},
		{ID: uuid.New(), Name: "Ceramic Mug", Description: "350ml stoneware", Price: 12.00, CategoryID: home.ID, Stock: 200},
	} {
		p.CreatedAt = time.Now()
		s.products[p.ID] = p
	}

	s.seedUser("demo@shopfront.dev", "password123", "Demo Customer", "customer", nil)
	s.seedUser("seller@shopfront.dev", "password123", "Demo Seller", "seller", &s.shopID)
}

func (s *Store) seedUser(email, password, name, role string, shopID *uuid.UUID) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := &userRecord{
		User: models.User{
			ID:            uuid.New(),
			Email:         email,
			Name:          name,
			Role:          role,
			ShopID:        shopID,
			EmailVerified: true,
			Notifications: models.NotificationSettings{OrderUpdates: true},
			CreatedAt:     time.Now(),
		},
		PasswordHash: hash,
	}
	s.users[u.ID] = u
	s.byEmail[strings.ToLower(email)] = u.ID
}

// Products returns the seeded catalog, sorted by name. Used by demo
// tooling and tests that need known product ids.
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) nextOrderNumber() string {
	s.orderSeq++
	return fmt.Sprintf("SF-%d", s.orderSeq)
}
