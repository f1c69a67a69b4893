package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"shopfront/client"
	"shopfront/mockapi"
	"shopfront/models"
	"shopfront/routes"
	"shopfront/state"
	"shopfront/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-do-not-use-in-production")
	os.Exit(m.Run())
}

type app struct {
	router      *gin.Engine
	stores      routes.Stores
	persist     storage.Store
	upstreamURL string
	catalog     []models.Product
}

// newApp wires the full stack the way main.go does: mock upstream,
// persistence subscribers, and the client hooks.
func newApp(t *testing.T) *app {
	t.Helper()

	mockStore := mockapi.NewStore()
	upstream := httptest.NewServer(mockapi.NewRouter(mockStore))
	t.Cleanup(upstream.Close)

	persist := storage.NewMemoryStore()
	stores := routes.Stores{
		Cart:     state.NewCartStore(),
		Wishlist: state.NewWishlistStore(),
		Session:  state.NewSessionStore(),
		Recent:   state.NewRecentStore(),
		Persist:  persist,
	}

	stores.Cart.Subscribe(func(snap models.Cart) {
		storage.SaveJSON(context.Background(), persist, storage.KeyCart, snap)
	})
	stores.Wishlist.Subscribe(func(snap models.Wishlist) {
		storage.SaveJSON(context.Background(), persist, storage.KeyWishlist, snap)
	})
	stores.Session.Subscribe(func(snap *models.Session) {
		if snap == nil {
			persist.Delete(context.Background(), storage.KeySession)
			return
		}
		storage.SaveJSON(context.Background(), persist, storage.KeySession, *snap)
	})
	stores.Recent.Subscribe(func(snap []uuid.UUID) {
		storage.SaveJSON(context.Background(), persist, storage.KeyRecentlyViewed, snap)
	})

	api := client.New(upstream.URL, persist,
		client.WithLogoutHook(stores.Session.Logout),
		client.WithTokenHook(stores.Session.SetTokens))

	r := gin.New()
	routes.SetupRoutes(r, api, stores)

	return &app{
		router:      r,
		stores:      stores,
		persist:     persist,
		upstreamURL: upstream.URL,
		catalog:     mockStore.Products(),
	}
}

func (a *app) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *app) product(t *testing.T, name string) models.Product {
	t.Helper()
	for _, p := range a.catalog {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("product %q not seeded", name)
	return models.Product{}
}

func (a *app) login(t *testing.T) {
	t.Helper()
	w := a.request(t, http.MethodPost, "/api/v1/session/login",
		map[string]string{"email": "demo@shopfront.dev", "password": "password123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) models.Cart {
	t.Helper()
	var cart models.Cart
	if err := json.Unmarshal(w.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	return cart
}

func TestAddToCartUsesCatalogPrice(t *testing.T) {
	a := newApp(t)
	tee := a.product(t, "Classic Tee")

	w := a.request(t, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": tee.ID,
		"size_id":    "m",
		"color_id":   "black",
		"quantity":   2,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add item: %d %s", w.Code, w.Body.String())
	}

	cart := decodeCart(t, w)
	if cart.Subtotal != 50 {
		t.Errorf("subtotal = %v, want 50 (2 x catalog price)", cart.Subtotal)
	}
	if cart.Total != 59.99 {
		t.Errorf("total = %v, want 59.99", cart.Total)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].UnitPrice != 25 {
		t.Errorf("expected one line at the catalog price, got %+v", cart.Lines)
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	a := newApp(t)

	w := a.request(t, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": "018f1e6e-0000-7000-8000-000000000000",
		"quantity":   1,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", w.Code)
	}
}

func TestCouponEndpoints(t *testing.T) {
	a := newApp(t)
	tee := a.product(t, "Classic Tee")
	a.request(t, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": tee.ID, "quantity": 4,
	})

	w := a.request(t, http.MethodPost, "/api/v1/cart/coupon", map[string]string{"code": "BOGUS"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown coupon, got %d", w.Code)
	}

	w = a.request(t, http.MethodPost, "/api/v1/cart/coupon", map[string]string{"code": "WELCOME10"})
	if w.Code != http.StatusOK {
		t.Fatalf("apply coupon: %d %s", w.Code, w.Body.String())
	}
	cart := decodeCart(t, w)
	if cart.DiscountPercent != 10 || cart.DiscountAmount != 10 {
		t.Errorf("discount = %v%% / %v, want 10%% / 10", cart.DiscountPercent, cart.DiscountAmount)
	}

	w = a.request(t, http.MethodDelete, "/api/v1/cart/coupon", nil)
	cart = decodeCart(t, w)
	if cart.CouponCode != "" || cart.DiscountAmount != 0 {
		t.Errorf("coupon should be removed, got %+v", cart)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	a := newApp(t)
	a.login(t)

	w := a.request(t, http.MethodPost, "/api/v1/checkout", map[string]string{
		"delivery_address": "1 Test Street",
		"payment_method":   "card",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d %s", w.Code, w.Body.String())
	}
}

func TestCheckoutClearsCart(t *testing.T) {
	a := newApp(t)
	a.login(t)

	tee := a.product(t, "Classic Tee")
	a.request(t, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": tee.ID, "size_id": "m", "quantity": 2,
	})

	w := a.request(t, http.MethodPost, "/api/v1/checkout", map[string]string{
		"delivery_address": "1 Test Street",
		"payment_method":   "card",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Order models.Order `json:"order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if resp.Order.OrderNumber == "" || resp.Order.Status != models.OrderStatusPending {
		t.Errorf("unexpected order %+v", resp.Order)
	}

	cart := decodeCart(t, a.request(t, http.MethodGet, "/api/v1/cart", nil))
	if len(cart.Lines) != 0 {
		t.Errorf("cart should be empty after checkout, got %d lines", len(cart.Lines))
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	a := newApp(t)

	tee := a.product(t, "Classic Tee")
	a.request(t, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": tee.ID, "quantity": 1,
	})

	w := a.request(t, http.MethodPost, "/api/v1/checkout", map[string]string{
		"delivery_address": "1 Test Street",
		"payment_method":   "card",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", w.Code)
	}

	// The cart survives the failed checkout.
	cart := decodeCart(t, a.request(t, http.MethodGet, "/api/v1/cart", nil))
	if len(cart.Lines) != 1 {
		t.Errorf("cart should be untouched, got %d lines", len(cart.Lines))
	}
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	a := newApp(t)

	w := a.request(t, http.MethodPost, "/api/v1/session/login",
		map[string]string{"email": "demo@shopfront.dev", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", w.Code)
	}

	var status struct {
		Phase     string `json:"phase"`
		LastError string `json:"last_error"`
	}
	w = a.request(t, http.MethodGet, "/api/v1/session", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if status.Phase != string(state.PhaseAnonymous) || status.LastError == "" {
		t.Errorf("after failure: phase %q last_error %q", status.Phase, status.LastError)
	}

	a.login(t)
	if got := a.stores.Session.Phase(); got != state.PhaseAuthenticated {
		t.Errorf("phase after login = %v", got)
	}

	w = a.request(t, http.MethodPost, "/api/v1/session/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	if got := a.stores.Session.Phase(); got != state.PhaseAnonymous {
		t.Errorf("phase after logout = %v", got)
	}
}

func TestProfileUpdateSyncsLocalSession(t *testing.T) {
	a := newApp(t)
	a.login(t)

	w := a.request(t, http.MethodPut, "/api/v1/session/profile",
		map[string]string{"name": "Renamed Customer"})
	if w.Code != http.StatusOK {
		t.Fatalf("update profile: %d %s", w.Code, w.Body.String())
	}

	sess, ok := a.stores.Session.Current()
	if !ok || sess.User.Name != "Renamed Customer" {
		t.Errorf("local session not updated: %+v", sess.User)
	}
	if got := a.stores.Session.Phase(); got != state.PhaseAuthenticated {
		t.Errorf("phase after update = %v", got)
	}
}

func TestWishlistEndpoints(t *testing.T) {
	a := newApp(t)
	tee := a.product(t, "Classic Tee")

	w := a.request(t, http.MethodPost, "/api/v1/wishlist", map[string]interface{}{"product_id": tee.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("add: %d", w.Code)
	}
	// Idempotent.
	a.request(t, http.MethodPost, "/api/v1/wishlist", map[string]interface{}{"product_id": tee.ID})

	var wl models.Wishlist
	w = a.request(t, http.MethodGet, "/api/v1/wishlist", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &wl); err != nil {
		t.Fatalf("decode wishlist: %v", err)
	}
	if len(wl.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(wl.Entries))
	}

	w = a.request(t, http.MethodDelete, "/api/v1/wishlist/"+tee.ID.String(), nil)
	if err := json.Unmarshal(w.Body.Bytes(), &wl); err != nil {
		t.Fatalf("decode wishlist: %v", err)
	}
	if len(wl.Entries) != 0 {
		t.Errorf("expected empty wishlist, got %d entries", len(wl.Entries))
	}
}

func TestProductViewTracksRecentlyViewed(t *testing.T) {
	a := newApp(t)
	tee := a.product(t, "Classic Tee")
	mug := a.product(t, "Ceramic Mug")

	a.request(t, http.MethodGet, "/api/v1/products/"+tee.ID.String(), nil)
	a.request(t, http.MethodGet, "/api/v1/products/"+mug.ID.String(), nil)

	var resp struct {
		ProductIDs []string `json:"product_ids"`
	}
	w := a.request(t, http.MethodGet, "/api/v1/recently-viewed", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.ProductIDs) != 2 || resp.ProductIDs[0] != mug.ID.String() {
		t.Errorf("expected [mug, tee], got %v", resp.ProductIDs)
	}
}

func TestPasswordRecoveryEndpoints(t *testing.T) {
	a := newApp(t)

	w := a.request(t, http.MethodPost, "/api/v1/session/forgot-password",
		map[string]string{"email": "demo@shopfront.dev"})
	if w.Code != http.StatusOK {
		t.Fatalf("forgot password: %d %s", w.Code, w.Body.String())
	}

	// Same response for an unknown account.
	w = a.request(t, http.MethodPost, "/api/v1/session/forgot-password",
		map[string]string{"email": "nobody@shopfront.dev"})
	if w.Code != http.StatusOK {
		t.Fatalf("forgot password (unknown): %d", w.Code)
	}

	w = a.request(t, http.MethodPost, "/api/v1/session/reset-password",
		map[string]string{"token": "bogus", "password": "longenough"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("reset with bogus token: %d, want 400", w.Code)
	}

	w = a.request(t, http.MethodPost, "/api/v1/session/verify-email",
		map[string]string{"token": "bogus"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("verify with bogus token: %d, want 400", w.Code)
	}
}

// A profile edit that triggers a token refresh must leave the rotated
// pair in storage: the session store picks the new tokens up through
// the token hook, so its own commit cannot write the stale pair back.
func TestRefreshedTokensSurviveProfileEdit(t *testing.T) {
	a := newApp(t)
	a.login(t)
	ctx := context.Background()

	var sess models.Session
	if ok, _ := storage.LoadJSON(ctx, a.persist, storage.KeySession, &sess); !ok {
		t.Fatal("session not persisted after login")
	}
	loginRefresh := sess.RefreshToken

	// Sabotage the stored access token so the next authed call 401s and
	// refreshes mid-edit.
	sess.AccessToken = "not-a-valid-token"
	if err := storage.SaveJSON(ctx, a.persist, storage.KeySession, sess); err != nil {
		t.Fatalf("save session: %v", err)
	}

	w := a.request(t, http.MethodPut, "/api/v1/session/profile",
		map[string]string{"name": "Freshly Renamed"})
	if w.Code != http.StatusOK {
		t.Fatalf("profile edit: %d %s", w.Code, w.Body.String())
	}

	var after models.Session
	if ok, _ := storage.LoadJSON(ctx, a.persist, storage.KeySession, &after); !ok {
		t.Fatal("session lost after profile edit")
	}
	if after.RefreshToken == loginRefresh {
		t.Fatal("persisted refresh token regressed to the pre-refresh pair")
	}
	if after.AccessToken == "not-a-valid-token" {
		t.Fatal("persisted access token regressed to the expired one")
	}
	if after.User == nil || after.User.Name != "Freshly Renamed" {
		t.Errorf("profile edit not persisted: %+v", after.User)
	}

	// The persisted refresh token must still be live upstream; the
	// login-time one was revoked by the rotation.
	body, _ := json.Marshal(map[string]string{"refresh_token": after.RefreshToken})
	resp, err := http.Post(a.upstreamURL+"/api/auth/refresh", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("refresh request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("persisted refresh token rejected upstream: %d", resp.StatusCode)
	}
}

func TestThemePreference(t *testing.T) {
	a := newApp(t)

	var prefs struct {
		Theme string `json:"theme"`
	}
	w := a.request(t, http.MethodGet, "/api/v1/prefs/theme", nil)
	json.Unmarshal(w.Body.Bytes(), &prefs)
	if prefs.Theme != "light" {
		t.Errorf("default theme = %q, want light", prefs.Theme)
	}

	w = a.request(t, http.MethodPut, "/api/v1/prefs/theme", map[string]string{"theme": "dark"})
	if w.Code != http.StatusOK {
		t.Fatalf("set theme: %d %s", w.Code, w.Body.String())
	}

	w = a.request(t, http.MethodGet, "/api/v1/prefs/theme", nil)
	json.Unmarshal(w.Body.Bytes(), &prefs)
	if prefs.Theme != "dark" {
		t.Errorf("theme = %q, want dark", prefs.Theme)
	}

	w = a.request(t, http.MethodPut, "/api/v1/prefs/theme", map[string]string{"theme": "sparkly"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown theme, got %d", w.Code)
	}
}
