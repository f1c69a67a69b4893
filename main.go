package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopfront/client"
	"shopfront/config"
	"shopfront/mockapi"
	"shopfront/models"
	"shopfront/routes"
	"shopfront/state"
	"shopfront/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func buildStore() storage.Store {
	switch backend := config.GetEnv("STORAGE_BACKEND", "file"); backend {
	case "memory":
		return storage.NewMemoryStore()
	case "redis":
		return storage.NewRedisStore(config.GetEnv("REDIS_ADDR", "localhost:6379"))
	case "postgres":
		store, err := storage.OpenPostgres(os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		return store
	case "file":
		store, err := storage.NewFileStore(config.GetEnv("STORAGE_DIR", "./data"))
		if err != nil {
			log.Fatalf("Failed to initialize file storage: %v", err)
		}
		return store
	default:
		log.Fatalf("Unknown STORAGE_BACKEND %q", backend)
		return nil
	}
}

// rehydrate loads the persisted snapshots into the stores, then binds
// subscribers so every commit is written back.
func rehydrate(ctx context.Context, persist storage.Store, stores routes.Stores) {
	var cart models.Cart
	if ok, _ := storage.LoadJSON(ctx, persist, storage.KeyCart, &cart); ok {
		stores.Cart.Load(cart)
	}
	var wishlist models.Wishlist
	if ok, _ := storage.LoadJSON(ctx, persist, storage.KeyWishlist, &wishlist); ok {
		stores.Wishlist.Load(wishlist)
	}
	var sess models.Session
	if ok, _ := storage.LoadJSON(ctx, persist, storage.KeySession, &sess); ok {
		stores.Session.Load(sess)
	}
	var recent []uuid.UUID
	if ok, _ := storage.LoadJSON(ctx, persist, storage.KeyRecentlyViewed, &recent); ok {
		stores.Recent.Load(recent)
	}

	stores.Cart.Subscribe(func(snap models.Cart) {
		if err := storage.SaveJSON(context.Background(), persist, storage.KeyCart, snap); err != nil {
			log.Printf("WARNING: could not persist cart: %v", err)
		}
	})
	stores.Wishlist.Subscribe(func(snap models.Wishlist) {
		if err := storage.SaveJSON(context.Background(), persist, storage.KeyWishlist, snap); err != nil {
			log.Printf("WARNING: could not persist wishlist: %v", err)
		}
	})
	stores.Session.Subscribe(func(snap *models.Session) {
		if snap == nil {
			if err := persist.Delete(context.Background(), storage.KeySession); err != nil {
				log.Printf("WARNING: could not clear persisted session: %v", err)
			}
			return
		}
		if err := storage.SaveJSON(context.Background(), persist, storage.KeySession, *snap); err != nil {
			log.Printf("WARNING: could not persist session: %v", err)
		}
	})
	stores.Recent.Subscribe(func(snap []uuid.UUID) {
		if err := storage.SaveJSON(context.Background(), persist, storage.KeyRecentlyViewed, snap); err != nil {
			log.Printf("WARNING: could not persist recently viewed: %v", err)
		}
	})
}

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("WARNING: could not load .env file: %v", err)
	}
	if err := config.ValidateEnv(); err != nil {
		log.Fatalf("Environment validation failed: %v", err)
	}

	apiBase := os.Getenv("API_BASE_URL")

	// MOCK_API runs the in-memory backend alongside the app so the whole
	// stack works without a real upstream.
	if os.Getenv("MOCK_API") != "" {
		mockPort := config.GetEnv("MOCK_API_PORT", "9090")
		mockRouter := mockapi.NewRouter(mockapi.NewStore())
		go func() {
			log.Printf("Mock API listening on :%s", mockPort)
			if err := mockRouter.Run(":" + mockPort); err != nil {
				log.Fatalf("Mock API failed: %v", err)
			}
		}()
		if apiBase == "" {
			apiBase = "http://localhost:" + mockPort
		}
	}

	persist := buildStore()
	if closer, ok := persist.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	stores := routes.Stores{
		Cart:     state.NewCartStore(),
		Wishlist: state.NewWishlistStore(),
		Session:  state.NewSessionStore(),
		Recent:   state.NewRecentStore(),
		Persist:  persist,
	}
	rehydrate(context.Background(), persist, stores)

	api := client.New(apiBase, persist,
		client.WithLogoutHook(stores.Session.Logout),
		client.WithTokenHook(stores.Session.SetTokens))

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		corsConfig.AllowOrigins = []string{frontend}
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	routes.SetupRoutes(r, api, stores)

	port := config.GetEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
