package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_manager/internal/config"
	"task_manager/internal/handler"
	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/service"
	"task_manager/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("ERROR: Failed to load config: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// --- Database Connection ---
	ctx := context.Background()
	store, err := config.OpenStore(ctx, &cfg.DB)
	if err != nil {
		log.Fatalf("ERROR: Failed to connect to database: %v", err)
	}
	defer store.Close()

	// --- Migrations ---
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("ERROR: Failed to migrate database: %v", err)
	}
	log.Println("INFO: Database schema is up to date")

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)

	if cfg.InitialAdmin.Enabled() {
		seedAdmin(ctx, store, jwtUtil, cfg.InitialAdmin)
	}

	// --- Setup Gin Router ---
	router := handler.NewRouter(handler.RouterConfig{
		Store:          store,
		JWT:            jwtUtil,
		AllowedOrigin:  cfg.AllowedOrigin,
		SecureCookies:  cfg.CookieSecure,
		StorageTimeout: cfg.DB.PoolTimeout,
		AccessLog:      true,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("INFO: Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ERROR: listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("INFO: Server exiting")
}

// seedAdmin creates the bootstrap admin. Failures are logged and the server keeps running.
func seedAdmin(ctx context.Context, store repository.Store, jwtUtil *utils.JWTUtil, seed config.AdminSeed) {
	admin, created, err := service.NewAdminService(store, jwtUtil).EnsureAdmin(ctx, model.CreateAccountRequest{
		Identification: seed.Identification,
		FirstName:      seed.FirstName,
		LastName:       seed.LastName,
		Password:       seed.Password,
	})
	if err != nil {
		log.Printf("ERROR: Failed to seed initial admin: %v", err)
		return
	}
	if created {
		log.Printf("INFO: Initial admin %s created", admin.Identification)
	}
}
