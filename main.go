package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nonZeroDayAPI/handlers"
	"nonZeroDayAPI/internal/adminlist"
	"nonZeroDayAPI/internal/apperr"
	"nonZeroDayAPI/middleware"
	"nonZeroDayAPI/services"
)

var (
	dbPool        *pgxpool.Pool
	userService   *services.UserService
	updateService *services.UpdateService
	sweepService  *services.SweepService
	adminService  *services.AdminService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	admins := adminlist.FromEnv()
	userService = services.NewUserService(dbPool, admins)
	updateService = services.NewUpdateService(dbPool)
	sweepService = services.NewSweepService(dbPool)
	adminService = services.NewAdminService(dbPool)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	updateHandler := handlers.NewUpdateHandler(updateService)
	adminHandler := handlers.NewAdminHandler(adminService, updateService)
	sweepHandler := handlers.NewSweepHandler(sweepService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	isAdmin := func(ctx context.Context, clerkID string) (bool, error) {
		u, err := userService.GetByClerkID(ctx, clerkID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return u.IsAdmin, nil
	}

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := dbPool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "nonZeroDay-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/leaderboard", userHandler.GetLeaderboard).Methods("GET")
	api.HandleFunc("/users/{username}", userHandler.GetPublicProfile).Methods("GET")

	// The sweep trigger is meant for an external scheduler; the cron
	// middleware enforces the shared secret when one is configured.
	api.Handle("/cron/reset-streaks",
		middleware.CronAuthMiddleware(http.HandlerFunc(sweepHandler.ResetStreaks))).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/updates", updateHandler.GetMyUpdates).Methods("GET")
	protected.HandleFunc("/updates", updateHandler.SubmitUpdate).Methods("POST")

	// -------------------------------------------------------------------------
	// ADMIN ROUTES
	// -------------------------------------------------------------------------
	adminRoutes := protected.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AdminAuthMiddleware(isAdmin))

	adminRoutes.HandleFunc("/users/pending", adminHandler.GetPendingUsers).Methods("GET")
	adminRoutes.HandleFunc("/users/{id}/approve", adminHandler.ApproveUser).Methods("PUT")
	adminRoutes.HandleFunc("/users/{id}/reject", adminHandler.RejectUser).Methods("PUT")
	adminRoutes.HandleFunc("/users/{id}/streak", adminHandler.AdjustStreak).Methods("PUT")
	adminRoutes.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods("DELETE")
	adminRoutes.HandleFunc("/users/bulk", adminHandler.BulkAction).Methods("POST")

	adminRoutes.HandleFunc("/updates/pending", adminHandler.GetPendingUpdates).Methods("GET")
	adminRoutes.HandleFunc("/updates/{id}/approve", adminHandler.ApproveUpdate).Methods("PUT")
	adminRoutes.HandleFunc("/updates/{id}/reject", adminHandler.RejectUpdate).Methods("PUT")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Cron-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
