// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orbitstudy/orbit-backend/internal/auth"
	"github.com/orbitstudy/orbit-backend/internal/collision"
	"github.com/orbitstudy/orbit-backend/internal/common/database"
	"github.com/orbitstudy/orbit-backend/internal/config"
	"github.com/orbitstudy/orbit-backend/internal/heatmap"
	"github.com/orbitstudy/orbit-backend/internal/matching"
	"github.com/orbitstudy/orbit-backend/internal/orbit"
	"github.com/orbitstudy/orbit-backend/internal/schedule"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Orbit Study Matching API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration loaded and valid")

	// 3. Connect to PostgreSQL
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	sqlxDB := sqlx.NewDb(db, "postgres")

	// 4. Connect to Redis (optional, presence degrades without it)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without presence index", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 5. Run database migrations
	log.Println("\n🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Orbit profiles
	log.Println("\n🪐 Step 6: Initializing orbit profiles...")
	presence := orbit.NewPresence(redisClient)
	orbitRepo := orbit.NewPostgresRepository(sqlxDB)
	orbitService := orbit.NewService(orbitRepo, presence, cfg.CandidateScanLimit)
	orbitHandler := orbit.NewHandler(orbitService)
	log.Println("✅ Orbit profiles initialized")

	// 7. Auth
	log.Println("\n🔐 Step 7: Initializing authentication...")
	authRepo := auth.NewPostgresRepository(sqlxDB)
	authService := auth.NewService(authRepo, orbitService, auth.Config{
		JWTSecret:          cfg.JWTSecret,
		BCryptCost:         cfg.BCryptCost,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Authentication initialized")

	// 8. Matching
	log.Println("\n💫 Step 8: Initializing matching...")
	matchingService := matching.NewService(orbitService, cfg.MatchRadiusMeters)
	matchingHandler := matching.NewHandler(matchingService)
	log.Println("✅ Matching initialized")

	// 9. Collisions
	log.Println("\n☄️  Step 9: Initializing collisions...")
	collisionRepo := collision.NewPostgresRepository(sqlxDB)
	watcher := collision.NewWatcher(collisionRepo, cfg.StreamPoll)
	hub := collision.NewHub(watcher)
	go hub.Run()

	collisionService := collision.NewService(collisionRepo, orbitService, hub, collision.Config{
		TTL:             cfg.CollisionTTL,
		SessionDuration: cfg.SessionDuration,
		MassAward:       cfg.SessionMassAward,
	})
	collisionHandler := collision.NewHandler(collisionService)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go collision.NewSweeper(collisionService, cfg.SweepInterval).Start(sweeperCtx)
	log.Println("✅ Collisions initialized")

	// 10. Schedule
	log.Println("\n📅 Step 10: Initializing schedule...")
	scheduleRepo := schedule.NewPostgresRepository(sqlxDB)
	scheduleService := schedule.NewService(scheduleRepo, cfg.MinGapMinutes)
	scheduleHandler := schedule.NewHandler(scheduleService)
	log.Println("✅ Schedule initialized")

	// 11. Heatmap
	log.Println("\n🗺️  Step 11: Initializing heatmap...")
	heatmapService := heatmap.NewService(orbitService, cfg.ZoneDeltaDegrees)
	heatmapHandler := heatmap.NewHandler(heatmapService)
	log.Println("✅ Heatmap initialized")

	// 12. Routes
	log.Println("\n🛣️  Step 12: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler, authMiddleware)
	router.PathPrefix("/api/v1/orbit").Handler(
		http.StripPrefix("/api/v1/orbit", orbit.NewRouter(orbitHandler, authMiddleware.Authenticate)))
	matching.RegisterRoutes(router, matchingHandler, authMiddleware.Authenticate)
	collision.RegisterRoutes(router, collisionHandler, hub, authMiddleware.Authenticate)
	router.PathPrefix("/api/v1/schedule").Handler(
		http.StripPrefix("/api/v1/schedule", schedule.NewRouter(scheduleHandler, authMiddleware.Authenticate)))
	heatmap.RegisterRoutes(router, heatmapHandler, authMiddleware.Authenticate)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	log.Println("✅ Routes registered")

	// 13. Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	stopSweeper()
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations executes database migrations
func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS user_profiles (
			user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			display_name VARCHAR(100) NOT NULL,
			photo_url TEXT,
			subjects TEXT[] NOT NULL DEFAULT '{}',
			teaching_subjects TEXT[] NOT NULL DEFAULT '{}',
			learning_subjects TEXT[] NOT NULL DEFAULT '{}',
			orbit_status VARCHAR(40),
			event_horizon_end_time TIMESTAMP,
			mass INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			rank VARCHAR(40),
			followers_count INTEGER NOT NULL DEFAULT 0,
			following_count INTEGER NOT NULL DEFAULT 0,
			location_lat DOUBLE PRECISION,
			location_lng DOUBLE PRECISION,
			location_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS collisions (
			id UUID PRIMARY KEY,
			user_id1 INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_id2 INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user1_profile JSONB NOT NULL,
			user2_profile JSONB NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			user1_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			user2_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			matched_status VARCHAR(40) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			CONSTRAINT distinct_participants CHECK (user_id1 <> user_id2)
		)`,

		`CREATE TABLE IF NOT EXISTS study_sessions (
			id UUID PRIMARY KEY,
			collision_id UUID NOT NULL UNIQUE REFERENCES collisions(id) ON DELETE CASCADE,
			participant1 INTEGER NOT NULL,
			participant2 INTEGER NOT NULL,
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP,
			duration_minutes INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS time_slots (
			id UUID PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			day VARCHAR(10) NOT NULL,
			start_time VARCHAR(5) NOT NULL,
			end_time VARCHAR(5) NOT NULL,
			label VARCHAR(80) NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_located ON user_profiles(location_at) WHERE location_lat IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_collisions_user1 ON collisions(user_id1, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_collisions_user2 ON collisions(user_id2, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_collisions_active_expiry ON collisions(expires_at) WHERE status = 'active'`,
		`CREATE INDEX IF NOT EXISTS idx_time_slots_user ON time_slots(user_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
