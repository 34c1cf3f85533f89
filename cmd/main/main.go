package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"dutycal/src/auth"
	"dutycal/src/calendar"
	"dutycal/src/config"
	"dutycal/src/handlers"
	"dutycal/src/middleware"
	"dutycal/src/planner"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	} else {
		log.Println("✅ Loaded .env file")
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("✓ Config loaded successfully")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Printf("✓ Redis connected")

	credJSON, err := os.ReadFile(cfg.Google.CredentialsPath)
	if err != nil {
		log.Fatalf("Failed to read Google credentials file: %v", err)
	}
	flowFactory, err := auth.NewFlowFactory(credJSON)
	if err != nil {
		log.Fatalf("Failed to configure OAuth flow: %v", err)
	}
	log.Printf("✓ Google OAuth flow configured")

	eventClient, err := calendar.NewClient(&cfg.Calendar)
	if err != nil {
		log.Fatalf("Failed to initialize calendar client: %v", err)
	}
	log.Printf("✓ Calendar client ready (timezone: %s)", cfg.Calendar.Timezone)

	sessionStore := auth.NewSessionStore(redisClient, cfg.Session.Duration)
	credStore := calendar.NewCredentialStore()
	coordinator := planner.NewCoordinator(eventClient, cfg.Calendar.MaxConcurrent)

	authHandler := auth.NewHandler(flowFactory, sessionStore, credStore, &cfg.Session)
	eventsHandler := handlers.NewEventsHandler(coordinator, credStore, sessionStore)
	sessionMiddleware := middleware.NewSessionMiddleware(sessionStore)
	log.Printf("✓ Authentication system initialized")

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	r.Use(sessionMiddleware.LoadSession())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "dutycal"})
	})
	r.GET("/health", eventsHandler.HealthCheck)

	authRoutes := r.Group("/auth")
	{
		authRoutes.GET("/login", authHandler.Login)
		authRoutes.GET("/callback", authHandler.Callback)
		authRoutes.GET("/logout", authHandler.Logout)
	}

	api := r.Group("/api")
	api.Use(sessionMiddleware.RequireCredentials())
	{
		api.POST("/add-events", eventsHandler.AddEvents)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Printf("🚀 dutycal running on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
