package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"watchroom/database"
	"watchroom/internal/api/handler"
	"watchroom/internal/api/middleware"
	"watchroom/internal/api/repository"
	"watchroom/internal/api/service"
	"watchroom/internal/config"
	"watchroom/internal/ingestion/tmdb"
	"watchroom/internal/merge"
	"watchroom/internal/metadata"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if cfg.LogFormat == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	cache, err := metadata.NewBillboardCache(cfg.RedisURL, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}
	defer cache.Close()

	omdbClient := metadata.NewOMDBClient(cfg.OMDBAPIURL, cfg.OMDBAPIKey)
	tmdbClient := metadata.NewTMDBClient(cfg.TMDBAPIURL, cfg.TMDBAPIKey)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	theatreRepo := repository.NewTheatreRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	watchlistService := service.NewWatchlistService(watchlistRepo)
	theatreService := service.NewTheatreService(theatreRepo, watchlistRepo, merge.NewPicker())
	movieService := service.NewMovieService(omdbClient, tmdbClient, cache)

	// Background billboard refresher
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.BillboardRefresh && cfg.TMDBAPIKey != "" {
		refresher := tmdb.NewRefresher(tmdbClient, cache, time.Duration(cfg.CacheTTL)*time.Second)
		go refresher.Run(rootCtx)
	}

	// Router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	authHandler := handler.NewAuthHandler(authService, cfg)
	authHandler.RegisterRoutes(v1.Group("/auth"))

	movieHandler := handler.NewMovieHandler(movieService)
	movies := v1.Group("/movies")
	movies.Use(middleware.RateLimit(5, 10))
	movieHandler.RegisterRoutes(movies)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(authService))

	watchlistHandler := handler.NewWatchlistHandler(watchlistService)
	watchlistHandler.RegisterRoutes(authed.Group("/watchlist"))

	theatreHandler := handler.NewTheatreHandler(theatreService)
	theatreHandler.RegisterRoutes(authed.Group("/theatres"))

	// Serve with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("API server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
