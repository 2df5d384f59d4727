package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/mbunalski/peppers-pantry/internal/api"
	"github.com/mbunalski/peppers-pantry/internal/auth"
	"github.com/mbunalski/peppers-pantry/internal/config"
	"github.com/mbunalski/peppers-pantry/internal/mealplan"
	"github.com/mbunalski/peppers-pantry/internal/platform/cache"
	"github.com/mbunalski/peppers-pantry/internal/platform/images"
	"github.com/mbunalski/peppers-pantry/internal/platform/logger"
	"github.com/mbunalski/peppers-pantry/internal/recipe"
	"github.com/mbunalski/peppers-pantry/internal/shopping"
	"github.com/mbunalski/peppers-pantry/internal/social"
	"github.com/mbunalski/peppers-pantry/internal/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env != "production")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userStore := user.NewPostgresStore(db)
	recipeStore := recipe.NewPostgresStore(db)
	mealPlanStore := mealplan.NewPostgresStore(db)
	shoppingStore := shopping.NewPostgresStore(db)
	socialStore := social.NewPostgresStore(db)

	// Explicit schema init at startup; stores never create tables lazily.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()
	for _, initSchema := range []func(context.Context) error{
		userStore.InitSchema,
		recipeStore.InitSchema,
		mealPlanStore.InitSchema,
		shoppingStore.InitSchema,
		socialStore.InitSchema,
	} {
		if err := initSchema(initCtx); err != nil {
			log.Fatal("failed to initialize schema", zap.Error(err))
		}
	}

	recipeCache := cache.NewRecipeCache(cfg.RedisAddr, cfg.CacheTTL, log)
	defer recipeCache.Close()

	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenExpiry)
	imageProc := images.NewProcessor(cfg.ImagesDir)

	handler := api.NewHandler(userStore, recipeStore, mealPlanStore, shoppingStore, socialStore, authSvc, recipeCache, imageProc, log)
	router := api.NewRouter(cfg, handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.Bool("cache_enabled", recipeCache != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
