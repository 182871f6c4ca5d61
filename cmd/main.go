package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mehular0ra/propfinder/internal/config"
	"github.com/mehular0ra/propfinder/internal/db"
	"github.com/mehular0ra/propfinder/internal/handlers"
	"github.com/mehular0ra/propfinder/internal/mailer"
	"github.com/mehular0ra/propfinder/internal/middleware"
	"github.com/mehular0ra/propfinder/internal/services"
	"github.com/mehular0ra/propfinder/internal/storage"
)

func main() {
	// Load .env file if it exists; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "propfinder").Logger().Level(level)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}
	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongodb")

	mail := mailer.New(cfg.MailjetAPIKey, cfg.MailjetSecretKey, cfg.MailFrom)

	images, err := storage.NewImageStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect image store")
	}

	authSvc := services.NewAuthService(database, mail, log, cfg.JWTSecret, cfg.TokenTTL)
	propertySvc := services.NewPropertyService(database, mail, log, cfg.AdminEmail)

	authHandler := handlers.NewAuthHandler(authSvc, log)
	propertyHandler := handlers.NewPropertyHandler(propertySvc, log)
	uploadHandler := handlers.NewUploadHandler(images, log)

	requireAuth := middleware.RequireAuth(log, authSvc.ParseToken, authSvc.ResolveUser)
	requireAdmin := middleware.RequireAdmin(log)

	app := fiber.New()
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/admin/login", authHandler.AdminLogin)
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Put("/profile", requireAuth, authHandler.UpdateProfile)

	// Static segments are registered before /:id so they are not swallowed
	// by the parameter route.
	properties := api.Group("/properties")
	properties.Get("/admin/all-properties", requireAuth, requireAdmin, propertyHandler.ListAll)
	properties.Post("/images", requireAuth, requireAdmin, uploadHandler.UploadImage)
	properties.Get("/", propertyHandler.Search)
	properties.Post("/", requireAuth, requireAdmin, propertyHandler.Create)
	properties.Get("/:id", propertyHandler.GetOne)
	properties.Put("/:id", requireAuth, requireAdmin, propertyHandler.Update)
	properties.Delete("/:id", requireAuth, requireAdmin, propertyHandler.Delete)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := db.Disconnect(ctx, database); err != nil {
		log.Error().Err(err).Msg("database disconnect")
	}
}
