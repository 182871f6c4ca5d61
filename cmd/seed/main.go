package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mehular0ra/propfinder/internal/config"
	"github.com/mehular0ra/propfinder/internal/db"
	"github.com/mehular0ra/propfinder/internal/models"
	"github.com/mehular0ra/propfinder/internal/services"
)

// Seeds the one admin account. Safe to run repeatedly: it checks the phone
// first and leaves an existing admin untouched.
func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "propfinder-seed").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.SeedAdminPhone == "" || cfg.SeedAdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_PHONE and SEED_ADMIN_PASSWORD are required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := db.Disconnect(ctx, database); err != nil {
			log.Error().Err(err).Msg("database disconnect")
		}
	}()

	users := database.Collection("users")

	err = users.FindOne(ctx, bson.M{"phone": cfg.SeedAdminPhone}).Err()
	if err == nil {
		log.Info().Str("phone", cfg.SeedAdminPhone).Msg("admin already exists, nothing to do")
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Fatal().Err(err).Msg("check existing admin")
	}

	hash, err := services.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}

	admin := models.User{
		ID:        primitive.NewObjectID(),
		Name:      cfg.SeedAdminName,
		Email:     cfg.SeedAdminEmail,
		Phone:     cfg.SeedAdminPhone,
		Password:  hash,
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if _, err := users.InsertOne(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("insert admin")
	}
	log.Info().Str("phone", admin.Phone).Msg("admin account created")
}
