package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/goodthings/server/internal/auth"
	"github.com/goodthings/server/internal/config"
	"github.com/goodthings/server/internal/httpserver"
	"github.com/goodthings/server/internal/service"
	"github.com/goodthings/server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}
	defer db.Close()

	issuer, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), auth.DefaultTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token issuer")
	}
	verifier, err := auth.NewTokenVerifier([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token verifier")
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	users := service.NewUserService(db.Users(), hasher, issuer)
	posts := service.NewPostService(db.Posts())

	srv := httpserver.New(users, posts, verifier, cfg.ClientOrigin)
	log.Info().Str("port", cfg.Port).Msg("starting goodthings api")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
