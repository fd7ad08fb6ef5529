package main

import (
	"context"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/config"
	"github.com/clinichub/clinic-services/internal/handler/authapi"
	"github.com/clinichub/clinic-services/internal/middleware"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	"github.com/clinichub/clinic-services/internal/router"
	"github.com/clinichub/clinic-services/internal/server"
	authsvc "github.com/clinichub/clinic-services/internal/service/auth"
	"github.com/clinichub/clinic-services/pkg/auth"
	"github.com/clinichub/clinic-services/pkg/logger"
	"github.com/clinichub/clinic-services/pkg/security"
)

func main() {
	cfg, err := config.Load("auth-service", config.Defaults{Port: 5001, DBFile: "auth.db"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(&logger.Config{Level: cfg.LogLevel, Service: cfg.ServiceName})

	db, err := sqlstore.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := sqlstore.MigrateUsers(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return security.IsStrongPassword(fl.Field().String())
		})
	}

	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	svc := authsvc.NewService(
		sqlstore.NewUserRepository(db),
		security.NewBcryptHasher(0),
		tokens,
	)
	if err := svc.EnsureAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	authenticator := middleware.NewAuthenticator(tokens)
	engine := router.New(cfg, authapi.New(svc, authenticator))

	if err := server.Run(cfg.Addr(), engine); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
