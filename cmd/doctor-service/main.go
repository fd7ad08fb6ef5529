package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/config"
	"github.com/clinichub/clinic-services/internal/handler/doctorapi"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	"github.com/clinichub/clinic-services/internal/router"
	"github.com/clinichub/clinic-services/internal/server"
	doctorsvc "github.com/clinichub/clinic-services/internal/service/doctor"
	"github.com/clinichub/clinic-services/pkg/logger"
)

func main() {
	cfg, err := config.Load("doctor-service", config.Defaults{Port: 5006, DBFile: "doctors.db"})
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
	if err := sqlstore.MigrateDoctors(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svc := doctorsvc.NewService(sqlstore.NewDoctorRepository(db))
	if err := svc.EnsureDefaultSpecializations(ctx); err != nil {
		log.Fatal().Err(err).Msg("specialization bootstrap failed")
	}

	engine := router.New(cfg, doctorapi.New(svc))

	if err := server.Run(cfg.Addr(), engine); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
