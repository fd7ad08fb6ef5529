package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/config"
	"github.com/clinichub/clinic-services/internal/handler/patientapi"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	"github.com/clinichub/clinic-services/internal/router"
	"github.com/clinichub/clinic-services/internal/server"
	patientsvc "github.com/clinichub/clinic-services/internal/service/patient"
	"github.com/clinichub/clinic-services/pkg/logger"
)

func main() {
	cfg, err := config.Load("patient-service", config.Defaults{Port: 5002, DBFile: "patients.db"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(&logger.Config{Level: cfg.LogLevel, Service: cfg.ServiceName})

	db, err := sqlstore.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := sqlstore.MigratePatients(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svc := patientsvc.NewService(sqlstore.NewPatientRepository(db))
	engine := router.New(cfg, patientapi.New(svc))

	if err := server.Run(cfg.Addr(), engine); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
