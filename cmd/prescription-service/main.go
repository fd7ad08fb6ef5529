package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/client"
	"github.com/clinichub/clinic-services/internal/config"
	"github.com/clinichub/clinic-services/internal/handler/prescriptionapi"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	"github.com/clinichub/clinic-services/internal/router"
	"github.com/clinichub/clinic-services/internal/server"
	prescriptionsvc "github.com/clinichub/clinic-services/internal/service/prescription"
	"github.com/clinichub/clinic-services/pkg/logger"
)

func main() {
	cfg, err := config.Load("prescription-service", config.Defaults{Port: 5004, DBFile: "prescriptions.db"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(&logger.Config{Level: cfg.LogLevel, Service: cfg.ServiceName})

	db, err := sqlstore.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := sqlstore.MigratePrescriptions(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svc := prescriptionsvc.NewService(
		sqlstore.NewPrescriptionRepository(db),
		client.NewPatientClient(cfg.PatientServiceURL),
		client.NewMedicineClient(cfg.MedicineServiceURL),
	)
	engine := router.New(cfg, prescriptionapi.New(svc))

	if err := server.Run(cfg.Addr(), engine); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
