package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/client"
	"github.com/clinichub/clinic-services/internal/config"
	"github.com/clinichub/clinic-services/internal/handler/appointmentapi"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	"github.com/clinichub/clinic-services/internal/router"
	"github.com/clinichub/clinic-services/internal/server"
	appointmentsvc "github.com/clinichub/clinic-services/internal/service/appointment"
	"github.com/clinichub/clinic-services/pkg/logger"
)

func main() {
	cfg, err := config.Load("appointment-service", config.Defaults{Port: 5003, DBFile: "appointments.db"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(&logger.Config{Level: cfg.LogLevel, Service: cfg.ServiceName})

	db, err := sqlstore.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := sqlstore.MigrateAppointments(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svc := appointmentsvc.NewService(
		sqlstore.NewAppointmentRepository(db),
		client.NewPatientClient(cfg.PatientServiceURL),
	)
	engine := router.New(cfg, appointmentapi.New(svc))

	if err := server.Run(cfg.Addr(), engine); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
