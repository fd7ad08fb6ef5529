package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/client"
	"github.com/clinichub/clinic-services/internal/config"
	"github.com/clinichub/clinic-services/internal/handler/billingapi"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	"github.com/clinichub/clinic-services/internal/router"
	"github.com/clinichub/clinic-services/internal/server"
	billingsvc "github.com/clinichub/clinic-services/internal/service/billing"
	"github.com/clinichub/clinic-services/pkg/logger"
)

func main() {
	cfg, err := config.Load("billing-service", config.Defaults{Port: 5007, DBFile: "billing.db"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(&logger.Config{Level: cfg.LogLevel, Service: cfg.ServiceName})

	db, err := sqlstore.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := sqlstore.MigrateBilling(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svc := billingsvc.NewService(
		sqlstore.NewBillingRepository(db),
		client.NewDoctorClient(cfg.DoctorServiceURL),
	)
	engine := router.New(cfg, billingapi.New(svc))

	if err := server.Run(cfg.Addr(), engine); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
