package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/config"
	"github.com/clinichub/clinic-services/internal/handler/medicineapi"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	"github.com/clinichub/clinic-services/internal/router"
	"github.com/clinichub/clinic-services/internal/server"
	medicinesvc "github.com/clinichub/clinic-services/internal/service/medicine"
	"github.com/clinichub/clinic-services/pkg/logger"
)

func main() {
	cfg, err := config.Load("medicine-service", config.Defaults{Port: 5005, DBFile: "medicines.db"})
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
	if err := sqlstore.MigrateMedicines(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	svc := medicinesvc.NewService(sqlstore.NewMedicineRepository(db))
	if err := svc.EnsureDefaultCategories(ctx); err != nil {
		log.Fatal().Err(err).Msg("category bootstrap failed")
	}

	engine := router.New(cfg, medicineapi.New(svc))

	if err := server.Run(cfg.Addr(), engine); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
