// Package config loads per-service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config is the shared shape of every service's configuration. Peer URLs
// are only read by the services that call that peer.
type Config struct {
	ServiceName string
	Port        int
	DatabaseURL string

	JWTSecret   string
	JWTExpiry   time.Duration
	LogLevel    string
	RateLimit   float64
	RateBurst   int
	CORSOrigins []string

	PatientServiceURL  string
	DoctorServiceURL   string
	MedicineServiceURL string
}

// Defaults are the per-service port and database file used when the
// environment does not override them.
type Defaults struct {
	Port   int
	DBFile string
}

// Load reads the environment for the named service. A .env file in the
// working directory is merged in first when present.
func Load(service string, defaults Defaults) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", defaults.Port)
	v.SetDefault("DATABASE_URL", defaults.DBFile)
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT", 0.0)
	v.SetDefault("RATE_BURST", 100)
	v.SetDefault("CORS_ORIGINS", []string{"*"})
	v.SetDefault("PATIENT_SERVICE_URL", "http://localhost:5002")
	v.SetDefault("MEDICINE_SERVICE_URL", "http://localhost:5005")
	v.SetDefault("DOCTOR_SERVICE_URL", "http://localhost:5006")

	cfg := &Config{
		ServiceName:        service,
		Port:               v.GetInt("PORT"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTExpiry:          time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		LogLevel:           v.GetString("LOG_LEVEL"),
		RateLimit:          v.GetFloat64("RATE_LIMIT"),
		RateBurst:          v.GetInt("RATE_BURST"),
		CORSOrigins:        v.GetStringSlice("CORS_ORIGINS"),
		PatientServiceURL:  v.GetString("PATIENT_SERVICE_URL"),
		DoctorServiceURL:   v.GetString("DOCTOR_SERVICE_URL"),
		MedicineServiceURL: v.GetString("MEDICINE_SERVICE_URL"),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

// Addr is the listen address derived from the port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
