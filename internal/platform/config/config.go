package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Default admin account, created on first startup if no users exist.
	AdminUsername string
	AdminPassword string

	// Scale connection settings.
	ScalePort         string
	ScaleBaudRate     int
	ScaleSimulate     bool
	ScaleBaseWeightKg float64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "weighbridge-backend")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("SCALE_PORT", "COM1")
	viper.SetDefault("SCALE_BAUD_RATE", 9600)
	viper.SetDefault("SCALE_SIMULATE", false)
	viper.SetDefault("SCALE_BASE_WEIGHT_KG", 12500.0)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 12 * time.Hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AdminUsername = viper.GetString("ADMIN_USERNAME")
	cfg.AdminPassword = viper.GetString("ADMIN_PASSWORD")
	if cfg.AdminPassword == "" {
		log.Println("Warning: ADMIN_PASSWORD not set. Default admin will be created with username as password.")
		cfg.AdminPassword = cfg.AdminUsername
	}

	cfg.ScalePort = viper.GetString("SCALE_PORT")
	cfg.ScaleBaudRate = viper.GetInt("SCALE_BAUD_RATE")
	if cfg.ScaleBaudRate <= 0 {
		cfg.ScaleBaudRate = 9600
		log.Printf("Warning: Invalid SCALE_BAUD_RATE. Defaulting to %d.\n", cfg.ScaleBaudRate)
	}
	cfg.ScaleSimulate = viper.GetBool("SCALE_SIMULATE")
	cfg.ScaleBaseWeightKg = viper.GetFloat64("SCALE_BASE_WEIGHT_KG")

	return cfg, nil
}
