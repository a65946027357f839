package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// MaxPercentageCharging caps the percentage-charging field on cost
	// lines. Expressed in percent, so 100 means "at most the full amount".
	MaxPercentageCharging decimal.Decimal

	PosthogAPIKey  string
	PosthogHost    string
	CORSOrigins    string
	MigrationsPath string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "relief-finance-backend")
	viper.SetDefault("MAX_PERCENTAGE_CHARGING", "100")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_HOST", "https://eu.i.posthog.com")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	maxPctStr := viper.GetString("MAX_PERCENTAGE_CHARGING")
	maxPct, err := decimal.NewFromString(maxPctStr)
	if err != nil || maxPct.IsNegative() {
		maxPct = decimal.NewFromInt(100)
		log.Printf("Warning: Invalid value for MAX_PERCENTAGE_CHARGING (%q). Defaulting to %s.\n", maxPctStr, maxPct)
	}
	cfg.MaxPercentageCharging = maxPct

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogHost = viper.GetString("POSTHOG_HOST")
	cfg.CORSOrigins = viper.GetString("CORS_ORIGINS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	return cfg, nil
}
