package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	RateLimit      string
	AllowedOrigins []string

	// Ledger policy knobs
	LargeAmountThreshold decimal.Decimal
	ComplianceCutoffDate *time.Time
	AnomalyWindowDays    int

	// Inventory sync collaborator; an empty URL disables the integration.
	InventorySyncURL    string
	InventorySyncAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("LARGE_AMOUNT_THRESHOLD", "10000")
	viper.SetDefault("COMPLIANCE_CUTOFF_DATE", "")
	viper.SetDefault("ANOMALY_WINDOW_DAYS", 30)
	viper.SetDefault("INVENTORY_SYNC_URL", "")
	viper.SetDefault("INVENTORY_SYNC_API_KEY", "")

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
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	origins := strings.Split(viper.GetString("ALLOWED_ORIGINS"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	cfg.AllowedOrigins = origins

	thresholdStr := viper.GetString("LARGE_AMOUNT_THRESHOLD")
	threshold, err := decimal.NewFromString(thresholdStr)
	if err != nil {
		threshold = decimal.NewFromInt(10000)
		log.Printf("Warning: Invalid value for LARGE_AMOUNT_THRESHOLD ('%s'). Defaulting to %s.\n", thresholdStr, threshold.String())
	}
	cfg.LargeAmountThreshold = threshold

	if cutoffStr := viper.GetString("COMPLIANCE_CUTOFF_DATE"); cutoffStr != "" {
		cutoff, err := time.Parse("2006-01-02", cutoffStr)
		if err != nil {
			log.Printf("Warning: Invalid value for COMPLIANCE_CUTOFF_DATE ('%s'). Compliance cutoff disabled.\n", cutoffStr)
		} else {
			cfg.ComplianceCutoffDate = &cutoff
		}
	}

	cfg.AnomalyWindowDays = viper.GetInt("ANOMALY_WINDOW_DAYS")
	if cfg.AnomalyWindowDays <= 0 {
		cfg.AnomalyWindowDays = 30
		log.Printf("Warning: ANOMALY_WINDOW_DAYS must be positive. Defaulting to %d.\n", cfg.AnomalyWindowDays)
	}

	cfg.InventorySyncURL = viper.GetString("INVENTORY_SYNC_URL")
	cfg.InventorySyncAPIKey = viper.GetString("INVENTORY_SYNC_API_KEY")

	return cfg, nil
}
