package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	IsProduction bool

	// AutoPostInterest posts credit card interest charges directly instead of
	// creating a pending transaction for approval.
	AutoPostInterest bool

	// PendingExpiryDays is how many simulated days a pending transaction may
	// sit past its due date before the scheduler expires it. Zero disables
	// expiry.
	PendingExpiryDays int

	// AutoAdvanceOnStartup catches lagging owners up to wall-clock today when
	// the process starts.
	AutoAdvanceOnStartup bool

	// Kafka event publishing. Empty brokers disable publishing.
	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("AUTO_POST_INTEREST", false)
	viper.SetDefault("PENDING_EXPIRY_DAYS", 60)
	viper.SetDefault("AUTO_ADVANCE_ON_STARTUP", false)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "fincast.ledger")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.AutoPostInterest = viper.GetBool("AUTO_POST_INTEREST")
	cfg.PendingExpiryDays = viper.GetInt("PENDING_EXPIRY_DAYS")
	if cfg.PendingExpiryDays < 0 {
		log.Printf("Warning: PENDING_EXPIRY_DAYS is negative (%d), disabling pending expiry.\n", cfg.PendingExpiryDays)
		cfg.PendingExpiryDays = 0
	}
	cfg.AutoAdvanceOnStartup = viper.GetBool("AUTO_ADVANCE_ON_STARTUP")

	if brokers := viper.GetString("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	return cfg, nil
}
