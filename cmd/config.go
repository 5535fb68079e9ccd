package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	HTTPPort string `validate:"required,numeric"`

	DBHost               string `validate:"required"`
	DBPort               string `validate:"required,numeric"`
	DBUser               string `validate:"required"`
	DBPassword           string
	DBName               string `validate:"required"`
	DBSslMode            string `validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
	DBMaxOpenConns       int    `validate:"gte=0"`
	DBMaxIdleConns       int    `validate:"gte=0"`
	DBConnMaxLifetime    time.Duration
	DBAutoMigrate        bool
	DBStatementTimeoutMs int `validate:"gte=0"`

	// KafkaBrokers is empty when events go to the log instead of a broker.
	KafkaBrokers []string `validate:"omitempty,dive,hostname_port"`
	KafkaSource  string   `validate:"required_with=KafkaBrokers"`

	LogLevel          string  `validate:"required,oneof=debug info warn error"`
	TraceSampleRatio  float64 `validate:"gte=0,lte=1"`
	ReconcileSchedule string  `validate:"required"`
}

func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DSN is the libpq connection string for gorm's postgres driver.
func (c Config) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
	if c.DBStatementTimeoutMs > 0 {
		dsn += fmt.Sprintf(" statement_timeout=%d", c.DBStatementTimeoutMs)
	}
	return dsn
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
