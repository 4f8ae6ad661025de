package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	CommissionRate      kernel.CommissionRate
	OfferTTL            time.Duration
	OfferExpirySchedule string

	NotifyTimeout           time.Duration
	NotifyMaxInFlight       int
	KafkaHost               string
	KafkaNotificationsTopic string

	RedisAddr        string
	ShipmentCacheTTL time.Duration

	LogLevel  string
	LogFormat string
}

// LoadConfig reads the configuration through getenv. Unset optional values
// fall back to their defaults; malformed values are reported together.
func LoadConfig(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPPort:                env("HTTP_PORT", "8080"),
		DBHost:                  env("DB_HOST", "localhost"),
		DBPort:                  env("DB_PORT", "5432"),
		DBUser:                  env("DB_USER", "postgres"),
		DBPassword:              getenv("DB_PASSWORD"),
		DBName:                  env("DB_NAME", "freight"),
		DBSslMode:               env("DB_SSLMODE", "disable"),
		OfferExpirySchedule:     env("OFFER_EXPIRY_SCHEDULE", "0 * * * * *"),
		KafkaHost:               env("KAFKA_HOST", ""),
		KafkaNotificationsTopic: env("KAFKA_NOTIFICATIONS_TOPIC", "freight.notifications"),
		RedisAddr:               env("REDIS_ADDR", ""),
		LogLevel:                env("LOG_LEVEL", "info"),
		LogFormat:               env("LOG_FORMAT", "json"),
	}

	var problems []error

	rate, err := kernel.CommissionRateFromString(env("COMMISSION_RATE", "0.01"))
	problems = append(problems, err)
	cfg.CommissionRate = rate

	cfg.OfferTTL, err = positiveDuration(env("OFFER_TTL_HOURS", "168"), time.Hour, "OFFER_TTL_HOURS")
	problems = append(problems, err)

	cfg.NotifyTimeout, err = positiveDuration(env("NOTIFY_TIMEOUT_SECONDS", "5"), time.Second, "NOTIFY_TIMEOUT_SECONDS")
	problems = append(problems, err)

	cfg.ShipmentCacheTTL, err = positiveDuration(env("SHIPMENT_CACHE_TTL_SECONDS", "60"), time.Second,
		"SHIPMENT_CACHE_TTL_SECONDS")
	problems = append(problems, err)

	cfg.NotifyMaxInFlight, err = positiveInt(env("NOTIFY_MAX_IN_FLIGHT", "64"), "NOTIFY_MAX_IN_FLIGHT")
	problems = append(problems, err)

	if err = errors.Join(problems...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func positiveInt(raw, name string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if n <= 0 {
		return 0, errs.NewValueIsOutOfRangeError(name, n, 1, "unbounded")
	}
	return n, nil
}

func positiveDuration(raw string, unit time.Duration, name string) (time.Duration, error) {
	n, err := positiveInt(raw, name)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * unit, nil
}
