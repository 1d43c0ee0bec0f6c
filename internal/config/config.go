package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a Postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(d.User), url.QueryEscape(d.Pass), d.Host, d.Port, d.Name)
}

// Kafka stores order-events consumer settings. Empty brokers/topic disable
// the consumer.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// CardGateway stores card payment provider settings and the retry policy of
// the outbound gateway.
type CardGateway struct {
	BaseURL     string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Dispatch stores dispatch workflow policy.
type Dispatch struct {
	// CourierShareBps is the courier's share of the order total credited on
	// delivery, in basis points. 10000 credits the full total.
	CourierShareBps  int
	OperationTimeout time.Duration
}

// RateLimit stores HTTP rate limiter settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores the optional pprof endpoint settings.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Config stores service settings.
type Config struct {
	Port      int
	DB        DB
	Kafka     Kafka
	Card      CardGateway
	Dispatch  Dispatch
	RateLimit RateLimit
	Pprof     Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      DefaultPort(),
		DB:        DefaultDB(),
		Kafka:     DefaultKafka(),
		Card:      DefaultCardGateway(),
		Dispatch:  DefaultDispatch(),
		RateLimit: DefaultRateLimit(),
		Pprof:     DefaultPprof(),
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.BoolVar(&cfg.Pprof.Enabled, "pprof", cfg.Pprof.Enabled, "enable pprof endpoint")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Port = p
	}

	setString(&cfg.DB.Host, "POSTGRES_HOST")
	setString(&cfg.DB.User, "POSTGRES_USER")
	setString(&cfg.DB.Pass, "POSTGRES_PASSWORD")
	setString(&cfg.DB.Name, "POSTGRES_DB")
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid POSTGRES_PORT: %q", v)
		}
		cfg.DB.Port = v
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitAndTrim(v)
	}
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
	setString(&cfg.Kafka.GroupID, "KAFKA_GROUP_ID")

	setString(&cfg.Card.BaseURL, "CARD_GATEWAY_URL")
	if v := os.Getenv("CARD_GATEWAY_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CARD_GATEWAY_MAX_ATTEMPTS: %q", v)
		}
		cfg.Card.MaxAttempts = n
	}

	if v := os.Getenv("DISPATCH_COURIER_SHARE_BPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DISPATCH_COURIER_SHARE_BPS: %q", v)
		}
		cfg.Dispatch.CourierShareBps = n
	}
	if v := os.Getenv("DISPATCH_OPERATION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DISPATCH_OPERATION_TIMEOUT: %q", v)
		}
		cfg.Dispatch.OperationTimeout = d
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}

	setString(&cfg.Pprof.Addr, "PPROF_ADDR")
	setString(&cfg.Pprof.User, "PPROF_USER")
	setString(&cfg.Pprof.Pass, "PPROF_PASS")

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Dispatch.CourierShareBps < 0 || cfg.Dispatch.CourierShareBps > 10000 {
		return fmt.Errorf("invalid courier share: %d bps", cfg.Dispatch.CourierShareBps)
	}
	if cfg.Card.MaxAttempts <= 0 {
		return fmt.Errorf("invalid card gateway attempts: %d", cfg.Card.MaxAttempts)
	}
	return nil
}
