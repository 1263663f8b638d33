package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration. Settlement policy that lives
// in the factory record (fee, reserve ratio) is only seeded from here when
// the factory is first created; afterwards the admin instructions own it.
type Config struct {
	Addr          string
	AdminToken    string
	JWTSigningKey string

	PostgresDSN  string
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string

	// BondDeskURL points at the external bond desk; empty runs the
	// in-memory desk, which only makes sense for development.
	BondDeskURL string

	// PriceCacheTTL bounds how long a cached oracle price stays fresh.
	PriceCacheTTL time.Duration

	// CurrencyPrices and BondPrices seed the static oracle source, each
	// entry formatted as code=mantissa:scale.
	CurrencyPrices map[string]PriceSpec
	BondPrices     map[string]PriceSpec

	// PlanTTL bounds how long a quoted plan may wait for its commit.
	PlanTTL time.Duration

	// Factory seed values, basis points.
	ProtocolFeeBps     uint16
	BaseReserveBps     uint16
	ReserveNumerator   uint8
	ReserveDenominator uint8

	Redis RedisConfig
}

// RedisConfig tunes the shared Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:          envOr("SOVMINT_ADDR", ":8080"),
		AdminToken:    envOr("SOVMINT_ADMIN_TOKEN", ""),
		JWTSigningKey: envOr("SOVMINT_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PostgresDSN:   envOr("SOVMINT_POSTGRES_DSN", ""),
		RedisURL:      envOr("SOVMINT_REDIS_URL", ""),
		KafkaTopic:    envOr("SOVMINT_KAFKA_TOPIC", "sovmint.settlement.audit"),

		BondDeskURL:   envOr("SOVMINT_BOND_DESK_URL", ""),
		PriceCacheTTL: envDurationOr("SOVMINT_PRICE_CACHE_TTL", 30*time.Second),

		PlanTTL: envDurationOr("SOVMINT_PLAN_TTL", 5*time.Minute),

		ProtocolFeeBps:     uint16(envIntOr("SOVMINT_PROTOCOL_FEE_BPS", 50)),
		BaseReserveBps:     uint16(envIntOr("SOVMINT_BASE_RESERVE_BPS", 2000)),
		ReserveNumerator:   uint8(envIntOr("SOVMINT_RESERVE_RATIO_NUM", 50)),
		ReserveDenominator: uint8(envIntOr("SOVMINT_RESERVE_RATIO_DEN", 1)),
	}

	if brokers := envOr("SOVMINT_KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	cfg.CurrencyPrices = parsePrices(envOr("SOVMINT_CURRENCY_PRICES", ""))
	cfg.BondPrices = parsePrices(envOr("SOVMINT_BOND_PRICES", ""))

	cfg.Redis = RedisConfig{
		URL:          cfg.RedisURL,
		PoolSize:     envIntOr("SOVMINT_REDIS_POOL_SIZE", 10),
		MinIdleConns: envIntOr("SOVMINT_REDIS_MIN_IDLE", 2),
		DialTimeout:  envDurationOr("SOVMINT_REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  envDurationOr("SOVMINT_REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: envDurationOr("SOVMINT_REDIS_WRITE_TIMEOUT", 3*time.Second),
	}

	return cfg
}

// PriceSpec is a fixed-point price: Mantissa * 10^-Scale.
type PriceSpec struct {
	Mantissa uint64
	Scale    uint32
}

// parsePrices reads a comma-separated list of code=mantissa:scale entries,
// e.g. "EUR=92:2,GBP=79:2". Malformed entries are skipped.
func parsePrices(raw string) map[string]PriceSpec {
	if raw == "" {
		return nil
	}
	prices := make(map[string]PriceSpec)
	for _, entry := range strings.Split(raw, ",") {
		code, value, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok {
			continue
		}
		mantissaStr, scaleStr, ok := strings.Cut(value, ":")
		if !ok {
			continue
		}
		mantissa, err := strconv.ParseUint(mantissaStr, 10, 64)
		if err != nil {
			continue
		}
		scale, err := strconv.ParseUint(scaleStr, 10, 32)
		if err != nil {
			continue
		}
		prices[code] = PriceSpec{Mantissa: mantissa, Scale: uint32(scale)}
	}
	return prices
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
