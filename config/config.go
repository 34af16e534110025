package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port     string
	MongoURI string // empty disables the archive/recovery layer

	// External balance platform; empty URL selects the in-memory wallet.
	WalletURL    string
	WalletSecret string

	// Engine tuning
	HouseEdge    float64       // operator take, e.g. 0.03
	GrowthRate   float64       // curve exponent per second
	MaxCrash     float64       // payout exposure cap
	MinStake     decimal.Decimal
	MaxStake     decimal.Decimal
	WaitDuration time.Duration // betting countdown
	DisplayDelay time.Duration // crash result shown before next round
	TickInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:         "5000",
		MongoURI:     os.Getenv("MONGODB_URI"),
		WalletURL:    os.Getenv("WALLET_URL"),
		WalletSecret: os.Getenv("WALLET_SECRET"),
		HouseEdge:    0.03,
		GrowthRate:   0.1,
		MaxCrash:     5000.0,
		MinStake:     decimal.NewFromInt(10),
		MaxStake:     decimal.NewFromInt(100000),
		WaitDuration: 5 * time.Second,
		DisplayDelay: 3 * time.Second,
		TickInterval: 50 * time.Millisecond,
	}
	if p := os.Getenv("PORT"); p != "" {
		cfg.Port = p
	}
	if v := envFloat("HOUSE_EDGE"); v > 0 && v < 1 {
		cfg.HouseEdge = v
	}
	if v := envFloat("GROWTH_RATE"); v > 0 {
		cfg.GrowthRate = v
	}
	if v := envFloat("MAX_CRASH"); v > 1 {
		cfg.MaxCrash = v
	}
	if v := envFloat("MIN_STAKE"); v > 0 {
		cfg.MinStake = decimal.NewFromFloat(v)
	}
	if v := envFloat("MAX_STAKE"); v > 0 {
		cfg.MaxStake = decimal.NewFromFloat(v)
	}
	if v := envInt("WAIT_SECONDS"); v > 0 {
		cfg.WaitDuration = time.Duration(v) * time.Second
	}
	if v := envInt("DISPLAY_SECONDS"); v > 0 {
		cfg.DisplayDelay = time.Duration(v) * time.Second
	}
	if v := envInt("TICK_MILLIS"); v >= 10 && v <= 1000 {
		cfg.TickInterval = time.Duration(v) * time.Millisecond
	}
	return cfg
}

func envFloat(key string) float64 {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return 0
}

func envInt(key string) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return 0
}
