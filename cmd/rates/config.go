package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL string

	HTTPPort string

	DefaultDays       int
	DefaultCurrencies []string

	CacheTTL time.Duration
	CronSpec string
	Location string
}

func LoadConfig() (Config, error) {
	if err := godotenv.Overload(); err != nil {
		log.Println(errors.New("no .env file, using process environment"))
	}

	cfg := Config{
		HTTPPort:          "8080",
		DefaultDays:       1,
		DefaultCurrencies: []string{"USD", "EUR"},
		CacheTTL:          10 * time.Minute,
		CronSpec:          "0 9 * * *",
		Location:          "Europe/Kyiv",
	}

	if v := strings.TrimSpace(os.Getenv("RATES_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.HTTPPort = p
	}

	if v := strings.TrimSpace(os.Getenv("RATES_DEFAULT_DAYS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("RATES_DEFAULT_DAYS is not an integer: %w", err)
		}
		cfg.DefaultDays = n
	}

	if v := strings.TrimSpace(os.Getenv("RATES_DEFAULT_CURRENCIES")); v != "" {
		cfg.DefaultCurrencies = strings.Split(v, ",")
	}

	if v := strings.TrimSpace(os.Getenv("RATES_CACHE_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("RATES_CACHE_TTL is not a duration: %w", err)
		}
		cfg.CacheTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("RATES_CRON_SPEC")); v != "" {
		cfg.CronSpec = v
	}

	if v := strings.TrimSpace(os.Getenv("RATES_LOCATION")); v != "" {
		cfg.Location = v
	}

	return cfg, nil
}
