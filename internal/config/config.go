package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Regulation defaults used when the environment does not override them.
const (
	DefaultTargetIntensity  = "89.3368" // gCO2eq/MJ
	DefaultEnergyPerTonneMJ = "41000"   // MJ per tonne of fuel
)

// Config holds everything the service reads from the environment, built once
// at startup and passed into constructors. Components never re-read env vars.
type Config struct {
	Port        string
	DBPath      string
	DatabaseURL string
	SeedPath    string

	// TargetIntensity is the global target in gCO2eq/MJ. TargetByYear holds
	// per-year regulatory overrides (TARGET_INTENSITY_<YEAR>); years without
	// an override fall back to TargetIntensity.
	TargetIntensity  decimal.Decimal
	TargetByYear     map[int]decimal.Decimal
	EnergyPerTonneMJ decimal.Decimal
}

const targetYearPrefix = "TARGET_INTENSITY_"

// Load builds a Config from the process environment.
func Load() (*Config, error) {
	target, err := decimalEnv("TARGET_INTENSITY", DefaultTargetIntensity)
	if err != nil {
		return nil, err
	}

	energy, err := decimalEnv("ENERGY_PER_TONNE_MJ", DefaultEnergyPerTonneMJ)
	if err != nil {
		return nil, err
	}

	byYear, err := targetsByYear(os.Environ())
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:             Get("PORT", "8080"),
		DBPath:           Get("DB_PATH", "data/app.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SeedPath:         Get("SEED_PATH", "data/seeds/routes.json"),
		TargetIntensity:  target,
		TargetByYear:     byYear,
		EnergyPerTonneMJ: energy,
	}, nil
}

// TargetForYear resolves the target intensity for a reporting year.
func (c *Config) TargetForYear(year int) decimal.Decimal {
	if t, ok := c.TargetByYear[year]; ok {
		return t
	}
	return c.TargetIntensity
}

// Get returns the named env var, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	raw := Get(key, fallback)

	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("load config: parse %s=%q: %w", key, raw, err)
	}

	return d, nil
}

// targetsByYear collects TARGET_INTENSITY_<YEAR> overrides from the
// environment, e.g. TARGET_INTENSITY_2024=91.5.
func targetsByYear(environ []string) (map[int]decimal.Decimal, error) {
	byYear := make(map[int]decimal.Decimal)

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, targetYearPrefix) {
			continue
		}

		year, err := strconv.Atoi(strings.TrimPrefix(key, targetYearPrefix))
		if err != nil {
			continue
		}

		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("load config: parse %s=%q: %w", key, value, err)
		}

		byYear[year] = d
	}

	return byYear, nil
}
