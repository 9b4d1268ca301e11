// Package config holds the analysis parameters for a venue deployment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/venueops/registerwatch/internal/common"
	"github.com/venueops/registerwatch/internal/model"
)

// Thresholds controls the activity-level cutoffs.
type Thresholds struct {
	// HighFloor is the absolute minimum bucket total for a High label. A
	// low-variance day cannot produce High labels from the relative cutoff
	// alone.
	HighFloor int
	// CutoffStdMultiplier scales the standard deviation when deriving the
	// low/high cutoffs around the day mean.
	CutoffStdMultiplier float64
}

// OperatingWindow bounds the time buckets considered part of the trading day.
type OperatingWindow struct {
	Open  float64
	Close float64
}

// FrictionlessRule exempts one register in one year from unmanned detection.
type FrictionlessRule struct {
	RegisterID string
	Year       int
}

// Config is the full set of analysis parameters.
type Config struct {
	YearAnchors           map[int]string
	Stores                []string
	FrictionlessRegisters []FrictionlessRule
	Thresholds            Thresholds
	OperatingWindow       OperatingWindow
	ElapsedTimeCapSeconds float64
}

// Default returns the parameters of the original venue deployment.
func Default() Config {
	return Config{
		Thresholds: Thresholds{
			HighFloor:           25,
			CutoffStdMultiplier: 0.5,
		},
		OperatingWindow: OperatingWindow{
			Open:  10.0,
			Close: 22.0,
		},
		ElapsedTimeCapSeconds: 300,
		Stores:                []string{"S2", "22B", "11G", "OCT"},
		YearAnchors: map[int]string{
			2023: "2023-08-28",
			2024: "2024-08-26",
		},
		FrictionlessRegisters: []FrictionlessRule{
			{RegisterID: "11", Year: 2024},
		},
	}
}

// FromViper overlays configured values onto the defaults.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Default()

	if v.IsSet("thresholds.high_floor") {
		cfg.Thresholds.HighFloor = v.GetInt("thresholds.high_floor")
	}
	if v.IsSet("thresholds.cutoff_std_multiplier") {
		cfg.Thresholds.CutoffStdMultiplier = v.GetFloat64("thresholds.cutoff_std_multiplier")
	}
	if v.IsSet("operating_window.open") {
		cfg.OperatingWindow.Open = v.GetFloat64("operating_window.open")
	}
	if v.IsSet("operating_window.close") {
		cfg.OperatingWindow.Close = v.GetFloat64("operating_window.close")
	}
	if v.IsSet("elapsed_time_cap_seconds") {
		cfg.ElapsedTimeCapSeconds = v.GetFloat64("elapsed_time_cap_seconds")
	}
	if v.IsSet("stores") {
		cfg.Stores = v.GetStringSlice("stores")
	}
	if v.IsSet("year_anchors") {
		anchors := map[int]string{}
		for year, date := range v.GetStringMapString("year_anchors") {
			var y int
			if _, err := fmt.Sscanf(year, "%d", &y); err != nil {
				return Config{}, fmt.Errorf("%w: year anchor key %q is not a year", common.ErrInvalidConfig, year)
			}
			anchors[y] = date
		}
		cfg.YearAnchors = anchors
	}
	if v.IsSet("frictionless_registers") {
		var rules []FrictionlessRule
		if err := v.UnmarshalKey("frictionless_registers", &rules); err != nil {
			return Config{}, fmt.Errorf("%w: frictionless_registers: %v", common.ErrInvalidConfig, err)
		}
		cfg.FrictionlessRegisters = rules
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that would corrupt a run.
func (c *Config) Validate() error {
	if c.Thresholds.HighFloor < 0 {
		return fmt.Errorf("%w: high floor must not be negative, got %d", common.ErrInvalidConfig, c.Thresholds.HighFloor)
	}
	if c.Thresholds.CutoffStdMultiplier <= 0 {
		return fmt.Errorf("%w: cutoff std multiplier must be positive, got %f", common.ErrInvalidConfig, c.Thresholds.CutoffStdMultiplier)
	}
	if c.OperatingWindow.Open >= c.OperatingWindow.Close {
		return fmt.Errorf("%w: operating window open %.1f must precede close %.1f", common.ErrInvalidConfig, c.OperatingWindow.Open, c.OperatingWindow.Close)
	}
	if c.ElapsedTimeCapSeconds <= 0 {
		return fmt.Errorf("%w: elapsed time cap must be positive, got %f", common.ErrInvalidConfig, c.ElapsedTimeCapSeconds)
	}
	for year, date := range c.YearAnchors {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("%w: anchor date for %d: %v", common.ErrInvalidConfig, year, err)
		}
	}
	seen := make(map[FrictionlessRule]bool, len(c.FrictionlessRegisters))
	for _, rule := range c.FrictionlessRegisters {
		if rule.RegisterID == "" {
			return fmt.Errorf("%w: frictionless rule missing register id", common.ErrInvalidConfig)
		}
		if seen[rule] {
			return fmt.Errorf("%w: duplicate frictionless rule for register %s in %d", common.ErrInvalidConfig, rule.RegisterID, rule.Year)
		}
		seen[rule] = true
	}
	return nil
}

// DeviceType resolves a register's device type from the exception table.
// Configuration always wins over device types carried in uploaded data.
func (c *Config) DeviceType(registerID string, year int) model.DeviceType {
	for _, rule := range c.FrictionlessRegisters {
		if rule.RegisterID == registerID && rule.Year == year {
			return model.DeviceFrictionless
		}
	}
	return model.DeviceStandard
}
