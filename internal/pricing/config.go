package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how a subtotal is turned into a final price.
type Mode string

const (
	// ModeTaperedFee adds a small-order surcharge that fades out as the
	// subtotal grows, then rounds up.
	ModeTaperedFee Mode = "tapered_fee"
	// ModeMarginVAT floors the subtotal at a minimum order value, applies
	// margin and VAT, then rounds up. The two modes are never combined.
	ModeMarginVAT Mode = "margin_vat"
)

// Quality tier names recognized out of the box.
const (
	QualityDraft    = "draft"
	QualityStandard = "standard"
	QualityFine     = "fine"
)

// Material represents a printable filament and its commercial figures.
type Material struct {
	Name              string  `yaml:"name" json:"name"`
	DensityGPerCm3    float64 `yaml:"density_g_cm3" json:"density_g_cm3"`
	CostPerKg         float64 `yaml:"cost_per_kg" json:"cost_per_kg"`
	SmallOrderBaseFee float64 `yaml:"small_order_base_fee" json:"small_order_base_fee"`
}

// RatePerGram returns the material cost per gram.
func (m Material) RatePerGram() float64 {
	return m.CostPerKg / 1000.0
}

// Params represents the tunables shared by all estimates.
type Params struct {
	ShellBaseFraction     float64 `yaml:"shell_base_fraction" json:"shell_base_fraction"`
	CalibrationMultiplier float64 `yaml:"calibration_multiplier" json:"calibration_multiplier"`
	WasteGramsPerPart     float64 `yaml:"waste_grams_per_part" json:"waste_grams_per_part"`
	SupportMassMultiplier float64 `yaml:"support_mass_multiplier" json:"support_mass_multiplier"`
	PrepMinutesPerJob     float64 `yaml:"prep_minutes_per_job" json:"prep_minutes_per_job"`
	PrepPerPart           bool    `yaml:"prep_per_part" json:"prep_per_part"`
	PrintRatePerHour      float64 `yaml:"print_rate_per_hour" json:"print_rate_per_hour"`
	SmallFeeThreshold     float64 `yaml:"small_fee_threshold" json:"small_fee_threshold"`
	SmallFeeTaper         float64 `yaml:"small_fee_taper" json:"small_fee_taper"`
	MarginPercent         float64 `yaml:"margin_percent" json:"margin_percent"`
	VATPercent            float64 `yaml:"vat_percent" json:"vat_percent"`
	MinOrderSubtotal      float64 `yaml:"min_order_subtotal" json:"min_order_subtotal"`
}

// Config groups everything the engine needs to price a job. A Config is
// assembled once at startup and treated as read-only afterwards.
type Config struct {
	Currency  string             `yaml:"currency" json:"currency"`
	Mode      Mode               `yaml:"mode" json:"mode"`
	Materials []Material         `yaml:"materials" json:"materials"`
	Quality   map[string]float64 `yaml:"quality_speeds" json:"quality_speeds"`
	Params    Params             `yaml:"params" json:"params"`
}

// Default returns the configuration the shop runs with when nothing
// else is provided. Quality speeds are deposition rates in mm3 per
// minute.
func Default() Config {
	return Config{
		Currency: "COP",
		Mode:     ModeTaperedFee,
		Materials: []Material{
			{Name: "PLA", DensityGPerCm3: 1.24, CostPerKg: 2000, SmallOrderBaseFee: 150},
			{Name: "PETG", DensityGPerCm3: 1.27, CostPerKg: 2400, SmallOrderBaseFee: 150},
			{Name: "ABS", DensityGPerCm3: 1.04, CostPerKg: 2200, SmallOrderBaseFee: 180},
			{Name: "TPU", DensityGPerCm3: 1.21, CostPerKg: 3500, SmallOrderBaseFee: 200},
		},
		Quality: map[string]float64{
			QualityDraft:    812,
			QualityStandard: 486,
			QualityFine:     297,
		},
		Params: Params{
			ShellBaseFraction:     0.70,
			CalibrationMultiplier: 2.02,
			WasteGramsPerPart:     2.0,
			SupportMassMultiplier: 1.25,
			PrepMinutesPerJob:     6.23,
			PrepPerPart:           false,
			PrintRatePerHour:      120,
			SmallFeeThreshold:     1000,
			SmallFeeTaper:         2000,
			MarginPercent:         30,
			VATPercent:            19,
			MinOrderSubtotal:      800,
		},
	}
}

// MaterialByName looks up a material by name, ignoring case.
func (c Config) MaterialByName(name string) (Material, error) {
	for _, m := range c.Materials {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Material{}, fmt.Errorf("material %q: %w", name, ErrUnknownMaterial)
}

// SpeedFor returns the deposition speed for a quality tier, ignoring case.
func (c Config) SpeedFor(quality string) (float64, error) {
	if speed, ok := c.Quality[strings.ToLower(quality)]; ok {
		return speed, nil
	}
	return 0, fmt.Errorf("quality %q: %w", quality, ErrInvalidQualityTier)
}

// Validate reports configurations the engine cannot price with.
func (c Config) Validate() error {
	if c.Mode != ModeTaperedFee && c.Mode != ModeMarginVAT {
		return fmt.Errorf("unknown pricing mode %q", c.Mode)
	}
	if len(c.Materials) == 0 {
		return errors.New("no materials configured")
	}
	for _, m := range c.Materials {
		if m.Name == "" {
			return errors.New("material with empty name")
		}
		if m.DensityGPerCm3 <= 0 {
			return fmt.Errorf("material %s: density must be positive", m.Name)
		}
		if m.CostPerKg < 0 || m.SmallOrderBaseFee < 0 {
			return fmt.Errorf("material %s: negative cost figure", m.Name)
		}
	}
	if len(c.Quality) == 0 {
		return errors.New("no quality tiers configured")
	}
	for name, speed := range c.Quality {
		if speed <= 0 {
			return fmt.Errorf("quality %s: speed must be positive", name)
		}
	}
	if c.Params.ShellBaseFraction < 0 || c.Params.ShellBaseFraction > 1 {
		return fmt.Errorf("shell base fraction %v outside [0, 1]", c.Params.ShellBaseFraction)
	}
	if c.Params.CalibrationMultiplier <= 0 {
		return errors.New("calibration multiplier must be positive")
	}
	if c.Params.SmallFeeTaper < 0 || c.Params.SmallFeeThreshold < 0 {
		return errors.New("negative small-order fee bounds")
	}
	return nil
}
