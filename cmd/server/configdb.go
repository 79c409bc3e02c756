package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/print.works/internal/pricing"
)

// loadPricingConfig assembles the engine configuration from the seeded
// sqlite tables. Inactive materials and tiers are left out, so the shop
// can retire an entry without deleting its history.
func loadPricingConfig(database *sql.DB) (pricing.Config, error) {
	cfg := pricing.Config{
		Quality: make(map[string]float64),
	}

	rows, err := database.Query(`
		SELECT name, density_g_cm3, cost_per_kg, small_order_base_fee
		FROM materials
		WHERE active = 1
		ORDER BY id
	`)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m pricing.Material
		if err := rows.Scan(&m.Name, &m.DensityGPerCm3, &m.CostPerKg, &m.SmallOrderBaseFee); err != nil {
			return pricing.Config{}, fmt.Errorf("scan material: %w", err)
		}
		cfg.Materials = append(cfg.Materials, m)
	}
	if err := rows.Err(); err != nil {
		return pricing.Config{}, fmt.Errorf("iterate materials: %w", err)
	}

	tiers, err := database.Query(`
		SELECT name, speed_mm3_min
		FROM quality_tiers
		WHERE active = 1
	`)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("query quality tiers: %w", err)
	}
	defer tiers.Close()

	for tiers.Next() {
		var (
			name  string
			speed float64
		)
		if err := tiers.Scan(&name, &speed); err != nil {
			return pricing.Config{}, fmt.Errorf("scan quality tier: %w", err)
		}
		cfg.Quality[name] = speed
	}
	if err := tiers.Err(); err != nil {
		return pricing.Config{}, fmt.Errorf("iterate quality tiers: %w", err)
	}

	var mode string
	p := &cfg.Params
	err = database.QueryRow(`
		SELECT
			shell_base_fraction,
			calibration_multiplier,
			waste_grams_per_part,
			support_mass_multiplier,
			prep_minutes_per_job,
			prep_per_part,
			print_rate_per_hour,
			small_fee_threshold,
			small_fee_taper,
			margin_percent,
			vat_percent,
			min_order_subtotal,
			mode,
			currency
		FROM pricing_params
		WHERE id = 1
	`).Scan(
		&p.ShellBaseFraction,
		&p.CalibrationMultiplier,
		&p.WasteGramsPerPart,
		&p.SupportMassMultiplier,
		&p.PrepMinutesPerJob,
		&p.PrepPerPart,
		&p.PrintRatePerHour,
		&p.SmallFeeThreshold,
		&p.SmallFeeTaper,
		&p.MarginPercent,
		&p.VATPercent,
		&p.MinOrderSubtotal,
		&mode,
		&cfg.Currency,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Config{}, fmt.Errorf("pricing params singleton not found")
	}
	if err != nil {
		return pricing.Config{}, fmt.Errorf("query pricing params: %w", err)
	}
	cfg.Mode = pricing.Mode(mode)

	if err := cfg.Validate(); err != nil {
		return pricing.Config{}, fmt.Errorf("stored pricing config: %w", err)
	}
	return cfg, nil
}
