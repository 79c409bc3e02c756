// Package seed inserts the baseline rows a fresh database needs: the
// admin user, the material catalog, the quality tiers and the pricing
// parameter singleton.
package seed

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/Simplici0/print.works/internal/pricing"
)

// Config contains the values required by the startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way. Missing rows are
// inserted from the built-in pricing defaults, existing rows are left
// untouched, and a changed admin password is rotated in place.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	defaults := pricing.Default()

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureMaterials(tx, defaults.Materials, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureQualityTiers(tx, defaults.Quality, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureParams(tx, defaults, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	hash := hashPassword(password)

	var current string
	err := tx.QueryRow(`SELECT password_hash FROM users WHERE email = ? LIMIT 1`, email).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, hash); err != nil {
			return fmt.Errorf("insert admin user: %w", err)
		}
		stats.Inserts++
	case err != nil:
		return fmt.Errorf("check admin user: %w", err)
	case current != hash:
		if _, err := tx.Exec(`UPDATE users SET password_hash = ? WHERE email = ?`, hash, email); err != nil {
			return fmt.Errorf("rotate admin password: %w", err)
		}
		stats.Updates++
	}
	return nil
}

func ensureMaterials(tx *sql.Tx, materials []pricing.Material, stats *Stats) error {
	for _, m := range materials {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE name = ? LIMIT 1)`, m.Name).Scan(&exists); err != nil {
			return fmt.Errorf("check material %s: %w", m.Name, err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO materials (name, density_g_cm3, cost_per_kg, small_order_base_fee, active)
			VALUES (?, ?, ?, ?, 1)
		`, m.Name, m.DensityGPerCm3, m.CostPerKg, m.SmallOrderBaseFee); err != nil {
			return fmt.Errorf("insert material %s: %w", m.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureQualityTiers(tx *sql.Tx, quality map[string]float64, stats *Stats) error {
	names := make([]string, 0, len(quality))
	for name := range quality {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM quality_tiers WHERE name = ? LIMIT 1)`, name).Scan(&exists); err != nil {
			return fmt.Errorf("check quality tier %s: %w", name, err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO quality_tiers (name, speed_mm3_min, active)
			VALUES (?, ?, 1)
		`, name, quality[name]); err != nil {
			return fmt.Errorf("insert quality tier %s: %w", name, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureParams(tx *sql.Tx, defaults pricing.Config, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM pricing_params WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check pricing params existence: %w", err)
	}
	if exists {
		return nil
	}

	p := defaults.Params
	if _, err := tx.Exec(`
		INSERT INTO pricing_params (
			id,
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
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ShellBaseFraction, p.CalibrationMultiplier, p.WasteGramsPerPart, p.SupportMassMultiplier,
		p.PrepMinutesPerJob, p.PrepPerPart, p.PrintRatePerHour, p.SmallFeeThreshold, p.SmallFeeTaper,
		p.MarginPercent, p.VATPercent, p.MinOrderSubtotal, string(defaults.Mode), defaults.Currency); err != nil {
		return fmt.Errorf("insert pricing params singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
