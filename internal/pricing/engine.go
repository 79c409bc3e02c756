package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Simplici0/print.works/internal/mesh"
)

var (
	// ErrUnknownMaterial reports a material name missing from the catalog.
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrInvalidQualityTier reports a quality tier with no configured speed.
	ErrInvalidQualityTier = errors.New("invalid quality tier")
	// ErrInvalidSettings reports print settings outside their legal range.
	ErrInvalidSettings = errors.New("invalid print settings")
)

// Print time scales with deposited volume: a hollow part still pays a
// floor of the base time, rising linearly with infill, and supports add
// a fixed share on top.
const (
	infillTimeBase    = 0.85
	infillTimeSpan    = 0.60
	supportTimeFactor = 1.15
)

// Settings represents the per-item choices a customer makes.
type Settings struct {
	Material      string  `json:"material"`
	Quality       string  `json:"quality"`
	InfillPercent float64 `json:"infill_percent"`
	Supports      bool    `json:"supports"`
	Quantity      int     `json:"quantity"`
}

// LineItemBreakdown contains all intermediate values of pricing one line
// item, echoing the resolved settings it was computed from.
type LineItemBreakdown struct {
	Material      string
	Quality       string
	InfillPercent float64
	Supports      bool
	Quantity      int

	GramsPerPart   float64
	GramsTotal     float64
	MinutesPerPart float64
	MinutesTotal   float64

	MaterialCost  float64
	MachineCost   float64
	Subtotal      float64
	SmallOrderFee float64
	Margin        float64
	VAT           float64
	UnitPrice     float64
	LineTotal     float64
}

// QuoteBreakdown contains roll-up values across all line items of a job.
type QuoteBreakdown struct {
	TotalGrams   float64
	PrintMinutes float64
	PrepMinutes  float64
	TotalMinutes float64

	Subtotal      float64
	SmallOrderFee float64
	Margin        float64
	VAT           float64
	FinalPrice    float64
}

// EstimateMass returns the filament grams needed to print one part with
// the given solid volume. Waste covers purge and failed starts and is
// charged even for a zero-volume mesh.
func EstimateMass(volumeMm3 float64, m Material, s Settings, p Params) float64 {
	volumeCm3 := volumeMm3 / 1000.0
	solidGrams := volumeCm3 * m.DensityGPerCm3

	fillFraction := p.ShellBaseFraction + (1.0-p.ShellBaseFraction)*(s.InfillPercent/100.0)
	supportFactor := 1.0
	if s.Supports {
		supportFactor = p.SupportMassMultiplier
	}
	return solidGrams*fillFraction*supportFactor*p.CalibrationMultiplier + p.WasteGramsPerPart
}

// EstimateTime returns the print minutes for one part at the given
// deposition speed in mm3 per minute.
func EstimateTime(volumeMm3, speed float64, s Settings) float64 {
	minutes := (volumeMm3 / speed) * (infillTimeBase + (s.InfillPercent/100.0)*infillTimeSpan)
	if s.Supports {
		minutes *= supportTimeFactor
	}
	return minutes
}

// SmallOrderFee returns the surcharge for a subtotal. Orders at or below
// the threshold pay the full base fee; above it the fee declines linearly
// and reaches zero once the taper span has passed.
func SmallOrderFee(subtotal, baseFee float64, p Params) float64 {
	if subtotal <= p.SmallFeeThreshold {
		return baseFee
	}
	if p.SmallFeeTaper <= 0 {
		return 0
	}
	fee := baseFee * (1.0 - (subtotal-p.SmallFeeThreshold)/p.SmallFeeTaper)
	if fee < 0 {
		return 0
	}
	return fee
}

func validateSettings(s Settings) error {
	if s.Quantity < 1 {
		return fmt.Errorf("quantity %d: %w", s.Quantity, ErrInvalidSettings)
	}
	if math.IsNaN(s.InfillPercent) || s.InfillPercent < 0 || s.InfillPercent > 100 {
		return fmt.Errorf("infill %v%%: %w", s.InfillPercent, ErrInvalidSettings)
	}
	return nil
}

// PriceLineItem computes the full cost breakdown for one line item from
// its mesh metrics and settings.
func PriceLineItem(metrics mesh.Metrics, s Settings, c Config) (LineItemBreakdown, error) {
	if err := validateSettings(s); err != nil {
		return LineItemBreakdown{}, err
	}
	material, err := c.MaterialByName(s.Material)
	if err != nil {
		return LineItemBreakdown{}, err
	}
	speed, err := c.SpeedFor(s.Quality)
	if err != nil {
		return LineItemBreakdown{}, err
	}

	gramsPerPart := EstimateMass(metrics.VolumeMm3, material, s, c.Params)
	minutesPerPart := EstimateTime(metrics.VolumeMm3, speed, s)

	qty := float64(s.Quantity)
	b := LineItemBreakdown{
		Material:       material.Name,
		Quality:        strings.ToLower(s.Quality),
		InfillPercent:  s.InfillPercent,
		Supports:       s.Supports,
		Quantity:       s.Quantity,
		GramsPerPart:   gramsPerPart,
		GramsTotal:     gramsPerPart * qty,
		MinutesPerPart: minutesPerPart,
		MinutesTotal:   minutesPerPart * qty,
	}
	b.MaterialCost = b.GramsTotal * material.RatePerGram()
	b.MachineCost = (b.MinutesTotal / 60.0) * c.Params.PrintRatePerHour
	b.Subtotal = b.MaterialCost + b.MachineCost

	switch c.Mode {
	case ModeMarginVAT:
		floored := math.Max(b.Subtotal, c.Params.MinOrderSubtotal)
		b.Margin = floored * (c.Params.MarginPercent / 100.0)
		b.VAT = (floored + b.Margin) * (c.Params.VATPercent / 100.0)
		gross := floored + b.Margin + b.VAT
		b.UnitPrice = gross / qty
		b.LineTotal = math.Ceil(gross)
	default:
		b.SmallOrderFee = SmallOrderFee(b.Subtotal, material.SmallOrderBaseFee, c.Params)
		gross := b.Subtotal + b.SmallOrderFee
		b.UnitPrice = gross / qty
		b.LineTotal = math.Ceil(gross)
	}
	return b, nil
}

// PriceQuote aggregates priced line items into a job-level breakdown.
// Preparation time is charged once per job, or once per part when the
// shop runs with PrepPerPart. With multiple materials in one job the
// small-order fee uses the highest base fee among them, never their sum.
// An empty item list yields a zero quote.
func PriceQuote(items []LineItemBreakdown, c Config) (QuoteBreakdown, error) {
	var q QuoteBreakdown
	if len(items) == 0 {
		return q, nil
	}

	parts := 0
	maxBaseFee := 0.0
	for _, it := range items {
		material, err := c.MaterialByName(it.Material)
		if err != nil {
			return QuoteBreakdown{}, err
		}
		if material.SmallOrderBaseFee > maxBaseFee {
			maxBaseFee = material.SmallOrderBaseFee
		}

		q.TotalGrams += it.GramsTotal
		q.PrintMinutes += it.MinutesTotal
		q.Subtotal += it.Subtotal
		parts += it.Quantity
	}

	q.PrepMinutes = c.Params.PrepMinutesPerJob
	if c.Params.PrepPerPart {
		q.PrepMinutes *= float64(parts)
	}
	q.TotalMinutes = q.PrintMinutes + q.PrepMinutes

	switch c.Mode {
	case ModeMarginVAT:
		floored := math.Max(q.Subtotal, c.Params.MinOrderSubtotal)
		q.Margin = floored * (c.Params.MarginPercent / 100.0)
		q.VAT = (floored + q.Margin) * (c.Params.VATPercent / 100.0)
		q.FinalPrice = math.Ceil(floored + q.Margin + q.VAT)
	default:
		q.SmallOrderFee = SmallOrderFee(q.Subtotal, maxBaseFee, c.Params)
		q.FinalPrice = math.Ceil(q.Subtotal + q.SmallOrderFee)
	}
	return q, nil
}
