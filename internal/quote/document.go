package quote

import (
	"github.com/shopspring/decimal"

	"github.com/Simplici0/print.works/internal/pricing"
)

// Document is the customer-facing rendering of a quote. All figures are
// rounded half up for display; the engine keeps full precision and the
// rounding never feeds back into a calculation.
type Document struct {
	Reference string `json:"reference,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Title     string `json:"title,omitempty"`
	Notes     string `json:"notes,omitempty"`

	Currency    string      `json:"currency"`
	Mode        string      `json:"mode"`
	Items       []ItemLine  `json:"items"`
	Totals      TotalsLine  `json:"totals"`
	Assumptions Assumptions `json:"assumptions"`
}

// ItemLine is the rendered form of one line item.
type ItemLine struct {
	FileName      string  `json:"file_name"`
	Material      string  `json:"material"`
	Quality       string  `json:"quality"`
	InfillPercent float64 `json:"infill_percent"`
	Supports      bool    `json:"supports"`
	Quantity      int     `json:"quantity"`

	VolumeCm3 float64    `json:"volume_cm3"`
	SizeMm    [3]float64 `json:"size_mm"`
	Triangles int        `json:"triangles"`

	Grams         float64 `json:"grams"`
	Minutes       float64 `json:"minutes"`
	MaterialCost  float64 `json:"material_cost"`
	MachineCost   float64 `json:"machine_cost"`
	Subtotal      float64 `json:"subtotal"`
	SmallOrderFee float64 `json:"small_order_fee"`
	UnitPrice     float64 `json:"unit_price"`
	LineTotal     float64 `json:"line_total"`
}

// TotalsLine is the rendered form of the job totals.
type TotalsLine struct {
	Grams         float64 `json:"grams"`
	PrintMinutes  float64 `json:"print_minutes"`
	PrepMinutes   float64 `json:"prep_minutes"`
	Minutes       float64 `json:"minutes"`
	Subtotal      float64 `json:"subtotal"`
	SmallOrderFee float64 `json:"small_order_fee"`
	Margin        float64 `json:"margin"`
	VAT           float64 `json:"vat"`
	Total         float64 `json:"total"`
}

// Assumptions records the tunables a quote was computed with, so a saved
// snapshot still explains itself after the shop reconfigures.
type Assumptions struct {
	ShellBaseFraction     float64 `json:"shell_base_fraction"`
	CalibrationMultiplier float64 `json:"calibration_multiplier"`
	WasteGramsPerPart     float64 `json:"waste_grams_per_part"`
	SupportMassMultiplier float64 `json:"support_mass_multiplier"`
	PrepMinutesPerJob     float64 `json:"prep_minutes_per_job"`
	PrepPerPart           bool    `json:"prep_per_part"`
}

// NewDocument renders a computed quote for display.
func NewDocument(q Quote, cfg pricing.Config) Document {
	items := make([]ItemLine, len(q.Items))
	for i, it := range q.Items {
		b := it.Breakdown
		items[i] = ItemLine{
			FileName:      it.FileName,
			Material:      b.Material,
			Quality:       b.Quality,
			InfillPercent: b.InfillPercent,
			Supports:      b.Supports,
			Quantity:      b.Quantity,

			VolumeCm3: roundTo(it.Metrics.VolumeMm3/1000.0, 2),
			SizeMm: [3]float64{
				roundTo(it.Metrics.Size.X, 1),
				roundTo(it.Metrics.Size.Y, 1),
				roundTo(it.Metrics.Size.Z, 1),
			},
			Triangles: it.Metrics.Triangles,

			Grams:         roundTo(b.GramsTotal, 2),
			Minutes:       roundTo(b.MinutesTotal, 1),
			MaterialCost:  roundTo(b.MaterialCost, 2),
			MachineCost:   roundTo(b.MachineCost, 2),
			Subtotal:      roundTo(b.Subtotal, 2),
			SmallOrderFee: roundTo(b.SmallOrderFee, 2),
			UnitPrice:     roundTo(b.UnitPrice, 2),
			LineTotal:     b.LineTotal,
		}
	}

	t := q.Totals
	return Document{
		Currency: cfg.Currency,
		Mode:     string(cfg.Mode),
		Items:    items,
		Totals: TotalsLine{
			Grams:         roundTo(t.TotalGrams, 2),
			PrintMinutes:  roundTo(t.PrintMinutes, 1),
			PrepMinutes:   roundTo(t.PrepMinutes, 1),
			Minutes:       roundTo(t.TotalMinutes, 1),
			Subtotal:      roundTo(t.Subtotal, 2),
			SmallOrderFee: roundTo(t.SmallOrderFee, 2),
			Margin:        roundTo(t.Margin, 2),
			VAT:           roundTo(t.VAT, 2),
			Total:         t.FinalPrice,
		},
		Assumptions: Assumptions{
			ShellBaseFraction:     cfg.Params.ShellBaseFraction,
			CalibrationMultiplier: cfg.Params.CalibrationMultiplier,
			WasteGramsPerPart:     cfg.Params.WasteGramsPerPart,
			SupportMassMultiplier: cfg.Params.SupportMassMultiplier,
			PrepMinutesPerJob:     cfg.Params.PrepMinutesPerJob,
			PrepPerPart:           cfg.Params.PrepPerPart,
		},
	}
}

// roundTo rounds half away from zero to the given decimal places.
func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
