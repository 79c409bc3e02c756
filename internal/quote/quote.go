// Package quote assembles priced line items into quote documents and
// persists accepted quotes as immutable snapshots.
package quote

import (
	"fmt"

	"github.com/Simplici0/print.works/internal/mesh"
	"github.com/Simplici0/print.works/internal/pricing"
)

// LineItem represents one uploaded part inside a quote: the mesh figures
// extracted from its file, the chosen settings and the resulting costs.
type LineItem struct {
	FileName  string
	Metrics   mesh.Metrics
	Settings  pricing.Settings
	Breakdown pricing.LineItemBreakdown
}

// NewLineItem prices one part from its mesh metrics.
func NewLineItem(fileName string, metrics mesh.Metrics, s pricing.Settings, cfg pricing.Config) (LineItem, error) {
	b, err := pricing.PriceLineItem(metrics, s, cfg)
	if err != nil {
		return LineItem{}, fmt.Errorf("price %s: %w", fileName, err)
	}
	return LineItem{
		FileName:  fileName,
		Metrics:   metrics,
		Settings:  s,
		Breakdown: b,
	}, nil
}

// Recompute reprices an item under new settings. The mesh metrics kept
// on the item are reused, so the model file is never read again.
func Recompute(item LineItem, s pricing.Settings, cfg pricing.Config) (LineItem, error) {
	return NewLineItem(item.FileName, item.Metrics, s, cfg)
}

// Quote represents a whole job: all line items plus the roll-up totals.
type Quote struct {
	Items  []LineItem
	Totals pricing.QuoteBreakdown
}

// Build aggregates priced line items into a quote.
func Build(items []LineItem, cfg pricing.Config) (Quote, error) {
	breakdowns := make([]pricing.LineItemBreakdown, len(items))
	for i, it := range items {
		breakdowns[i] = it.Breakdown
	}
	totals, err := pricing.PriceQuote(breakdowns, cfg)
	if err != nil {
		return Quote{}, fmt.Errorf("aggregate quote: %w", err)
	}
	return Quote{Items: items, Totals: totals}, nil
}

// DefaultSettings returns the settings preselected for a fresh upload.
func DefaultSettings() pricing.Settings {
	return pricing.Settings{
		Material:      "PLA",
		Quality:       pricing.QualityStandard,
		InfillPercent: 15,
		Supports:      false,
		Quantity:      1,
	}
}
