package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Simplici0/print.works/internal/mesh"
	"github.com/Simplici0/print.works/internal/pricing"
	"github.com/Simplici0/print.works/internal/quote"
	"github.com/Simplici0/print.works/pkg/stl"
)

var (
	quoteMaterial string
	quoteQuality  string
	quoteInfill   float64
	quoteSupports bool
	quoteQuantity int
	quoteConfig   string
	quoteTitle    string
	quoteJSON     bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote [file...]",
	Short: "Price a print job from STL files",
	Long: `Price one or more STL files with the built-in pricing defaults or a
YAML configuration. All files share the same material and print settings.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteMaterial, "material", "PLA", "material name from the catalog")
	quoteCmd.Flags().StringVar(&quoteQuality, "quality", "standard", "quality tier (draft, standard, fine)")
	quoteCmd.Flags().Float64Var(&quoteInfill, "infill", 15, "infill percent from 0 to 100")
	quoteCmd.Flags().BoolVar(&quoteSupports, "supports", false, "add support material to the estimate")
	quoteCmd.Flags().IntVar(&quoteQuantity, "quantity", 1, "copies of each file")
	quoteCmd.Flags().StringVar(&quoteConfig, "config", "", "YAML pricing configuration file")
	quoteCmd.Flags().StringVar(&quoteTitle, "title", "", "title printed on the quote")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "print the quote document as JSON")
}

func runQuote(cmd *cobra.Command, args []string) {
	cfg := pricing.Default()
	if quoteConfig != "" {
		loaded, err := pricing.LoadFile(quoteConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading pricing config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	settings := pricing.Settings{
		Material:      quoteMaterial,
		Quality:       quoteQuality,
		InfillPercent: quoteInfill,
		Supports:      quoteSupports,
		Quantity:      quoteQuantity,
	}

	items := make([]quote.LineItem, 0, len(args))
	for _, path := range args {
		model, err := stl.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
			os.Exit(1)
		}
		metrics, err := mesh.Compute(model.Coords())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error measuring %s: %v\n", path, err)
			os.Exit(1)
		}
		item, err := quote.NewLineItem(filepath.Base(path), metrics, settings, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error pricing %s: %v\n", path, err)
			os.Exit(1)
		}
		items = append(items, item)
	}

	q, err := quote.Build(items, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building quote: %v\n", err)
		os.Exit(1)
	}
	doc := quote.NewDocument(q, cfg)
	doc.Title = quoteTitle

	if quoteJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding quote: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(quote.Text(doc))
}
