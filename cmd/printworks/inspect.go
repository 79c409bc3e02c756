package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/print.works/internal/mesh"
	"github.com/Simplici0/print.works/pkg/stl"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file...]",
	Short: "Display the measurements of one or more STL files",
	Long:  "Show triangle count, surface area, dimensions and enclosed volume for each file.",
	Args:  cobra.MinimumNArgs(1),
	Run:   runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	for i, path := range args {
		if i > 0 {
			fmt.Println()
		}
		if err := inspectFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error inspecting %s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

func inspectFile(path string) error {
	model, err := stl.ParseFile(path)
	if err != nil {
		return err
	}
	metrics, err := mesh.Compute(model.Coords())
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", path)
	if model.Name != "" {
		fmt.Printf("Name: %s\n", model.Name)
	}
	fmt.Printf("  Triangles: %d\n", metrics.Triangles)
	fmt.Printf("  Surface area: %.2f mm²\n", model.SurfaceArea())
	fmt.Printf("  Dimensions: %.2f x %.2f x %.2f mm\n", metrics.Size.X, metrics.Size.Y, metrics.Size.Z)
	fmt.Printf("  Volume: %.2f mm³ (%.2f cm³)\n", metrics.VolumeMm3, metrics.VolumeMm3/1000.0)
	return nil
}
