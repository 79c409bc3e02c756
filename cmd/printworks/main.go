package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "printworks",
	Short: "Inspect STL files and price 3D print jobs from the terminal",
	Long: `printworks analyzes STL (Stereolithography) files and prices print jobs
with the same engine the quoting server uses. It supports both ASCII and
binary STL formats.`,
	Version: "1.0.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
