package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var (
	analyzeLat      float64
	analyzeLng      float64
	analyzeCategory string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run an ad-hoc market analysis at coordinates",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := env.Engine.AnalyzeLocation(cmd.Context(), analyzeLat, analyzeLng, analyzeCategory)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeLat, "lat", 0, "latitude")
	analyzeCmd.Flags().Float64Var(&analyzeLng, "lng", 0, "longitude")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "business category filter")
	_ = analyzeCmd.MarkFlagRequired("lat")
	_ = analyzeCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(analyzeCmd)
}
