package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/venturelink/match-engine/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "match-engine",
	Short: "Market insight and matching engine for local commerce",
	Long:  "Registers property owners, franchise companies, and entrepreneurs; analyzes local markets via live places data; scores compatibility between participants and generates business ideas.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
