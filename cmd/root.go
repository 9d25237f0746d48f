package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/postroom/editorsearch/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "editorsearch",
	Short: "Hybrid search over television editor records",
	Long:  "Answers structured and free-text queries from a local record store, falling back to web discovery when local results are insufficient, with entity resolution and provenance-based confidence scoring.",
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
