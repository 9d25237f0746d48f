package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postroom/editorsearch/internal/registry"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List known data origins and their reliability weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadFile(cfg.Registry.SourcesPath)
		if err != nil {
			return err
		}

		fmt.Printf("%-20s %-30s %6s  %s\n", "ID", "Name", "Weight", "Method")
		for _, o := range reg.List() {
			fmt.Printf("%-20s %-30s %6d  %s\n", o.ID, o.Name, o.Weight, o.Method)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
