package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/postroom/editorsearch/internal/registry"
	"github.com/postroom/editorsearch/internal/reliability"
)

var scoreCmd = &cobra.Command{
	Use:   "score <editor-id>",
	Short: "Show the confidence breakdown for a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		editor, err := st.GetEditor(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "score: load editor")
		}
		if editor == nil {
			return eris.Errorf("score: no record with id %s", args[0])
		}

		reg, err := registry.LoadFile(cfg.Registry.SourcesPath)
		if err != nil {
			return err
		}
		sc := reliability.NewScorer(reg).Score(editor)

		fmt.Printf("Editor:  %s (%s)\n", editor.Name, editor.ID)
		fmt.Printf("Overall: %d / 100 (%s)\n\n", sc.Overall, sc.Recommendation)
		fmt.Printf("  %-15s %6.1f\n", "source quality", sc.SourceQuality)
		fmt.Printf("  %-15s %6.1f\n", "corroboration", sc.Corroboration)
		fmt.Printf("  %-15s %6.1f\n", "freshness", sc.Freshness)
		fmt.Printf("  %-15s %6.1f\n", "verification", sc.Verification)

		fmt.Println("\nProvenance:")
		for _, p := range editor.Provenance {
			name := p.OriginID
			if o, ok := reg.Get(p.OriginID); ok {
				name = o.Name
			}
			fmt.Printf("  %-25s weight %3d  %s\n",
				name, reg.WeightFor(p.OriginID), p.ContributedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
