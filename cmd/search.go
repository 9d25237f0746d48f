package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/postroom/editorsearch/internal/model"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search editor records, discovering externally when local results fall short",
	Long: `Search the local record store with structured filters and optional free
text. When local results are insufficient the search falls back to web
discovery, resolves candidates against existing records, and persists what
it finds before answering.

Examples:
  # Free-text search by name
  search "Margaret Sixel"

  # Category search with filters
  search drama --network HBO --min-years 10

  # Structured-only query
  search --specialty documentary --remote --verified

  # JSON output
  search comedy --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringSlice("specialty", nil, "specialty tags (any-of)")
	f.StringSlice("network", nil, "network credits (any-of)")
	f.StringSlice("status", nil, "availability statuses (any-of)")
	f.Int("min-years", 0, "minimum years of experience")
	f.Int("max-years", 0, "maximum years of experience")
	f.String("city", "", "location city")
	f.String("region", "", "location region")
	f.String("country", "", "location country")
	f.Bool("remote", false, "remote-capable only")
	f.Bool("verified", false, "verified records only")
	f.Bool("awarded", false, "records with awards only")
	f.Int("limit", 0, "maximum results (0=use config default)")
	f.String("format", "table", "output format: table or json")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return eris.Errorf("search: --format must be table or json (got %q)", format)
	}

	filter, err := filterFromFlags(cmd, args)
	if err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return eris.Wrap(err, "migrate store")
	}

	hybrid, _, err := initHybrid(st)
	if err != nil {
		return err
	}

	result, err := hybrid.Search(ctx, filter)
	if err != nil {
		return eris.Wrap(err, "search")
	}

	zap.L().Info("search complete",
		zap.Int("returned", len(result.Editors)),
		zap.Int("total", result.Total),
	)

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSearchTable(result)
	return nil
}

func filterFromFlags(cmd *cobra.Command, args []string) (model.SearchFilter, error) {
	f := model.SearchFilter{}
	if len(args) > 0 {
		f.Text = args[0]
	}
	f.Specialties, _ = cmd.Flags().GetStringSlice("specialty")
	f.Networks, _ = cmd.Flags().GetStringSlice("network")
	f.MinYears, _ = cmd.Flags().GetInt("min-years")
	f.MaxYears, _ = cmd.Flags().GetInt("max-years")
	f.City, _ = cmd.Flags().GetString("city")
	f.Region, _ = cmd.Flags().GetString("region")
	f.Country, _ = cmd.Flags().GetString("country")
	f.RemoteOnly, _ = cmd.Flags().GetBool("remote")
	f.VerifiedOnly, _ = cmd.Flags().GetBool("verified")
	f.AwardOnly, _ = cmd.Flags().GetBool("awarded")
	f.Limit, _ = cmd.Flags().GetInt("limit")

	statuses, _ := cmd.Flags().GetStringSlice("status")
	for _, s := range statuses {
		switch st := model.Status(strings.ToLower(strings.TrimSpace(s))); st {
		case model.StatusAvailable, model.StatusUnavailable, model.StatusUnknown:
			f.Statuses = append(f.Statuses, st)
		default:
			return f, eris.Errorf("search: unknown status %q", s)
		}
	}
	return f, nil
}

func printSearchTable(result *model.SearchResult) {
	if len(result.Editors) == 0 {
		fmt.Println("No results.")
		if result.Warning != "" {
			fmt.Printf("Warning: %s\n", result.Warning)
		}
		return
	}

	fmt.Printf("%-30s %-24s %6s %6s %-12s %-8s\n",
		"Name", "Specialties", "Years", "Conf", "Trust", "Status")
	fmt.Println(strings.Repeat("-", 92))
	for _, e := range result.Editors {
		name := e.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		specialties := strings.Join(e.Specialties, ",")
		if len(specialties) > 24 {
			specialties = specialties[:21] + "..."
		}
		years := "-"
		if y := e.YearsActive(time.Now()); y > 0 {
			years = fmt.Sprintf("%d", y)
		}
		fmt.Printf("%-30s %-24s %6s %6d %-12s %-8s\n",
			name, specialties, years, e.Confidence, e.Recommendation, e.Status)
	}

	fmt.Printf("\n%d of %d matching records\n", len(result.Editors), result.Total)
	if result.Warning != "" {
		fmt.Printf("Warning: %s\n", result.Warning)
	}
}
