package main

import (
	"fmt"
	"io"
	"time"

	"footprint/internal/api/handler"
	"footprint/internal/config"
	"footprint/pkg/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"
)

// writeOutcomes prints one line per target. NOT_FOUND targets are listed only
// when all is set.
func writeOutcomes(w io.Writer, report *domain.Report, all bool) {
	fmt.Fprintf(w, "%s %s\n", color.HiMagentaString("Searching username"), report.Identifier)
	for _, o := range report.Outcomes {
		switch o.Status {
		case domain.ProbeStatusExists:
			fmt.Fprintf(w, "[%s] %s: %s\n", color.HiGreenString("+"), color.HiWhiteString("%s", o.Target.ID), o.URL)
		case domain.ProbeStatusNotFound:
			if all {
				fmt.Fprintf(w, "[%s] %s: %s\n", color.HiRedString("-"), color.HiWhiteString("%s", o.Target.ID),
					color.HiYellowString("Not found!"))
			}
		case domain.ProbeStatusNetworkError, domain.ProbeStatusTimeout:
			if all {
				fmt.Fprintf(w, "[%s] %s: %s: %s\n", color.HiRedString("!"), o.Target.ID,
					color.HiMagentaString("%s", o.Status), color.HiRedString("%s", o.ErrorDetail))
			}
		}
	}
	fmt.Fprintf(w, "%s %d\n", color.HiGreenString("Profiles found:"), report.FoundCount)
}

func probeCommand(cfg *config.Config) *cobra.Command {
	var (
		username string
		asJSON   bool
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Searches a username once and prints the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			searcher := getSearcher(ctx, cfg, noop.NewMeterProvider())

			start := time.Now()
			report, err := searcher.Search(ctx, username)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if asJSON {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(handler.EncodeReport(report)))

				return err //nolint: wrapcheck
			}

			writeOutcomes(color.Output, report, all)
			fmt.Fprintf(color.Output, "%s %s\n", color.HiBlackString("Elapsed:"), time.Since(start).Round(time.Millisecond))

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username to search for")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the API response body instead of a table")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Also list platforms without a profile and failed probes")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
