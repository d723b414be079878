package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/titula/graph"
	"github.com/tsawler/titula/report"
)

var (
	chainGaps      bool
	chainOwnership bool
	chainXLSX      string
)

// chainCmd represents the chain command
var chainCmd = &cobra.Command{
	Use:   "chain <spatial-key>",
	Short: "Show the chain of title for a tract",
	Long: `Chain queries the title graph for every conveyance under
instruments covering the tract, oldest first. With --gaps it reports
breaks where a grantee and the next grantor do not line up; with
--ownership it reports computed current interests.

Example:
  titula chain ND-WILLIAMS-15-154N-97W-NW4
  titula chain ND-WILLIAMS-15-154N-97W-NW4 --gaps
  titula chain ND-WILLIAMS-15-154N-97W-NW4 --xlsx chain.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runChain,
}

func init() {
	rootCmd.AddCommand(chainCmd)

	chainCmd.Flags().BoolVar(&chainGaps, "gaps", false, "report chain gaps instead of the chain itself")
	chainCmd.Flags().BoolVar(&chainOwnership, "ownership", false, "report computed current ownership")
	chainCmd.Flags().StringVar(&chainXLSX, "xlsx", "", "also write the chain to an XLSX workbook")
}

func runChain(cmd *cobra.Command, args []string) error {
	spatialKey := args[0]
	log := newLogger()
	ctx := context.Background()

	cfg := graph.FromEnv()
	cfg.Logger = log
	builder, err := graph.New(cfg)
	if err != nil {
		return err
	}
	defer builder.Close(ctx)

	if chainGaps {
		gaps, err := builder.FindChainGaps(ctx, spatialKey)
		if err != nil {
			return err
		}
		if len(gaps) == 0 {
			fmt.Println("No gaps found")
			return nil
		}
		for _, g := range gaps {
			fmt.Printf("%s (%s) -> %s (%s): %q does not connect to %q\n",
				g.PriorInstrument, g.PriorDate, g.LaterInstrument, g.LaterDate,
				g.PriorGrantee, g.LaterGrantor)
		}
		return nil
	}

	if chainOwnership {
		interests, err := builder.CurrentOwnership(ctx, spatialKey)
		if err != nil {
			return err
		}
		for _, oi := range interests {
			fmt.Printf("%-40s %.6f\n", oi.Owner, oi.Interest)
		}
		return nil
	}

	links, err := builder.ChainOfTitle(ctx, spatialKey)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("No conveyances found for tract")
		return nil
	}

	for _, link := range links {
		frac := ""
		if link.InterestFraction > 0 {
			frac = fmt.Sprintf(" (%.4f)", link.InterestFraction)
		}
		fmt.Printf("%s  %s -> %s  [%s%s]  %s\n",
			link.RecordingDate, link.Grantor, link.Grantee,
			link.DocumentType, frac, link.RecordingInfo)
	}

	if chainXLSX != "" {
		data, err := report.NewWriter(log).ChainOfTitleXLSX(spatialKey, links)
		if err != nil {
			return err
		}
		if err := os.WriteFile(chainXLSX, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", chainXLSX, err)
		}
		fmt.Printf("Wrote %s\n", chainXLSX)
	}
	return nil
}
