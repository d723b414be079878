package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/titula"
)

var (
	splitOut    string
	scanPages   int
	headerRatio float64
	zoom        float64
	workers     int
	planOnly    bool
)

// splitCmd represents the split command
var splitCmd = &cobra.Command{
	Use:   "split <pdf>",
	Short: "Split a recorded instrument into body and exhibit PDFs",
	Long: `Split scans the document's leading pages for exhibit markers,
classifies each exhibit by its header text, and writes the narrative
body and each exhibit as separate PDFs.

Example:
  titula split deed.pdf --out ./parts
  titula split deed.pdf --plan
  titula split deed.pdf --scan-pages 40 --header-ratio 0.25`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().StringVar(&splitOut, "out", os.TempDir(), "output directory for sub-documents")
	splitCmd.Flags().IntVar(&scanPages, "scan-pages", 25, "number of leading pages to scan for markers")
	splitCmd.Flags().Float64Var(&headerRatio, "header-ratio", 0.20, "fraction of page height read per page")
	splitCmd.Flags().Float64Var(&zoom, "zoom", 2.0, "render scale for rasterized pages")
	splitCmd.Flags().IntVar(&workers, "workers", 4, "parallel page scans")
	splitCmd.Flags().BoolVar(&planOnly, "plan", false, "print the split plan without writing files")
}

func runSplit(cmd *cobra.Command, args []string) error {
	doc := titula.Open(args[0]).
		ScanPages(scanPages).
		HeaderRatio(headerRatio).
		Zoom(zoom).
		Workers(workers).
		OutputDir(splitOut).
		Logger(newLogger())

	if planOnly {
		plan, err := doc.Plan()
		if err != nil {
			return err
		}

		fmt.Printf("Total pages: %d\n", plan.TotalPages)
		fmt.Printf("Body: pages 1-%d\n", plan.BodyEnd)
		for _, ex := range plan.Exhibits {
			fmt.Printf("Exhibit %q (%s): pages %d-%d (%d pages)\n",
				ex.Marker, ex.Type, ex.StartPage+1, ex.EndPage+1, ex.PageCount)
		}
		return nil
	}

	result, err := doc.Split()
	if err != nil {
		return err
	}

	if result.BodyPath != "" {
		fmt.Printf("Body (%d pages): %s\n", result.BodyPages, result.BodyPath)
	} else {
		fmt.Println("No body pages (document starts with an exhibit)")
	}
	for _, ex := range result.Exhibits {
		fmt.Printf("Exhibit %q (%s, %d pages): %s\n", ex.Marker, ex.Type, ex.PageCount, ex.Path)
	}
	return nil
}
