package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/titula"
)

var (
	keyJSON   bool
	partyJSON bool
)

// keyCmd represents the key command
var keyCmd = &cobra.Command{
	Use:   "key <legal description>",
	Short: "Convert a legal description into its canonical spatial key",
	Long: `Key parses a raw legal description (section, township, range,
county, state, optional aliquot parts) and prints the canonical tract
key, so equivalent descriptions across documents can be matched.

Example:
  titula key "NW/4 of Section 15, T154N, R97W, Williams County, North Dakota"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKey,
}

// partyCmd represents the party command
var partyCmd = &cobra.Command{
	Use:   "party <name>",
	Short: "Normalize a party name into its canonical identity form",
	Long: `Party uppercases, strips entity suffixes and punctuation, folds
diacritics, and detects the entity type of a party name as written in a
recorded instrument.

Example:
  titula party "Smith Energy, L.L.C."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParty,
}

func init() {
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(partyCmd)

	keyCmd.Flags().BoolVar(&keyJSON, "json", false, "print the parsed components as JSON")
	partyCmd.Flags().BoolVar(&partyJSON, "json", false, "print the result as JSON")
}

func runKey(cmd *cobra.Command, args []string) error {
	desc := strings.Join(args, " ")
	key := titula.SpatialKey(desc)
	if key == nil {
		return fmt.Errorf("no spatial key: description is missing a required component (state, county, section, township, or range)")
	}

	if keyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(key)
	}

	fmt.Println(key.Key)
	return nil
}

func runParty(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	p := titula.Party(name)

	if partyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"original":    p.OriginalName,
			"normalized":  p.NormalizedName,
			"entity_type": string(p.EntityType),
		})
	}

	fmt.Printf("%s\t%s\n", p.NormalizedName, p.EntityType)
	return nil
}
