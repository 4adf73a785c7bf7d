package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/comparia/comparia/internal/classify"
	"github.com/comparia/comparia/internal/model"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <title>",
	Short: "Classify an item and show its synthesized query",
	Long: `Classify runs the term classifier without any market lookups:
the detected domain, the typed terms it extracted, and the search query
the analyzer would start from.

Example:
  comparia classify "Omega Seamaster automatic stål 1965" --type armbandsur
  comparia classify "Ring 18K vitguld med safir och briljanter" --type ring --json`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	// Flags shared with analyze via the same package vars
	classifyCmd.Flags().StringVar(&objectType, "type", "", "object type from the cataloging form (e.g. armbandsur)")
	classifyCmd.Flags().StringVar(&description, "description", "", "longer item description (optional)")
	classifyCmd.Flags().StringVar(&vocabFile, "vocabulary", "", "YAML vocabulary overlay file (optional)")
	classifyCmd.Flags().BoolVar(&outJSON, "json", false, "print the synthesis as JSON instead of a report")
}

func runClassify(cmd *cobra.Command, args []string) error {
	item := model.ItemAttributes{
		ObjectType:  objectType,
		Title:       args[0],
		Description: description,
	}

	classifier := classify.NewClassifier()
	if vocabFile != "" {
		var err error
		classifier, err = classifierWithOverlay(vocabFile)
		if err != nil {
			return err
		}
	}

	syn := classifier.Synthesize(item)

	if outJSON {
		return printJSON(os.Stdout, syn)
	}

	domain := syn.Domain
	if domain == "" {
		domain = "(none)"
	}
	fmt.Printf("Domain:      %s\n", domain)
	fmt.Printf("Strategy:    %s\n", syn.StrategyTag)
	fmt.Printf("Query:       %q\n", syn.SearchTerms)
	fmt.Printf("Confidence:  %.2f\n", syn.Confidence)

	if len(syn.Terms) == 0 {
		return nil
	}
	fmt.Printf("\nTerms:\n")
	for _, t := range syn.Terms {
		mark := " "
		if t.IsSelected {
			mark = "✓"
		}
		core := ""
		if t.IsCore {
			core = " (core)"
		}
		fmt.Printf("  %s %-13s %s%s\n", mark, t.Kind, t.Text, core)
	}
	return nil
}
