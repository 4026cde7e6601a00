package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/spicecat/internal/cli"
	"github.com/spf13/cobra"
)

func suggestCmd() *cobra.Command {
	var (
		notes   string
		limit   int
		explain bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "suggest <description>",
		Short: "Suggest categories for an expense description",
		Long: `Rank registered categories for an expense description (and optional notes)
using the keyword catalog plus any learned terms.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			description := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if explain {
				return printExplanation(cmd, a, description, notes)
			}

			suggestions := a.engine.Suggest(description, notes, limit)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(suggestions)
			}

			fmt.Fprintln(out, cli.RenderChips(suggestions))
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "expense notes to score alongside the description")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum suggestions (default: engine.limit)")
	cmd.Flags().BoolVar(&explain, "explain", false, "show every matching keyword and its points")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print suggestions as JSON")

	return cmd
}

func printExplanation(cmd *cobra.Command, a *app, description, notes string) error {
	out := cmd.OutOrStdout()
	explanations := a.engine.Explain(description, notes)
	if len(explanations) == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("No catalog keyword matched."))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSCORE\tCONFIDENCE\tMATCHES")
	for _, ex := range explanations {
		matches := make([]string, len(ex.Matches))
		for i, m := range ex.Matches {
			matches[i] = fmt.Sprintf("%s(%s %.2f)", m.Term, m.Kind, m.Points)
		}
		name := ex.Category
		if !ex.Registered {
			name += " (unregistered)"
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.0f%%\t%s\n", name, ex.Score, ex.Confidence*100, strings.Join(matches, ", "))
	}
	return w.Flush()
}
