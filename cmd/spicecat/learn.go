package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/spicecat/internal/cli"
	"github.com/Veraticus/spicecat/internal/service"
	"github.com/spf13/cobra"
)

func learnCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn category terms from categorized expenses",
		Long: `Scan every categorized expense (Miscellaneous excluded) and add words that
appear in at least 30% of a category's expenses, given at least two examples,
to that category's learned terms. Learned terms are only ever added.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			expenses, err := a.store.GetExpenses(ctx, service.ExpenseFilter{})
			if err != nil {
				return fmt.Errorf("failed to load expenses: %w", err)
			}

			result := a.engine.Learn(expenses)
			out := cmd.OutOrStdout()
			if result.TotalAdded() == 0 {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Examined %d expenses; nothing new to learn.", result.Examined)))
				return nil
			}

			names := make([]string, 0, len(result.Added))
			for name := range result.Added {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "%s %s\n", cli.BoldStyle.Render(name+":"), strings.Join(result.Added[name], ", "))
			}

			if dryRun {
				fmt.Fprintln(out, cli.FormatWarning("Dry run: learned terms were not saved."))
				return nil
			}
			if err := a.engine.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Learned %d new terms from %d expenses.", result.TotalAdded(), result.Examined)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be learned without saving")
	return cmd
}
