package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Veraticus/spicecat/internal/cli"
	"github.com/Veraticus/spicecat/internal/common"
	"github.com/Veraticus/spicecat/internal/textnorm"
	"github.com/spf13/cobra"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect and manage learned category terms",
	}

	cmd.AddCommand(showPatternsCmd())
	cmd.AddCommand(exportPatternsCmd())
	cmd.AddCommand(importPatternsCmd())
	cmd.AddCommand(resetPatternsCmd())
	cmd.AddCommand(addPatternCmd())

	return cmd
}

func showPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List learned terms per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			learned := a.engine.LearnedPatterns()
			if len(learned) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No learned terms yet. Run 'spicecat learn' after categorizing some expenses."))
				return nil
			}

			names := make([]string, 0, len(learned))
			for name := range learned {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				label := name
				if _, ok := a.catalog.Lookup(name); !ok {
					label += cli.SubtleStyle.Render(" (not in catalog)")
				}
				fmt.Fprintf(out, "%s %s\n", cli.BoldStyle.Render(label+":"), strings.Join(learned[name], ", "))
			}
			return nil
		},
	}
}

func exportPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write learned terms as JSON to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			data := a.engine.ExportLearnedPatterns()
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), data)
				return nil
			}
			if err := os.WriteFile(args[0], []byte(data+"\n"), 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported learned terms to "+args[0]))
			return nil
		},
	}
}

func importPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace learned terms with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.engine.ImportLearnedPatternsStrict(string(data)); err != nil {
				return common.NewUserError(fmt.Sprintf("%s is not a learned-pattern export", args[0]), err)
			}
			if err := a.engine.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported learned terms for %d categories.", len(a.engine.LearnedPatterns()))))
			return nil
		},
	}
}

func resetPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard every learned term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			a.engine.ResetLearnedPatterns()
			if err := a.store.DeleteBlob(ctx, a.cfg.BlobKey); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Learned terms cleared."))
			return nil
		},
	}
}

func addPatternCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <term>",
		Short: "Teach a category a term by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			cat, ok := a.engine.ResolveCategory(args[0])
			if !ok {
				return common.NewUserError(fmt.Sprintf("category %q is not registered", args[0]), common.ErrUnknownCategory)
			}
			if textnorm.Normalize(args[1]) == "" {
				return common.NewUserError(fmt.Sprintf("term %q has no letters or digits", args[1]), nil)
			}
			if !a.engine.AddLearnedTerm(cat.Name, args[1]) {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("%s already knows %q.", cat.Name, args[1])))
				return nil
			}
			if err := a.engine.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %q to %s.", args[1], cat.Name)))
			return nil
		},
	}
}
