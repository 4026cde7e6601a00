package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/spicecat/internal/cli"
	"github.com/Veraticus/spicecat/internal/common"
	"github.com/Veraticus/spicecat/internal/model"
	"github.com/Veraticus/spicecat/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Import and list expenses",
	}

	cmd.AddCommand(importExpensesCmd())
	cmd.AddCommand(listExpensesCmd())

	return cmd
}

func importExpensesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import expenses from a JSON array",
		Long: `Import a JSON array of expense records. The current category may be given as
"category_name" or as a nested "categories": {"name": ...} object. Records
without an id get a generated one; records with an existing id are updated.
Category names that are not registered are reported and the expense is stored
uncategorized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var records []model.ExpenseRecord
			if err := json.Unmarshal(data, &records); err != nil {
				return common.NewUserError(fmt.Sprintf("%s is not a JSON array of expenses", args[0]), err)
			}

			expenses := make([]model.Expense, 0, len(records))
			skipped := 0
			for _, exp := range model.ExpensesFromRecords(records) {
				if strings.TrimSpace(exp.Description) == "" {
					skipped++
					continue
				}
				if strings.TrimSpace(exp.ID) == "" {
					exp.ID = uuid.NewString()
				}
				expenses = append(expenses, exp)
			}

			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			result, err := store.SaveExpenses(ctx, expenses)
			if err != nil {
				return fmt.Errorf("failed to import expenses: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses.", result.Saved)))
			if skipped > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %d records without a description.", skipped)))
			}
			if len(result.UnknownCategories) > 0 {
				fmt.Fprintln(out, cli.FormatWarning("Unregistered categories (expenses left uncategorized): "+
					strings.Join(result.UnknownCategories, ", ")))
			}
			return nil
		},
	}
}

func listExpensesCmd() *cobra.Command {
	var (
		filter service.ExpenseFilter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			expenses, err := store.GetExpenses(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				summaries := make([]model.ExpenseSummary, len(expenses))
				for i, e := range expenses {
					summaries[i] = e.Summary()
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			if len(expenses) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No expenses found."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
			for _, e := range expenses {
				date := ""
				if !e.ExpenseDate.IsZero() {
					date = e.ExpenseDate.Format(model.ExpenseDateLayout)
				}
				category := e.CategoryName
				if category == "" {
					category = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", e.ID, date, e.Amount, category, e.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filter.CategoryName, "category", "", "only expenses in this category")
	cmd.Flags().BoolVar(&filter.Uncategorized, "uncategorized", false, "only expenses without a category")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum expenses to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print expenses as JSON")

	return cmd
}
