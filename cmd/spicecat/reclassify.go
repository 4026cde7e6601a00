package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/Veraticus/spicecat/internal/cli"
	"github.com/Veraticus/spicecat/internal/model"
	"github.com/Veraticus/spicecat/internal/service"
	"github.com/Veraticus/spicecat/internal/suggest"
	"github.com/spf13/cobra"
)

type reclassifyOptions struct {
	limit  int
	auto   bool
	dryRun bool
	yes    bool
	learn  bool
	asJSON bool
}

func reclassifyCmd() *cobra.Command {
	var opts reclassifyOptions

	cmd := &cobra.Command{
		Use:   "reclassify",
		Short: "Move Miscellaneous expenses into suggested categories",
		Long: `Suggest categories for every expense filed under Miscellaneous.

With --auto, expenses whose top suggestion reaches Medium confidence (50%) are
moved without asking. Everything else is reviewed one expense at a time, unless
--yes accepts the top suggestion for all of them. Changes are written in a single
transaction; afterwards learned terms are refreshed from the updated expenses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReclassify(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.auto, "auto", false, "apply suggestions with at least Medium confidence without review")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show the planned changes without writing them")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "accept the top suggestion for every expense without prompting")
	cmd.Flags().BoolVar(&opts.learn, "learn", true, "re-learn category terms after applying changes (default: engine.auto_learn)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "suggestions shown per expense (default: engine.limit)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print candidates as JSON and exit")

	return cmd
}

func runReclassify(cmd *cobra.Command, opts reclassifyOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !cmd.Flags().Changed("learn") {
		opts.learn = a.cfg.AutoLearn
	}

	expenses, err := a.store.GetExpenses(ctx, service.ExpenseFilter{CategoryName: a.engine.MiscellaneousName()})
	if err != nil {
		return fmt.Errorf("failed to load %s expenses: %w", a.engine.MiscellaneousName(), err)
	}
	if len(expenses) == 0 {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No expenses are filed under %s.", a.engine.MiscellaneousName())))
		return nil
	}

	reclassifier := suggest.NewReclassifier(a.engine).WithLimit(opts.limit)
	candidates := collectCandidates(out, reclassifier, expenses, !opts.asJSON)

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}
	if len(candidates) == 0 {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("None of the %d expenses matched a category.", len(expenses))))
		return nil
	}

	auto, review := suggest.Partition(candidates)
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d of %d expenses have suggestions: %d at Medium confidence or better, %d lower.",
		len(candidates), len(expenses), len(auto), len(review))))

	decide, err := chooseDecision(ctx, cmd, opts, candidates)
	if err != nil {
		return err
	}

	changes := reclassifier.Plan(candidates, opts.auto, decide)
	if len(changes) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No changes to apply."))
		return nil
	}

	printPlan(out, changes)
	if opts.dryRun {
		fmt.Fprintln(out, cli.FormatWarning("Dry run: no changes were written."))
		return nil
	}

	applied, err := a.store.ApplyReclassifications(ctx, changes, func(c model.Reclassification) {
		slog.Debug("reclassified expense", "expense", c.ExpenseID, "category", c.ToCategoryName, "auto", c.Auto)
	})
	if err != nil {
		return fmt.Errorf("failed to apply reclassifications: %w", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Moved %d expenses out of %s.", applied, a.engine.MiscellaneousName())))

	if opts.learn {
		return relearn(ctx, out, a)
	}
	return nil
}

// collectCandidates scores expenses one at a time so progress can be shown.
func collectCandidates(out io.Writer, r *suggest.Reclassifier, expenses []model.Expense, showProgress bool) []model.ReclassificationCandidate {
	candidates := make([]model.ReclassificationCandidate, 0, len(expenses))
	if !showProgress {
		return append(candidates, r.SuggestReclassifications(expenses)...)
	}

	bar := cli.NewProgressBar(out, len(expenses), "Scoring expenses...")
	for i := range expenses {
		candidates = append(candidates, r.SuggestReclassifications(expenses[i:i+1])...)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return candidates
}

// chooseDecision returns how non-automatic candidates are resolved: --yes takes the
// top suggestion, otherwise each one is reviewed interactively up front.
func chooseDecision(ctx context.Context, cmd *cobra.Command, opts reclassifyOptions, candidates []model.ReclassificationCandidate) (suggest.Decision, error) {
	if opts.yes {
		return suggest.AcceptTop, nil
	}

	pending := candidates
	if opts.auto {
		_, pending = suggest.Partition(candidates)
	}
	if len(pending) == 0 {
		return nil, nil
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "No changes were written.")
	reviewCtx, stop := handler.HandleInterrupts(ctx)
	defer stop()

	prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	prompter.Start(len(pending))

	chosen := make(map[string]model.Suggestion, len(pending))
	for _, c := range pending {
		s, ok, err := prompter.Review(reviewCtx, c)
		if errors.Is(err, cli.ErrReviewAborted) {
			break
		}
		if err != nil {
			return nil, err
		}
		if ok {
			chosen[c.Expense.ID] = s
		}
	}
	prompter.ShowCompletion()

	return func(c model.ReclassificationCandidate) (model.Suggestion, bool) {
		s, ok := chosen[c.Expense.ID]
		return s, ok
	}, nil
}

func printPlan(out io.Writer, changes []model.Reclassification) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXPENSE\tTO\tCONFIDENCE\tMODE")
	for _, c := range changes {
		mode := "reviewed"
		if c.Auto {
			mode = "auto"
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%s\n", c.ExpenseID, c.ToCategoryName, c.Confidence*100, mode)
	}
	_ = w.Flush()
}

// relearn refreshes learned terms from every stored expense and persists them.
func relearn(ctx context.Context, out io.Writer, a *app) error {
	all, err := a.store.GetExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return fmt.Errorf("failed to reload expenses: %w", err)
	}
	result := a.engine.Learn(all)
	if err := a.engine.Save(ctx); err != nil {
		return err
	}
	if n := result.TotalAdded(); n > 0 {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Learned %d new terms.", n)))
	}
	return nil
}
