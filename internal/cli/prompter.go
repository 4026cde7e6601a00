package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spicecat/internal/model"
	"github.com/schollz/progressbar/v3"
)

var (
	// ErrInputCancelled is returned when input is canceled by context.
	ErrInputCancelled = errors.New("input canceled")
	// ErrReviewAborted is returned when the reviewer quits before the end of the batch.
	ErrReviewAborted = errors.New("review aborted")
)

// ReviewStats summarizes an interactive review session.
type ReviewStats struct {
	Duration time.Duration
	Reviewed int
	Accepted int
	Skipped  int
}

// Prompter walks an operator through reclassification candidates one at a time.
type Prompter struct {
	startTime   time.Time
	writer      io.Writer
	lines       chan readResult
	reader      *bufio.Reader
	progressBar *progressbar.ProgressBar
	stats       ReviewStats
	total       int
}

type readResult struct {
	err  error
	line string
}

// NewPrompter creates a prompter with the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader:    bufio.NewReader(reader),
		writer:    writer,
		startTime: time.Now(),
	}
}

// Start prepares a progress bar for total candidates.
func (p *Prompter) Start(total int) {
	p.total = total
	p.startTime = time.Now()
	if total > 0 {
		p.progressBar = NewProgressBar(p.writer, total, "Reviewing expenses...")
	}
}

// Review shows one candidate and asks which suggestion to apply. The boolean is
// false when the operator skips the expense.
func (p *Prompter) Review(ctx context.Context, c model.ReclassificationCandidate) (model.Suggestion, bool, error) {
	select {
	case <-ctx.Done():
		return model.Suggestion{}, false, ctx.Err()
	default:
	}

	if _, err := fmt.Fprintln(p.writer, "\n"+RenderBox("Miscellaneous expense", FormatExpense(c.Expense))); err != nil {
		return model.Suggestion{}, false, fmt.Errorf("failed to write expense box: %w", err)
	}

	choices := make([]string, 0, len(c.Suggestions)+2)
	for i, s := range c.Suggestions {
		key := strconv.Itoa(i + 1)
		choices = append(choices, key)
		if _, err := fmt.Fprintf(p.writer, "  [%s] %s\n", key, RenderChip(s)); err != nil {
			return model.Suggestion{}, false, fmt.Errorf("failed to write suggestion: %w", err)
		}
	}
	if _, err := fmt.Fprintln(p.writer, "  [s] Skip this expense\n  [q] Stop reviewing"); err != nil {
		return model.Suggestion{}, false, fmt.Errorf("failed to write options: %w", err)
	}
	choices = append(choices, "s", "q")

	defaultChoice := ""
	if len(c.Suggestions) > 0 {
		defaultChoice = "1"
	}
	choice, err := p.promptChoice(ctx, "Choice", choices, defaultChoice)
	if err != nil {
		return model.Suggestion{}, false, err
	}

	switch choice {
	case "q":
		return model.Suggestion{}, false, ErrReviewAborted
	case "s":
		p.record(false)
		return model.Suggestion{}, false, nil
	}

	idx, _ := strconv.Atoi(choice)
	p.record(true)
	return c.Suggestions[idx-1], true, nil
}

// Confirm asks a yes/no question, defaulting to no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	choice, err := p.promptChoice(ctx, question+" [y/N]", []string{"y", "yes", "n", "no"}, "n")
	if err != nil {
		return false, err
	}
	return choice == "y" || choice == "yes", nil
}

// Stats returns the counters for the session so far.
func (p *Prompter) Stats() ReviewStats {
	s := p.stats
	s.Duration = time.Since(p.startTime)
	return s
}

// ShowCompletion prints a summary of the review session.
func (p *Prompter) ShowCompletion() {
	if p.progressBar != nil {
		_ = p.progressBar.Finish()
	}
	stats := p.Stats()
	summary := fmt.Sprintf("Reviewed %d of %d expenses: %d accepted, %d skipped (%s)",
		stats.Reviewed, p.total, stats.Accepted, stats.Skipped, stats.Duration.Round(time.Second))
	if _, err := fmt.Fprintln(p.writer, FormatSuccess(summary)); err != nil {
		slog.Warn("Failed to write review summary", "error", err)
	}
}

func (p *Prompter) record(accepted bool) {
	p.stats.Reviewed++
	if accepted {
		p.stats.Accepted++
	} else {
		p.stats.Skipped++
	}
	if p.progressBar != nil {
		if err := p.progressBar.Add(1); err != nil {
			slog.Debug("Failed to update progress bar", "error", err)
		}
	}
}

func (p *Prompter) promptChoice(ctx context.Context, prompt string, validChoices []string, defaultChoice string) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		if choice == "" && defaultChoice != "" {
			return defaultChoice, nil
		}
		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

// readLine reads one trimmed line, returning early if ctx is canceled. A read
// left pending by cancellation is picked up by the next call.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if p.lines == nil {
		p.lines = make(chan readResult, 1)
		go p.readNext(p.lines)
	}

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-p.lines:
		p.lines = nil
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && strings.TrimSpace(res.line) == "" {
				return "", fmt.Errorf("input terminated: %w", ErrReviewAborted)
			}
			if !errors.Is(res.err, io.EOF) {
				return "", res.err
			}
		}
		return strings.TrimSpace(res.line), nil
	}
}

func (p *Prompter) readNext(ch chan<- readResult) {
	line, err := p.reader.ReadString('\n')
	ch <- readResult{line: line, err: err}
}

// NewProgressBar builds the progress bar used by batch commands.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
