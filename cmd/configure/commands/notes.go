package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/benvon/deerdiary/internal/config"
	"github.com/benvon/deerdiary/internal/database"
	"github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/models"
	"github.com/benvon/deerdiary/internal/queue"
	"github.com/benvon/deerdiary/internal/validation"
)

// NewNotesCmd creates the notes command for inspecting stored notes and their monthly summaries
func NewNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Inspect stored notes",
	}
	cmd.AddCommand(newNotesListCmd())
	cmd.AddCommand(newNotesSummaryCmd())
	cmd.AddCommand(newNotesResummarizeCmd())
	return cmd
}

func newNotesListCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored notes, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != "" {
				if err := validation.ValidateMonthKey(month); err != nil {
					return err
				}
			}
			return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				repo := database.NewNoteRepository(db)
				var notes []*models.Note
				var err error
				if month == "" {
					notes, err = repo.List(ctx)
				} else {
					notes, err = repo.ListByMonth(ctx, month)
				}
				if err != nil {
					return err
				}
				return printNotes(cmd.OutOrStdout(), notes)
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Only notes of this month (YYYY-MM)")
	return cmd
}

func printNotes(w io.Writer, notes []*models.Note) error {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes stored.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tWEATHER\tMOOD\tCOMPANY\tTEXT")
	for _, n := range notes {
		e := n.Entry()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Date, dash(e.Timestamp), dash(string(e.Weather)), dash(string(e.Mood)), dash(string(e.Company)), logger.PreviewText(e.Text))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newNotesSummaryCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the tag summary of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month == "" {
				month = time.Now().Format("2006-01")
			}
			if err := validation.ValidateMonthKey(month); err != nil {
				return err
			}
			return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				summary, err := database.NewTagSummaryRepository(db).GetByMonth(ctx, month)
				if errors.Is(err, database.ErrSummaryNotFound) {
					fmt.Fprintf(cmd.OutOrStdout(), "No summary for %s yet.\n", month)
					return nil
				}
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM), defaults to the current month")
	return cmd
}

func printSummary(w io.Writer, s *models.TagSummary) {
	state := "up to date"
	if s.Tainted {
		state = "stale, recount pending"
	}
	fmt.Fprintf(w, "Tag summary for %s (%d notes, %s)\n", s.Month, s.Notes, state)
	for _, group := range []struct {
		name   string
		counts models.TagCounts
	}{
		{"Weather", s.Weather},
		{"Mood", s.Mood},
		{"Company", s.Company},
	} {
		fmt.Fprintf(w, "  %s:", group.name)
		if len(group.counts) == 0 {
			fmt.Fprintln(w, " -")
			continue
		}
		values := make([]string, 0, len(group.counts))
		for v := range group.counts {
			values = append(values, v)
		}
		sort.Strings(values)
		for _, v := range values {
			fmt.Fprintf(w, " %s=%d", v, group.counts[v])
		}
		fmt.Fprintln(w)
	}
}

func newNotesResummarizeCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "resummarize",
		Short: "Queue a tag summary recount for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateMonthKey(month); err != nil {
				return fmt.Errorf("--month: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL is not set")
			}
			q, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL, nil)
			if err != nil {
				return err
			}
			defer func() { _ = q.Close() }()

			job := queue.NewJob(queue.JobTypeTagSummary, month)
			if err := q.Enqueue(cmd.Context(), job); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued recount %s for %s.\n", job.ID, month)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM) (required)")
	return cmd
}
