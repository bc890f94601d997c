package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"

	"github.com/benvon/deerdiary/internal/database"
	"github.com/benvon/deerdiary/internal/models"
)

// NewRatelimitCmd creates the ratelimit configuration command with list and set subcommands.
func NewRatelimitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Manage rate limit configuration",
		Long:  "List or update the per-client rate limit on /api routes (e.g. 5-S, 100-M).",
	}
	cmd.AddCommand(newRatelimitListCmd())
	cmd.AddCommand(newRatelimitSetCmd())
	return cmd
}

func newRatelimitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List current rate limit configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				c, err := database.NewRatelimitConfigRepository(db).Get(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if c == nil {
					fmt.Fprintln(out, "No rate limit configuration in database. Use 'ratelimit set' to add one.")
					return nil
				}
				fmt.Fprintln(out, "Rate limit configuration:")
				fmt.Fprintf(out, "  Rate: %s\n", c.Rate)
				return nil
			})
		},
	}
}

// parseRate checks a rate in ulule/limiter format before it is stored
func parseRate(raw string) (string, error) {
	rate := strings.TrimSpace(raw)
	if rate == "" {
		return "", fmt.Errorf("--rate is required (e.g. 5-S, 100-M)")
	}
	if _, err := limiter.NewRateFromFormatted(rate); err != nil {
		return "", fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	return rate, nil
}

func newRatelimitSetCmd() *cobra.Command {
	var rate string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set rate limit configuration",
		Long:  "Update rate limit (e.g. 5-S, 100-M, 1000-H).",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseRate(rate)
			if err != nil {
				return err
			}
			return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				if err := database.NewRatelimitConfigRepository(db).Set(ctx, &models.RatelimitConfig{Rate: parsed}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Rate limit configuration updated.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&rate, "rate", "", "Rate (e.g. 5-S, 100-M, 1000-H) (required)")
	return cmd
}
