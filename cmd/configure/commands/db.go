package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benvon/deerdiary/internal/config"
	"github.com/benvon/deerdiary/internal/database"
)

// withDB loads the environment config, connects and runs fn
func withDB(ctx context.Context, fn func(ctx context.Context, db *database.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.NewContext(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()
	return fn(ctx, db)
}

// NewSchemaCmd creates the command that creates missing tables
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create missing tables",
		Long:  "Create the notes, tag summary and settings tables if they do not exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				if err := db.EnsureSchema(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
				return nil
			})
		},
	}
}
