package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benvon/deerdiary/internal/database"
	"github.com/benvon/deerdiary/internal/models"
)

// NewCorsCmd creates the cors configuration command with list and set subcommands.
func NewCorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cors",
		Short: "Manage CORS configuration",
		Long:  "List or update CORS allowed origins and options. The server picks up changes within a minute.",
	}
	cmd.AddCommand(newCorsListCmd())
	cmd.AddCommand(newCorsSetCmd())
	return cmd
}

func newCorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List current CORS configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				c, err := database.NewCorsConfigRepository(db).Get(ctx)
				if err != nil {
					return err
				}
				printCorsConfig(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

func printCorsConfig(w io.Writer, c *models.CorsConfig) {
	if c == nil {
		fmt.Fprintln(w, "No CORS configuration in database; the server uses FRONTEND_URL. Use 'cors set' to add one.")
		return
	}
	fmt.Fprintln(w, "CORS configuration:")
	fmt.Fprintf(w, "  Allowed origins: %s\n", strings.Join(database.AllowedOriginsSlice(c.AllowedOrigins), ", "))
	fmt.Fprintf(w, "  Allow credentials: %v\n", c.AllowCredentials)
	fmt.Fprintf(w, "  Max-Age: %d\n", c.MaxAge)
}

func newCorsSetCmd() *cobra.Command {
	var origins string
	var allowCreds bool
	var maxAge int
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set CORS configuration",
		Long:  "Update CORS allowed origins (comma-separated).",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(database.AllowedOriginsSlice(origins)) == 0 {
				return fmt.Errorf("--origins is required (comma-separated list)")
			}
			if maxAge < 0 {
				return fmt.Errorf("--max-age cannot be negative")
			}
			return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				c := &models.CorsConfig{
					AllowedOrigins:   origins,
					AllowCredentials: allowCreds,
					MaxAge:           maxAge,
				}
				if err := database.NewCorsConfigRepository(db).Set(ctx, c); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "CORS configuration updated.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&origins, "origins", "", "Comma-separated allowed origins (required)")
	cmd.Flags().BoolVar(&allowCreds, "allow-credentials", true, "Allow credentials")
	cmd.Flags().IntVar(&maxAge, "max-age", 86400, "Access-Control-Max-Age (seconds)")
	return cmd
}
