package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/benvon/deerdiary/internal/config"
	"github.com/benvon/deerdiary/internal/models"
	"github.com/benvon/deerdiary/internal/preferences"
)

// NewThemeCmd creates the theme command for reading and switching dark mode
func NewThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or switch the dark mode preference",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withThemeStore(cmd, func(store *preferences.ThemeStore) error {
				theme, err := store.Theme(cmd.Context())
				if err != nil {
					return err
				}
				printTheme(cmd.OutOrStdout(), theme)
				return nil
			})
		},
	})

	var dark bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Switch dark mode on or off",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withThemeStore(cmd, func(store *preferences.ThemeStore) error {
				if err := store.SetDarkMode(cmd.Context(), dark); err != nil {
					return err
				}
				printTheme(cmd.OutOrStdout(), models.NewThemePreference(dark))
				return nil
			})
		},
	}
	set.Flags().BoolVar(&dark, "dark", false, "Enable dark mode")
	cmd.AddCommand(set)
	return cmd
}

func withThemeStore(cmd *cobra.Command, fn func(*preferences.ThemeStore) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, store, err := preferences.Dial(cmd.Context(), cfg.RedisURL)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()
	return fn(store)
}

func printTheme(w io.Writer, t models.ThemePreference) {
	mode := "notebook"
	if t.DarkMode {
		mode = "dark"
	}
	fmt.Fprintf(w, "Theme: %s\n", mode)
	fmt.Fprintf(w, "  Stroke: %s, width %d, alpha %.1f", t.Stroke.Color, t.Stroke.Width, t.Stroke.Alpha)
	if t.Stroke.ShadowBlur > 0 {
		fmt.Fprintf(w, ", shadow %d %s", t.Stroke.ShadowBlur, t.Stroke.ShadowColor)
	}
	fmt.Fprintln(w)
}
