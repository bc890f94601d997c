package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benvon/deerdiary/cmd/configure/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "deerdiary-configure",
		Short:        "Configuration tool for the DeerDiary API",
		Long:         "CLI tool for service settings, stored notes and the theme preference",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(commands.NewSchemaCmd())
	rootCmd.AddCommand(commands.NewCorsCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewNotesCmd())
	rootCmd.AddCommand(commands.NewThemeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
