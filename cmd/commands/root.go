package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "materials-advisor",
	Short: "AI material selection for engineering components",
	Long: `Materials Advisor analyses component descriptions and scanned drawings,
recommends materials with GOST references, and renders bilingual PDF reports.
Run without a subcommand to start the web server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
