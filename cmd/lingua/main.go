package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/lingua/cmd/lingua/commands"
	"github.com/teranos/lingua/logger"
)

var rootCmd = &cobra.Command{
	Use:   "lingua",
	Short: "lingua - multi-language code intelligence pipeline",
	Long: `lingua analyzes, validates, and generates code across languages.

Available commands:
  analyze  - Detect project structure and language distribution
  metadata - Generate structural metadata for a project
  validate - Run the syntax / test / AI-logic validation pipeline
  generate - Generate code from a requirements file
  status   - Show recent pipeline run history

Examples:
  lingua analyze .                          # What is this project?
  lingua metadata .                         # Write codebase_metadata.json
  lingua validate . -r requirements.csv     # Full validation run
  lingua generate -l python -r reqs.csv     # Implement pending requirements
  lingua status                             # Recent run summary`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output machine-readable JSON")

	rootCmd.AddCommand(commands.AnalyzeCmd)
	rootCmd.AddCommand(commands.MetadataCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.StatusCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
