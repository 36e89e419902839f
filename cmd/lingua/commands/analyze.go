package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/lingua/display"
	"github.com/teranos/lingua/logger"
)

// AnalyzeCmd detects project structure without writing any state.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Detect project structure and language distribution",
	Long:  `Scan a project directory, classify its source files by language, and report totals, the main language, and the inferred project type.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		structure, err := d.detector.AnalyzeStructure(root)
		if err != nil {
			return err
		}

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(structure)
		}

		logger.Infow("project analyzed",
			logger.FieldDirectory, root,
			logger.FieldLanguage, structure.MainLanguage)

		display.RenderProjectStructure(structure)
		return nil
	},
}
