package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/lingua/display"
	"github.com/teranos/lingua/logger"
	"github.com/teranos/lingua/state"
)

// MetadataCmd generates and persists project metadata.
var MetadataCmd = &cobra.Command{
	Use:   "metadata [dir]",
	Short: "Generate structural metadata for a project",
	Long:  `Parse every source file in the project and write the combined structural metadata (functions, classes, imports, per-language summaries) to the configured metadata path.`,
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

		meta, err := d.generator.Generate(root)
		if err != nil {
			return err
		}

		if err := d.store.SaveMetadata(meta); err != nil {
			return err
		}
		if err := d.store.AppendStatus(state.StatusEntry{
			Operation: "metadata",
			Status:    "completed",
			Details: map[string]interface{}{
				"files":     meta.TotalFiles,
				"languages": len(meta.Languages),
			},
		}); err != nil {
			logger.Warnw("could not record status entry", logger.FieldError, err.Error())
		}

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(meta)
		}
		display.RenderProjectMetadata(meta)
		return nil
	},
}
