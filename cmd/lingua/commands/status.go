package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/lingua/display"
)

// StatusCmd shows recent pipeline run history.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent pipeline run history",
	Long:  `Show the latest pipeline run and aggregate statuses over the most recent runs from the status log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}

		summary, err := d.store.Summary()
		if err != nil {
			return err
		}

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(summary)
		}
		display.RenderStatusSummary(summary)
		return nil
	},
}
